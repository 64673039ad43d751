package app

import (
	"context"
	"fmt"

	"payalert_backend/database"
	"payalert_backend/internal/channels"
	"payalert_backend/internal/config"
	"payalert_backend/internal/email"
	"payalert_backend/internal/handlers"
	"payalert_backend/internal/logger"
	"payalert_backend/internal/middleware"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/routes"
	"payalert_backend/internal/routing"
	"payalert_backend/internal/rules"
	"payalert_backend/internal/services"
	"payalert_backend/internal/templates"
	"payalert_backend/internal/validator"
	"payalert_backend/internal/workers"
	"payalert_backend/ws"

	"github.com/gin-gonic/gin"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	notificationRepo, auditRepo := initializeStores(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter, serviceContainer := SetupRouter(cfg, notificationRepo, auditRepo)

	sweepWorker := workers.NewSweepWorker(
		serviceContainer.EscalationService,
		serviceContainer.ScheduleService,
		cfg.Sweep.Demo,
	)
	if err := sweepWorker.Start(ctx); err != nil {
		logger.Fatal("Failed to start sweep worker", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// initializeStores picks the persistence backend. An empty DSN runs the
// engine on the in-memory store, which is enough for demos and tests.
func initializeStores(cfg *config.Config) (repositories.NotificationRepository, repositories.AuditRepository) {
	if cfg.Database.DSN == "" {
		logger.Warn("No database DSN configured, using in-memory store")
		return repositories.NewInMemoryNotificationRepository(), repositories.NewInMemoryAuditRepository()
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}
	logger.Info("Database connected")

	return repositories.NewNotificationRepository(gormDB), repositories.NewAuditRepository(gormDB)
}

func SetupRouter(cfg *config.Config, notificationRepo repositories.NotificationRepository, auditRepo repositories.AuditRepository) (*gin.Engine, *services.ServiceContainer) {
	// 1. WebSocket hub, started before the in-app channel needs it
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// 2. Delivery channels and router
	dispatcher := initializeDispatcher(cfg, wsManager)
	router := routing.NewPriorityRouter(dispatcher)

	// 3. Services
	serviceContainer := initializeServices(cfg, notificationRepo, auditRepo, router)

	// 4. Handlers
	appHandlers := initializeHandlers(serviceContainer)

	// 5. Gin and routes
	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, serviceContainer
}

func initializeDispatcher(cfg *config.Config, hub channels.Broadcaster) channels.Dispatcher {
	emailProvider := initializeEmailProvider(cfg)

	emailSender := channels.NewEmailSender(emailProvider, cfg.Email.FromEmail)
	smsSender := channels.NewWebhookSender(channels.ChannelSMS, cfg.Channels.SMSWebhookURL)
	chatSender := channels.NewWebhookSender(channels.ChannelChat, cfg.Channels.ChatWebhookURL)
	inAppSender := channels.NewInAppSender(hub)
	logSender := channels.NewLogSender()

	return channels.NewDispatcher(emailSender, smsSender, chatSender, inAppSender, logSender)
}

func initializeEmailProvider(cfg *config.Config) email.Provider {
	smtpConfig := &email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		UseTLS:   cfg.Email.UseTLS,
	}

	if smtpConfig.Host == "" {
		logger.Warn("No SMTP host configured, email channel uses MOCK provider")
		return &MockEmailProvider{}
	}

	switch cfg.Email.Provider {
	case "gomail":
		return email.NewGomailProvider(smtpConfig)
	default:
		return email.NewSMTPProvider(smtpConfig)
	}
}

func initializeServices(
	cfg *config.Config,
	notificationRepo repositories.NotificationRepository,
	auditRepo repositories.AuditRepository,
	router *routing.PriorityRouter,
) *services.ServiceContainer {
	resolver, err := templates.NewResolver(cfg.Templates.Path)
	if err != nil {
		logger.Fatal("Failed to load notification templates", "error", err)
	}

	audit := services.NewAuditRecorder(auditRepo)
	rulesEngine := rules.NewEngine()
	timeout := cfg.RoutingTimeout()

	eventService := services.NewEventService(notificationRepo, audit, resolver, rulesEngine, router, timeout)
	notificationService := services.NewNotificationService(notificationRepo, auditRepo, audit)
	escalationService := services.NewEscalationService(notificationRepo, audit, router, timeout)
	scheduleService := services.NewScheduleService(notificationRepo, audit, router, timeout)

	return &services.ServiceContainer{
		EventService:        eventService,
		NotificationService: notificationService,
		EscalationService:   escalationService,
		ScheduleService:     scheduleService,
		TemplateResolver:    resolver,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.EventService, services.NotificationService),
		EscalationHandler:   handlers.NewEscalationHandler(baseHandler, services.EscalationService, services.TemplateResolver),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
