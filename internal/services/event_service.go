package services

import (
	"context"
	"time"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/routing"
	"payalert_backend/internal/rules"
	"payalert_backend/internal/services/dto"
	"payalert_backend/internal/templates"
	"payalert_backend/pkg/apperrors"
)

const defaultRoutingTimeout = 10 * time.Second

// EventService turns one payroll event into per-role notifications and
// drives each through persist, audit and routing.
type EventService interface {
	HandleEvent(ctx context.Context, req *dto.EventRequest) (*dto.EventResult, error)
}

type eventService struct {
	notificationRepo repositories.NotificationRepository
	audit            *AuditRecorder
	resolver         templates.Resolver
	rules            rules.Engine
	router           routing.Router
	routingTimeout   time.Duration
}

func NewEventService(
	notificationRepo repositories.NotificationRepository,
	audit *AuditRecorder,
	resolver templates.Resolver,
	rulesEngine rules.Engine,
	router routing.Router,
	routingTimeout time.Duration,
) EventService {
	if routingTimeout <= 0 {
		routingTimeout = defaultRoutingTimeout
	}
	return &eventService{
		notificationRepo: notificationRepo,
		audit:            audit,
		resolver:         resolver,
		rules:            rulesEngine,
		router:           router,
		routingTimeout:   routingTimeout,
	}
}

func (s *eventService) HandleEvent(ctx context.Context, req *dto.EventRequest) (*dto.EventResult, error) {
	eventType := models.EventType(req.EventType)
	if !eventType.Valid() {
		return nil, apperrors.ErrUnknownEventType
	}

	// A scheduled_at that is not in the future means immediate delivery.
	scheduled := req.ScheduledAt != nil && req.ScheduledAt.After(time.Now())

	roles := s.resolver.RolesFor(eventType)
	priority, roles := s.rules.Apply(eventType, models.Priority(req.Priority), roles)

	// college_name falls back to college_id when the caller omits it.
	collegeName := req.CollegeName
	if collegeName == "" {
		collegeName = req.College
	}

	params := make(map[string]string, len(req.Params)+4)
	for k, v := range req.Params {
		params[k] = v
	}
	if req.College != "" {
		params["college_id"] = req.College
	}
	if collegeName != "" {
		params["college_name"] = collegeName
		params["college"] = collegeName
	}
	if req.Department != "" {
		params["department"] = req.Department
	}
	message := s.resolver.Resolve(eventType, params)

	logger.CtxInfo(ctx, "Handling payroll event",
		"event_type", req.EventType,
		"priority", string(priority),
		"roles", len(roles),
		"scheduled", scheduled)

	result := &dto.EventResult{
		EventType: string(eventType),
		Priority:  string(priority),
	}

	persisted := 0
	for _, role := range roles {
		roleResult := s.handleRole(ctx, eventType, role, priority, message, scheduled, req)
		if roleResult.NotificationID != "" {
			persisted++
		}
		result.Results = append(result.Results, roleResult)
	}

	// Only a total persistence failure fails the request. Partial failures
	// and routing failures come back in the per-role results.
	if persisted == 0 && len(roles) > 0 {
		return nil, apperrors.ErrPersistenceFailed(nil).
			WithDetails(result.Results)
	}

	return result, nil
}

func (s *eventService) handleRole(ctx context.Context, eventType models.EventType, role models.Role, priority models.Priority, message string, scheduled bool, req *dto.EventRequest) dto.RoleResult {
	notification := &models.Notification{
		EventType:     eventType,
		RecipientRole: role,
		Priority:      priority,
		Message:       message,
		College:       req.College,
		Department:    req.Department,
		Status:        models.StatusPending,
	}
	if scheduled {
		notification.Status = models.StatusScheduled
		notification.ScheduledAt = req.ScheduledAt
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.CtxWithError(ctx, "Failed to persist notification", err,
			"event_type", string(eventType), "role", string(role))
		return dto.RoleResult{
			Role:   string(role),
			Status: string(models.StatusFailed),
			Error:  err.Error(),
		}
	}

	s.audit.Record(ctx, notification.ID, models.AuditCreated, req.Actor, map[string]any{
		"event_type": string(eventType),
		"priority":   string(priority),
		"role":       string(role),
		"status":     string(notification.Status),
	})

	// Scheduled records wait for the sweep; nothing is delivered now.
	if notification.Status == models.StatusScheduled {
		return dto.RoleResult{
			Role:           string(role),
			NotificationID: notification.ID,
			Status:         string(models.StatusScheduled),
		}
	}

	status := s.dispatch(ctx, notification)
	roleResult := dto.RoleResult{
		Role:           string(role),
		NotificationID: notification.ID,
		Status:         string(status),
	}
	return roleResult
}

// dispatch routes a pending notification and records the outcome. Routing
// failures mark the record failed; they never propagate to the caller.
func (s *eventService) dispatch(ctx context.Context, notification *models.Notification) models.NotificationStatus {
	routeCtx, cancel := context.WithTimeout(ctx, s.routingTimeout)
	defer cancel()

	if err := s.router.Route(routeCtx, notification); err != nil {
		logger.CtxWithError(ctx, "Routing failed, marking notification failed", err,
			"notification_id", notification.ID)

		if updErr := s.notificationRepo.UpdateStatus(notification.ID, models.StatusFailed); updErr != nil {
			logger.CtxWithError(ctx, "Failed to mark notification failed", updErr,
				"notification_id", notification.ID)
		}
		s.audit.Record(ctx, notification.ID, models.AuditDeliveryFailed, "", map[string]any{
			"error": err.Error(),
		})
		return models.StatusFailed
	}

	if err := s.notificationRepo.MarkDispatched(notification.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to mark notification sent", err,
			"notification_id", notification.ID)
		return notification.Status
	}
	s.audit.Record(ctx, notification.ID, models.AuditSent, "", nil)
	return models.StatusSent
}
