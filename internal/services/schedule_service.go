package services

import (
	"context"
	"time"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/routing"
)

// ScheduleService releases scheduled notifications whose delivery time has
// arrived.
type ScheduleService interface {
	// DispatchDue sweeps once and returns how many records were released.
	DispatchDue(ctx context.Context) (int, error)
}

type scheduleService struct {
	notificationRepo repositories.NotificationRepository
	audit            *AuditRecorder
	router           routing.Router
	routingTimeout   time.Duration

	now func() time.Time
}

func NewScheduleService(
	notificationRepo repositories.NotificationRepository,
	audit *AuditRecorder,
	router routing.Router,
	routingTimeout time.Duration,
) ScheduleService {
	if routingTimeout <= 0 {
		routingTimeout = defaultRoutingTimeout
	}
	return &scheduleService{
		notificationRepo: notificationRepo,
		audit:            audit,
		router:           router,
		routingTimeout:   routingTimeout,
		now:              time.Now,
	}
}

func (s *scheduleService) DispatchDue(ctx context.Context) (int, error) {
	due, err := s.notificationRepo.FindDueScheduled(s.now())
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range due {
		if s.dispatchOne(ctx, &due[i]) {
			dispatched++
		}
	}

	logger.SweepLog("scheduled_dispatch", dispatched, nil)
	return dispatched, nil
}

// dispatchOne releases one scheduled record. Failures are isolated per
// record so the sweep always finishes.
func (s *scheduleService) dispatchOne(ctx context.Context, notification *models.Notification) bool {
	s.audit.Record(ctx, notification.ID, models.AuditScheduledTriggered, models.CronActor, map[string]any{
		"scheduled_at": notification.ScheduledAt,
	})

	routeCtx, cancel := context.WithTimeout(ctx, s.routingTimeout)
	defer cancel()

	if err := s.router.Route(routeCtx, notification); err != nil {
		logger.CtxWithError(ctx, "Scheduled delivery failed", err,
			"notification_id", notification.ID)

		if updErr := s.notificationRepo.UpdateStatus(notification.ID, models.StatusFailed); updErr != nil {
			logger.CtxWithError(ctx, "Failed to mark notification failed", updErr,
				"notification_id", notification.ID)
		}
		s.audit.Record(ctx, notification.ID, models.AuditDeliveryFailed, models.CronActor, map[string]any{
			"error": err.Error(),
		})
		return false
	}

	if err := s.notificationRepo.MarkDispatched(notification.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to mark notification sent", err,
			"notification_id", notification.ID)
		return false
	}
	s.audit.Record(ctx, notification.ID, models.AuditSent, models.CronActor, nil)
	return true
}
