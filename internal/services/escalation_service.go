package services

import (
	"context"
	"time"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/routing"
)

// SLA thresholds for unattended high-priority notifications. Demo mode
// shrinks the window so escalation can be exercised interactively.
const (
	EscalationThreshold     = 3 * time.Hour
	DemoEscalationThreshold = time.Minute
)

// EscalationService reroutes overdue high-priority notifications to the
// escalation target role.
type EscalationService interface {
	// EscalateOverdue sweeps once and returns how many records escalated.
	EscalateOverdue(ctx context.Context, demo bool) (int, error)
}

type escalationService struct {
	notificationRepo repositories.NotificationRepository
	audit            *AuditRecorder
	router           routing.Router
	routingTimeout   time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func NewEscalationService(
	notificationRepo repositories.NotificationRepository,
	audit *AuditRecorder,
	router routing.Router,
	routingTimeout time.Duration,
) EscalationService {
	if routingTimeout <= 0 {
		routingTimeout = defaultRoutingTimeout
	}
	return &escalationService{
		notificationRepo: notificationRepo,
		audit:            audit,
		router:           router,
		routingTimeout:   routingTimeout,
		now:              time.Now,
	}
}

func (s *escalationService) EscalateOverdue(ctx context.Context, demo bool) (int, error) {
	threshold := EscalationThreshold
	if demo {
		threshold = DemoEscalationThreshold
	}
	cutoff := s.now().Add(-threshold)

	overdue, err := s.notificationRepo.FindOverdueHighPriority(cutoff)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for i := range overdue {
		notification := &overdue[i]
		if s.escalateOne(ctx, notification) {
			escalated++
		}
	}

	logger.SweepLog("escalation", escalated, nil)
	return escalated, nil
}

// escalateOne reroutes a single record. A failure here is logged and skipped
// so one bad record cannot stall the rest of the sweep.
func (s *escalationService) escalateOne(ctx context.Context, notification *models.Notification) bool {
	originalRole := notification.RecipientRole
	previousStatus := notification.Status
	message := notification.EscalatedMessage()

	upgraded := *notification
	upgraded.RecipientRole = models.EscalationTargetRole
	upgraded.Message = message
	upgraded.Status = models.StatusEscalated

	routeCtx, cancel := context.WithTimeout(ctx, s.routingTimeout)
	defer cancel()

	// Redelivery comes first. A record that cannot reach the escalation
	// target keeps its status and stays eligible for the next sweep.
	if err := s.router.Route(routeCtx, &upgraded); err != nil {
		logger.CtxWithError(ctx, "Escalated notification redelivery failed", err,
			"notification_id", notification.ID)
		return false
	}

	at := s.now()
	if err := s.notificationRepo.MarkEscalated(notification.ID, models.EscalationTargetRole, message, at); err != nil {
		logger.CtxWithError(ctx, "Failed to mark notification escalated", err,
			"notification_id", notification.ID)
		return false
	}

	s.audit.Record(ctx, notification.ID, models.AuditEscalated, models.CronActor, map[string]any{
		"from_role":       string(originalRole),
		"to_role":         string(models.EscalationTargetRole),
		"previous_status": string(previousStatus),
	})

	return true
}
