package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
)

// AuditRecorder appends lifecycle entries. A failed append is logged and
// swallowed: the audit trail never rolls back the status change it records.
type AuditRecorder struct {
	auditRepo repositories.AuditRepository
}

func NewAuditRecorder(auditRepo repositories.AuditRepository) *AuditRecorder {
	return &AuditRecorder{auditRepo: auditRepo}
}

// Record appends one entry. Empty actor defaults to the system actor.
func (a *AuditRecorder) Record(ctx context.Context, notificationID string, action models.AuditAction, actor string, details map[string]any) {
	if actor == "" {
		actor = models.SystemActor
	}

	var detailsJSON datatypes.JSON
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to marshal audit details", err,
				"notification_id", notificationID, "action", string(action))
		} else {
			detailsJSON = datatypes.JSON(data)
		}
	}

	entry := &models.AuditLog{
		NotificationID: notificationID,
		Action:         action,
		Actor:          actor,
		Details:        detailsJSON,
	}

	if err := a.auditRepo.Append(entry); err != nil {
		logger.CtxWithError(ctx, "Failed to append audit entry", err,
			"notification_id", notificationID, "action", string(action))
	}
}
