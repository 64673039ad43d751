package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only lifecycle entry. Rows are never updated or
// deleted; a notification owns a time-ordered sequence of them.
type AuditLog struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	NotificationID string         `gorm:"type:uuid;not null;index"`
	Action         AuditAction    `gorm:"not null"`
	Actor          string         `gorm:"not null"`
	Details        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"default:now()"`
}
