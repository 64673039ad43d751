package models

import (
	"strings"
	"time"
)

// Notification is one delivery unit: a single event fans out to one record
// per resolved target role. CreatedAt doubles as the SLA reference time.
type Notification struct {
	BaseModel
	EventType      EventType          `gorm:"not null;index"`
	RecipientRole  Role               `gorm:"not null;index"`
	Priority       Priority           `gorm:"not null;index"`
	Message        string             `gorm:"not null"`
	College        string             `gorm:"index"`
	Department     string
	Status         NotificationStatus `gorm:"not null;index;default:pending"`
	ScheduledAt    *time.Time         `gorm:"index"`
	EscalationTime *time.Time
}

// Escalated reports whether the message already carries the escalation tag.
func (n *Notification) Escalated() bool {
	return strings.HasPrefix(n.Message, EscalationPrefix)
}

// EscalatedMessage returns the message with the escalation tag applied
// exactly once.
func (n *Notification) EscalatedMessage() string {
	if n.Escalated() {
		return n.Message
	}
	return EscalationPrefix + n.Message
}
