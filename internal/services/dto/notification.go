package dto

import (
	"time"

	"payalert_backend/internal/models"
)

// ---------------- Requests ----------------

type EventRequest struct {
	EventType   string            `json:"event_type" validate:"required,event_type"`
	Priority    string            `json:"priority" validate:"required,priority"`
	College     string            `json:"college_id" validate:"required,max=200"`
	CollegeName string            `json:"college_name" validate:"omitempty,max=200"`
	Department  string            `json:"department" validate:"required,max=200"`
	Actor       string            `json:"actor_identifier" validate:"omitempty,max=100"`
	Params      map[string]string `json:"params"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
}

type ResolveRequest struct {
	Actor string `json:"actor" validate:"omitempty,max=100"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID             string     `json:"id"`
	EventType      string     `json:"event_type"`
	RecipientRole  string     `json:"recipient_role"`
	Priority       string     `json:"priority"`
	Message        string     `json:"message"`
	College        string     `json:"college,omitempty"`
	Department     string     `json:"department,omitempty"`
	Status         string     `json:"status"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	EscalationTime *time.Time `json:"escalation_time,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RoleResult is the per-role outcome of one event fan-out.
type RoleResult struct {
	Role           string `json:"role"`
	NotificationID string `json:"notification_id,omitempty"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

type EventResult struct {
	EventType string       `json:"event_type"`
	Priority  string       `json:"priority"`
	Results   []RoleResult `json:"results"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type AuditEntryResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type EscalationRunResponse struct {
	Escalated int  `json:"escalated"`
	Demo      bool `json:"demo"`
}

// ---------------- Mappers ----------------

func NewNotificationResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:             n.ID,
		EventType:      string(n.EventType),
		RecipientRole:  string(n.RecipientRole),
		Priority:       string(n.Priority),
		Message:        n.Message,
		College:        n.College,
		Department:     n.Department,
		Status:         string(n.Status),
		ScheduledAt:    n.ScheduledAt,
		EscalationTime: n.EscalationTime,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}
