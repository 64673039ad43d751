package services

import (
	"payalert_backend/internal/templates"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	EventService        EventService
	NotificationService NotificationService
	EscalationService   EscalationService
	ScheduleService     ScheduleService
	TemplateResolver    templates.Resolver
}
