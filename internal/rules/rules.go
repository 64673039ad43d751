package rules

import (
	"payalert_backend/internal/models"
)

// Engine adjusts priority and audience per event type before routing.
// Implementations must be pure: same inputs always give the same outputs.
type Engine interface {
	Apply(eventType models.EventType, clientPriority models.Priority, roles []models.Role) (models.Priority, []models.Role)
}

type engine struct{}

func NewEngine() Engine {
	return engine{}
}

// Apply enforces event-specific overrides:
//   - PAYROLL_FAILED is always HIGH, whatever the client asked for.
//   - SALARY_PROCESSED is informational and capped at MEDIUM.
//   - SYSTEM_ERROR is HIGH and pulls IT support into the audience.
//
// Unknown event types pass the client priority through unchanged; an
// absent client priority falls back to LOW.
func (engine) Apply(eventType models.EventType, clientPriority models.Priority, roles []models.Role) (models.Priority, []models.Role) {
	priority := clientPriority
	if priority == "" {
		priority = models.PriorityLow
	}

	switch eventType {
	case models.EventPayrollFailed:
		priority = models.PriorityHigh
	case models.EventSalaryProcessed:
		priority = models.PriorityMedium
	case models.EventSystemError:
		priority = models.PriorityHigh
		roles = appendRole(roles, models.RoleITSupport)
	}

	return priority, roles
}

func appendRole(roles []models.Role, role models.Role) []models.Role {
	for _, r := range roles {
		if r == role {
			return roles
		}
	}
	out := make([]models.Role, 0, len(roles)+1)
	out = append(out, roles...)
	return append(out, role)
}
