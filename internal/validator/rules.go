package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"payalert_backend/internal/models"
)

// registerCustomRules registers the domain validation tags on the given
// validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error; refuse to run.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'event_type': closed set of payroll event types
	mustRegister("event_type", validateEventType)

	// 'priority': HIGH / MEDIUM / LOW
	mustRegister("priority", validatePriority)

	// 'role': known recipient roles
	mustRegister("role", validateRole)

	// 'notification_status': lifecycle statuses
	mustRegister("notification_status", validateNotificationStatus)
}

// --- Validation functions ---

func validateEventType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are 'required's job
	}
	return models.EventType(value).Valid()
}

func validatePriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Priority(value).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Role(value).Valid()
}

func validateNotificationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotificationStatus(value).Valid()
}
