package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for the notification domain.
*/

// =========================================================================
// Factory FUNCTIONS (wrap errors coming up from lower layers)
// =========================================================================

// ErrNotFound wraps a repository "not found" into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrPersistenceFailed wraps a storage failure during notification creation.
// Raised as a 500 only when no role could be persisted at all.
func ErrPersistenceFailed(err error) *AppError {
	return Wrap(err, CodePersistenceFailed, "notification", "Failed to persist notification", http.StatusInternalServerError)
}

// ErrRoutingFailed wraps a channel delivery failure. Routing errors never
// fail the originating request; this factory exists for the audit details
// and the failed-status path.
func ErrRoutingFailed(err error) *AppError {
	return Wrap(err, CodeRoutingFailed, "routing", "Channel delivery failed", http.StatusBadGateway)
}

// ErrConflict is the generic conflict factory (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Factory FUNCTIONS (create new errors)
// =========================================================================

// ErrInvalidOperation is the factory for invalid operations (400).
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is the factory for invalid status transitions (409).
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Predefined VARIABLES (frequent, static errors)
// =========================================================================

// ErrNotificationResolved rejects transitions out of the terminal state.
var ErrNotificationResolved = New(
	CodeInvalidStatus,
	"notification",
	"Notification is already resolved",
	http.StatusConflict,
)

// ErrUnknownEventType rejects events outside the known catalogue.
var ErrUnknownEventType = New(
	CodeValidationFailed,
	"validation",
	"Unknown event type",
	http.StatusBadRequest,
)
