package handlers

// AppHandlers holds all application handlers.
type AppHandlers struct {
	NotificationHandler *NotificationHandler
	EscalationHandler   *EscalationHandler
}
