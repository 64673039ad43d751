package email

// Provider defines the interface for sending email.
type Provider interface {
	// Send delivers a single email message.
	Send(email *Email) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases the provider connection.
	Close() error
}
