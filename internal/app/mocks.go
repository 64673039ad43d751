package app

import "payalert_backend/internal/email"

// MockEmailProvider is used when no SMTP gateway is configured.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(email *email.Email) error { return nil }
func (m *MockEmailProvider) Validate() error               { return nil }
func (m *MockEmailProvider) Close() error                  { return nil }
