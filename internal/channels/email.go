package channels

import (
	"context"

	"payalert_backend/internal/email"
	"payalert_backend/internal/logger"
)

// EmailSender bridges the EMAIL channel onto an email.Provider.
type EmailSender struct {
	provider email.Provider
	from     string
}

func NewEmailSender(provider email.Provider, from string) *EmailSender {
	return &EmailSender{provider: provider, from: from}
}

func (s *EmailSender) Send(ctx context.Context, p Payload) error {
	msg := &email.Email{
		From:    s.from,
		To:      []string{p.To},
		Subject: p.Subject,
		Body:    p.Message,
	}

	if err := s.provider.Send(msg); err != nil {
		return err
	}

	logger.CtxDebug(ctx, "Email dispatched", "to", p.To, "subject", p.Subject)
	return nil
}
