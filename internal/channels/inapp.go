package channels

import (
	"context"

	"payalert_backend/internal/logger"
)

// Broadcaster pushes a payload to all connected live dashboard viewers.
// Implemented by the ws hub.
type Broadcaster interface {
	Publish(event string, payload any)
}

// InAppSender delivers the IN_APP channel: the dashboard group gets the
// message, and every connected viewer receives the full record over the
// live feed.
type InAppSender struct {
	hub Broadcaster
}

func NewInAppSender(hub Broadcaster) *InAppSender {
	return &InAppSender{hub: hub}
}

func (s *InAppSender) Send(ctx context.Context, p Payload) error {
	logger.CtxInfo(ctx, "In-app alert", "group", p.To, "message", p.Message)

	if s.hub != nil && p.Record != nil {
		s.hub.Publish("new_notification", p.Record)
	}
	return nil
}

// LogSender is the fallback channel: the payload is only written to the log.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, p Payload) error {
	logger.CtxInfo(ctx, "Log channel", "to", p.To, "message", p.Message)
	return nil
}
