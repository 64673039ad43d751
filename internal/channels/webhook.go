package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"payalert_backend/internal/logger"
)

// WebhookSender posts a JSON body to a gateway endpoint. It backs both the
// SMS and CHAT channels: the external gateway owns the actual delivery
// protocol, we only hand the payload over.
type WebhookSender struct {
	url     string
	channel Channel
	client  *http.Client
}

func NewWebhookSender(channel Channel, url string) *WebhookSender {
	return &WebhookSender{
		url:     url,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookBody struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *WebhookSender) Send(ctx context.Context, p Payload) error {
	if s.url == "" {
		// No gateway configured: behave as a logged no-op, same as the
		// unconfigured-channel path in the dispatcher.
		logger.CtxInfo(ctx, "Gateway not configured, logging payload instead",
			"channel", string(s.channel), "to", p.To, "message", p.Message)
		return nil
	}

	body, err := json.Marshal(webhookBody{
		Channel: string(s.channel),
		To:      p.To,
		Message: p.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", s.channel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", s.channel, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s gateway call failed: %w", s.channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s gateway returned status %d", s.channel, resp.StatusCode)
	}

	logger.CtxDebug(ctx, "Gateway accepted payload", "channel", string(s.channel), "to", p.To)
	return nil
}
