package channels

import (
	"context"

	"payalert_backend/internal/logger"
)

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelChat  Channel = "CHAT"
	ChannelInApp Channel = "IN_APP"
	ChannelLog   Channel = "LOG"
)

// Payload carries the addressing and content for a single channel call.
// To is channel-specific: an email address, an SMS recipient list name, a
// chat channel, or a dashboard group id.
type Payload struct {
	To      string
	Subject string
	Message string
	// Record is the full notification for transports that forward structured
	// data (in-app/live push). Nil for plain-text transports.
	Record any
}

// Sender delivers a payload over one transport. Implementations own their
// transport timeouts; callers bound the call with ctx.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// Dispatcher fans a payload out to a named channel.
type Dispatcher interface {
	Send(ctx context.Context, ch Channel, p Payload) error
}

type dispatcher struct {
	senders map[Channel]Sender
}

// NewDispatcher wires one sender per channel. A nil sender leaves the channel
// unrouted; sends to it log and no-op rather than fail.
func NewDispatcher(email, sms, chat, inApp, logSender Sender) Dispatcher {
	senders := make(map[Channel]Sender)
	for ch, s := range map[Channel]Sender{
		ChannelEmail: email,
		ChannelSMS:   sms,
		ChannelChat:  chat,
		ChannelInApp: inApp,
		ChannelLog:   logSender,
	} {
		if s != nil {
			senders[ch] = s
		}
	}
	return &dispatcher{senders: senders}
}

func (d *dispatcher) Send(ctx context.Context, ch Channel, p Payload) error {
	sender, ok := d.senders[ch]
	if !ok {
		logger.CtxWarn(ctx, "No sender configured for channel, dropping payload",
			"channel", string(ch), "to", p.To)
		return nil
	}
	return sender.Send(ctx, p)
}
