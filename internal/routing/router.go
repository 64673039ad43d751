package routing

import (
	"context"
	"errors"
	"fmt"

	"payalert_backend/internal/channels"
	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
)

// Router fans a notification out to the channels its priority warrants.
type Router interface {
	// Route attempts every channel the policy selects for the notification.
	// Individual channel failures never abort the remaining channels; the
	// returned error aggregates whatever failed.
	Route(ctx context.Context, n *models.Notification) error
}

// PriorityRouter keys channel selection on priority first, then augments
// per role:
//   - LOW: recorded only, no channels.
//   - MEDIUM: one in-app card, message prefixed "[MEDIUM] ".
//   - HIGH: in-app plus role email, with role-specific extras on top.
type PriorityRouter struct {
	dispatcher channels.Dispatcher
}

func NewPriorityRouter(dispatcher channels.Dispatcher) *PriorityRouter {
	return &PriorityRouter{dispatcher: dispatcher}
}

const mediumPrefix = "[MEDIUM] "

func (r *PriorityRouter) Route(ctx context.Context, n *models.Notification) error {
	dest, known := Lookup(n.RecipientRole)
	if !known {
		// Unknown roles are recorded in the log channel and nothing else.
		logger.CtxWarn(ctx, "No destination for role, routing to log only",
			"role", string(n.RecipientRole), "notification_id", n.ID)
		return r.dispatcher.Send(ctx, channels.ChannelLog, channels.Payload{
			To:      string(n.RecipientRole),
			Message: n.Message,
			Record:  n,
		})
	}

	switch n.Priority {
	case models.PriorityLow:
		logger.CtxDebug(ctx, "Low priority notification recorded without delivery",
			"notification_id", n.ID, "role", string(n.RecipientRole))
		return nil

	case models.PriorityMedium:
		return r.dispatcher.Send(ctx, channels.ChannelInApp, channels.Payload{
			To:      dest.DashboardGroup,
			Message: mediumPrefix + n.Message,
			Record:  n,
		})

	case models.PriorityHigh:
		return r.routeHigh(ctx, n, dest)

	default:
		logger.CtxWarn(ctx, "Unknown priority, routing to log only",
			"priority", string(n.Priority), "notification_id", n.ID)
		return r.dispatcher.Send(ctx, channels.ChannelLog, channels.Payload{
			To:      string(n.RecipientRole),
			Message: n.Message,
			Record:  n,
		})
	}
}

func (r *PriorityRouter) routeHigh(ctx context.Context, n *models.Notification, dest Destination) error {
	var errs []error

	send := func(ch channels.Channel, p channels.Payload) {
		if err := r.dispatcher.Send(ctx, ch, p); err != nil {
			logger.CtxWithError(ctx, "Channel delivery failed", err,
				"channel", string(ch), "notification_id", n.ID)
			errs = append(errs, fmt.Errorf("%s: %w", ch, err))
		}
	}

	subject := fmt.Sprintf("[%s] %s", n.Priority, n.EventType)

	send(channels.ChannelInApp, channels.Payload{
		To:      dest.DashboardGroup,
		Message: n.Message,
		Record:  n,
	})
	send(channels.ChannelEmail, channels.Payload{
		To:      dest.Email,
		Subject: subject,
		Message: n.Message,
	})

	switch n.RecipientRole {
	case models.RoleITSupport:
		send(channels.ChannelChat, channels.Payload{
			To:      ITSupportChatChannel,
			Message: n.Message,
		})
		send(channels.ChannelSMS, channels.Payload{
			To:      ITOnCallSMSList,
			Message: n.Message,
		})
	case models.RoleFaculty:
		send(channels.ChannelSMS, channels.Payload{
			To:      FacultyEmergencyList,
			Message: n.Message,
		})
	case models.RoleUniversityAdmin:
		// University admins additionally trigger the campus-wide alert mail.
		send(channels.ChannelEmail, channels.Payload{
			To:      GlobalAlertEmail,
			Subject: GlobalAlertSubject,
			Message: n.Message,
		})
	}

	return errors.Join(errs...)
}
