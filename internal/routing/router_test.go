package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payalert_backend/internal/channels"
	"payalert_backend/internal/models"
)

type sentCall struct {
	Channel channels.Channel
	Payload channels.Payload
}

// recordingDispatcher captures every channel call; failOn makes a single
// channel return an error.
type recordingDispatcher struct {
	calls  []sentCall
	failOn channels.Channel
}

func (d *recordingDispatcher) Send(ctx context.Context, ch channels.Channel, p channels.Payload) error {
	d.calls = append(d.calls, sentCall{Channel: ch, Payload: p})
	if d.failOn != "" && ch == d.failOn {
		return errors.New("gateway down")
	}
	return nil
}

func (d *recordingDispatcher) callsFor(ch channels.Channel) []sentCall {
	var out []sentCall
	for _, call := range d.calls {
		if call.Channel == ch {
			out = append(out, call)
		}
	}
	return out
}

func newNotification(role models.Role, priority models.Priority) *models.Notification {
	n := &models.Notification{
		EventType:     models.EventPayrollFailed,
		RecipientRole: role,
		Priority:      priority,
		Message:       "Payroll run failed for Engineering: ledger mismatch.",
		Status:        models.StatusPending,
	}
	n.ID = "11111111-1111-1111-1111-111111111111"
	return n
}

func TestRoute_LowPriorityUsesNoChannels(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleFinanceOfficer, models.PriorityLow))

	require.NoError(t, err)
	assert.Empty(t, dispatcher.calls, "LOW notifications are recorded only")
}

func TestRoute_MediumPriorityGetsOnePrefixedInAppCard(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleCollegeAdmin, models.PriorityMedium))

	require.NoError(t, err)
	require.Len(t, dispatcher.calls, 1)
	call := dispatcher.calls[0]
	assert.Equal(t, channels.ChannelInApp, call.Channel)
	assert.Equal(t, "college-admin-dashboard", call.Payload.To)
	assert.Equal(t, "[MEDIUM] Payroll run failed for Engineering: ledger mismatch.", call.Payload.Message)
}

func TestRoute_HighPriorityGetsDashboardAndEmail(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleFinanceOfficer, models.PriorityHigh))

	require.NoError(t, err)
	require.Len(t, dispatcher.calls, 2)

	inApp := dispatcher.callsFor(channels.ChannelInApp)
	require.Len(t, inApp, 1)
	assert.Equal(t, "finance-dashboard", inApp[0].Payload.To)
	assert.NotContains(t, inApp[0].Payload.Message, "[MEDIUM]")

	emails := dispatcher.callsFor(channels.ChannelEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, "finance.officer@annauniv.edu", emails[0].Payload.To)
	assert.Equal(t, "[HIGH] PAYROLL_FAILED", emails[0].Payload.Subject)
}

func TestRoute_HighPriorityITSupportExtras(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleITSupport, models.PriorityHigh))

	require.NoError(t, err)

	chats := dispatcher.callsFor(channels.ChannelChat)
	require.Len(t, chats, 1)
	assert.Equal(t, ITSupportChatChannel, chats[0].Payload.To)

	sms := dispatcher.callsFor(channels.ChannelSMS)
	require.Len(t, sms, 1)
	assert.Equal(t, ITOnCallSMSList, sms[0].Payload.To)
}

func TestRoute_HighPriorityFacultyGetsEmergencySMS(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleFaculty, models.PriorityHigh))

	require.NoError(t, err)

	sms := dispatcher.callsFor(channels.ChannelSMS)
	require.Len(t, sms, 1)
	assert.Equal(t, FacultyEmergencyList, sms[0].Payload.To)
	assert.Empty(t, dispatcher.callsFor(channels.ChannelChat))
}

func TestRoute_HighPriorityUniversityAdminGetsGlobalAlert(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleUniversityAdmin, models.PriorityHigh))

	require.NoError(t, err)

	emails := dispatcher.callsFor(channels.ChannelEmail)
	require.Len(t, emails, 2, "role email plus the campus-wide alert")
	assert.Equal(t, "university.admin@annauniv.edu", emails[0].Payload.To)
	assert.Equal(t, GlobalAlertEmail, emails[1].Payload.To)
	assert.Equal(t, GlobalAlertSubject, emails[1].Payload.Subject)
}

func TestRoute_UnknownRoleGoesToLogOnly(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.Role("MYSTERY_ROLE"), models.PriorityHigh))

	require.NoError(t, err)
	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, channels.ChannelLog, dispatcher.calls[0].Channel)
}

func TestRoute_ChannelFailureDoesNotAbortRemainingChannels(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{failOn: channels.ChannelEmail}
	router := NewPriorityRouter(dispatcher)

	err := router.Route(context.Background(), newNotification(models.RoleITSupport, models.PriorityHigh))

	assert.Error(t, err, "the aggregate error reports the failed channel")
	assert.Len(t, dispatcher.calls, 4, "in-app, email, chat and SMS must all be attempted")
}
