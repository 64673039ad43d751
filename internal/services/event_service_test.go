package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/rules"
	"payalert_backend/internal/services/dto"
	"payalert_backend/internal/templates"
)

// fakeRouter records routed notifications; fail makes every route call fail.
type fakeRouter struct {
	routed []models.Notification
	fail   bool
}

func (r *fakeRouter) Route(ctx context.Context, n *models.Notification) error {
	r.routed = append(r.routed, *n)
	if r.fail {
		return errors.New("all channels down")
	}
	return nil
}

// failingCreateRepo rejects every Create call.
type failingCreateRepo struct {
	*repositories.InMemoryNotificationRepository
}

func (r *failingCreateRepo) Create(n *models.Notification) error {
	return errors.New("store unavailable")
}

type eventFixture struct {
	repo      *repositories.InMemoryNotificationRepository
	auditRepo *repositories.InMemoryAuditRepository
	router    *fakeRouter
	service   EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	repo := repositories.NewInMemoryNotificationRepository()
	auditRepo := repositories.NewInMemoryAuditRepository()
	router := &fakeRouter{}

	resolver, err := templates.NewResolver("")
	require.NoError(t, err)

	service := NewEventService(repo, NewAuditRecorder(auditRepo), resolver, rules.NewEngine(), router, time.Second)

	return &eventFixture{
		repo:      repo,
		auditRepo: auditRepo,
		router:    router,
		service:   service,
	}
}

func (f *eventFixture) auditActions(t *testing.T, notificationID string) []models.AuditAction {
	t.Helper()
	entries, err := f.auditRepo.FindByNotification(notificationID)
	require.NoError(t, err)
	actions := make([]models.AuditAction, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func TestHandleEvent_FansOutPerRoleWithBaselineFirst(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "SALARY_PROCESSED",
		College:   "Engineering",
		Params:    map[string]string{"month": "March"},
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, string(models.RoleUniversityAdmin), result.Results[0].Role)
	assert.Equal(t, string(models.RoleCollegeAdmin), result.Results[1].Role)
	assert.Equal(t, string(models.RoleFinanceOfficer), result.Results[2].Role)

	for _, rr := range result.Results {
		assert.NotEmpty(t, rr.NotificationID)
		assert.Equal(t, string(models.StatusSent), rr.Status)
	}
	assert.Len(t, f.router.routed, 3, "one routing call per role")
}

func TestHandleEvent_PayrollFailedForcedHighEndToEnd(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "PAYROLL_FAILED",
		Priority:  "LOW",
		College:   "Arts",
		Params:    map[string]string{"reason": "ledger mismatch"},
	})
	require.NoError(t, err)

	assert.Equal(t, "HIGH", result.Priority)
	for _, routed := range f.router.routed {
		assert.Equal(t, models.PriorityHigh, routed.Priority)
	}
}

func TestHandleEvent_SystemErrorPullsInITSupport(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "SYSTEM_ERROR",
		Params:    map[string]string{"reason": "db timeout"},
	})
	require.NoError(t, err)

	roles := make([]string, 0, len(result.Results))
	for _, rr := range result.Results {
		roles = append(roles, rr.Role)
	}
	assert.Contains(t, roles, string(models.RoleITSupport))
}

func TestHandleEvent_UnknownEventTypeRejected(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	_, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "NOT_A_THING",
	})
	assert.Error(t, err)
	assert.Empty(t, f.router.routed)
}

func TestHandleEvent_ScheduledRecordsAreNotRouted(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)
	future := time.Now().Add(time.Hour)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType:   "APPROVAL_PENDING",
		College:     "Science",
		ScheduledAt: &future,
	})
	require.NoError(t, err)

	assert.Empty(t, f.router.routed, "scheduled notifications wait for the sweep")

	for _, rr := range result.Results {
		assert.Equal(t, string(models.StatusScheduled), rr.Status)

		stored, err := f.repo.FindByID(rr.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusScheduled, stored.Status)
		require.NotNil(t, stored.ScheduledAt)

		assert.Equal(t, []models.AuditAction{models.AuditCreated}, f.auditActions(t, rr.NotificationID))
	}
}

func TestHandleEvent_PastScheduleDeliversImmediately(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)
	past := time.Now().Add(-time.Minute)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType:   "APPROVAL_PENDING",
		Priority:    "MEDIUM",
		College:     "Science",
		Department:  "Physics",
		ScheduledAt: &past,
	})
	require.NoError(t, err, "an elapsed scheduled_at means immediate delivery, not an error")

	require.NotEmpty(t, f.router.routed)
	for _, rr := range result.Results {
		assert.Equal(t, string(models.StatusSent), rr.Status)

		stored, err := f.repo.FindByID(rr.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, stored.Status)
		assert.Nil(t, stored.ScheduledAt, "immediate records carry no schedule")
	}
}

func TestHandleEvent_CollegeNameFallsBackToCollegeID(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType:  "SALARY_PROCESSED",
		Priority:   "MEDIUM",
		College:    "CEG",
		Department: "CSE",
		Params:     map[string]string{"month": "March"},
	})
	require.NoError(t, err)

	stored, err := f.repo.FindByID(result.Results[0].NotificationID)
	require.NoError(t, err)
	assert.Contains(t, stored.Message, "CEG", "college_name falls back to the college id")

	result, err = f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType:   "SALARY_PROCESSED",
		Priority:    "MEDIUM",
		College:     "CEG",
		CollegeName: "College of Engineering Guindy",
		Department:  "CSE",
		Params:      map[string]string{"month": "March"},
	})
	require.NoError(t, err)

	stored, err = f.repo.FindByID(result.Results[0].NotificationID)
	require.NoError(t, err)
	assert.Contains(t, stored.Message, "College of Engineering Guindy")
}

func TestHandleEvent_ActorAttributedOnCreatedEntry(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType:  "SALARY_PROCESSED",
		Priority:   "MEDIUM",
		College:    "CEG",
		Department: "CSE",
		Actor:      "payroll-clerk-7",
	})
	require.NoError(t, err)

	for _, rr := range result.Results {
		entries, err := f.auditRepo.FindByNotification(rr.NotificationID)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		for _, entry := range entries {
			if entry.Action == models.AuditCreated {
				assert.Equal(t, "payroll-clerk-7", entry.Actor)
			}
		}
	}
}

func TestHandleEvent_RoutingFailureMarksFailedButRequestSucceeds(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)
	f.router.fail = true

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "PAYROLL_FAILED",
		College:   "Engineering",
	})
	require.NoError(t, err, "routing failures must not fail the request")

	for _, rr := range result.Results {
		assert.Equal(t, string(models.StatusFailed), rr.Status)

		stored, err := f.repo.FindByID(rr.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, stored.Status)

		actions := f.auditActions(t, rr.NotificationID)
		assert.Contains(t, actions, models.AuditCreated)
		assert.Contains(t, actions, models.AuditDeliveryFailed)
	}
}

func TestHandleEvent_SuccessfulDeliveryAuditsCreatedAndSent(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)

	result, err := f.service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "PAYMENT_TRANSFERRED",
		Params:    map[string]string{"amount": "120000"},
	})
	require.NoError(t, err)

	for _, rr := range result.Results {
		actions := f.auditActions(t, rr.NotificationID)
		assert.Contains(t, actions, models.AuditCreated)
		assert.Contains(t, actions, models.AuditSent)

		stored, err := f.repo.FindByID(rr.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, stored.Status)
	}
}

func TestHandleEvent_TotalPersistenceFailureFailsRequest(t *testing.T) {
	t.Parallel()

	repo := &failingCreateRepo{repositories.NewInMemoryNotificationRepository()}
	auditRepo := repositories.NewInMemoryAuditRepository()
	router := &fakeRouter{}

	resolver, err := templates.NewResolver("")
	require.NoError(t, err)

	service := NewEventService(repo, NewAuditRecorder(auditRepo), resolver, rules.NewEngine(), router, time.Second)

	_, err = service.HandleEvent(context.Background(), &dto.EventRequest{
		EventType: "SALARY_PROCESSED",
	})
	assert.Error(t, err)
	assert.Empty(t, router.routed)
}
