package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payalert_backend/internal/channels"
	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/routing"
	"payalert_backend/internal/rules"
	"payalert_backend/internal/services"
	"payalert_backend/internal/services/dto"
	"payalert_backend/internal/templates"
	"payalert_backend/internal/validator"
)

// newTestRouter wires the full HTTP surface over the in-memory store. The
// dispatcher has no senders configured, so every delivery is a logged no-op
// that counts as success.
func newTestRouter(t *testing.T) (*gin.Engine, *repositories.InMemoryNotificationRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repositories.NewInMemoryNotificationRepository()
	auditRepo := repositories.NewInMemoryAuditRepository()

	dispatcher := channels.NewDispatcher(nil, nil, nil, nil, nil)
	priorityRouter := routing.NewPriorityRouter(dispatcher)

	resolver, err := templates.NewResolver("")
	require.NoError(t, err)

	audit := services.NewAuditRecorder(auditRepo)
	eventService := services.NewEventService(repo, audit, resolver, rules.NewEngine(), priorityRouter, time.Second)
	notificationService := services.NewNotificationService(repo, auditRepo, audit)
	escalationService := services.NewEscalationService(repo, audit, priorityRouter, time.Second)

	base := NewBaseHandler(validator.New())
	notificationHandler := NewNotificationHandler(base, eventService, notificationService)
	escalationHandler := NewEscalationHandler(base, escalationService, resolver)

	router := gin.New()
	api := router.Group("/api/v1")
	notificationHandler.RegisterRoutes(api)
	escalationHandler.RegisterRoutes(api)

	return router, repo
}

func sendJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIngestEvent_CreatedWithPerRoleResults(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "SALARY_PROCESSED",
		"priority":   "MEDIUM",
		"college_id": "Engineering",
		"department": "CSE",
		"params":     gin.H{"month": "March"},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result dto.EventResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "SALARY_PROCESSED", result.EventType)
	assert.Equal(t, "MEDIUM", result.Priority)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "UNIVERSITY_ADMIN", result.Results[0].Role)
}

func TestIngestEvent_ValidationFailure(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "NOT_AN_EVENT",
		"priority":   "HIGH",
		"college_id": "Engineering",
		"department": "CSE",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "event_type")
}

func TestIngestEvent_MissingRequiredFieldsPersistNothing(t *testing.T) {
	router, repo := newTestRouter(t)

	// event_type, priority, college_id and department are all mandatory.
	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "SALARY_PROCESSED",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list, total, err := repo.Find(repositories.NotificationCriteria{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list, "a rejected event never touches storage")
}

func TestGetNotification_RoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "PAYROLL_FAILED",
		"priority":   "LOW",
		"college_id": "Arts",
		"department": "History",
		"params":     gin.H{"reason": "ledger mismatch"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result dto.EventResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Results)
	id := result.Results[0].NotificationID

	rec = sendJSON(t, router, http.MethodGet, "/api/v1/notifications/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notification dto.NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notification))
	assert.Equal(t, "PAYROLL_FAILED", notification.EventType)
	assert.Equal(t, "HIGH", notification.Priority)
	assert.Equal(t, "sent", notification.Status)
}

func TestGetNotification_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodGet, "/api/v1/notifications/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListNotifications_WithFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, eventType := range []string{"SALARY_PROCESSED", "PAYROLL_FAILED"} {
		rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
			"event_type": eventType,
			"priority":   "MEDIUM",
			"college_id": "Engineering",
			"department": "CSE",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := sendJSON(t, router, http.MethodGet, "/api/v1/notifications?priority=HIGH", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.NotificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.NotZero(t, list.Total)
	for _, n := range list.Notifications {
		assert.Equal(t, "HIGH", n.Priority)
	}
}

func TestResolveNotification_Flow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "PAYROLL_FAILED",
		"priority":   "HIGH",
		"college_id": "CEG",
		"department": "CSE",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result dto.EventResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	id := result.Results[0].NotificationID

	rec = sendJSON(t, router, http.MethodPost, "/api/v1/notifications/"+id+"/resolve", gin.H{
		"actor": "finance.desk",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var notification dto.NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notification))
	assert.Equal(t, "resolved", notification.Status)

	// A second resolve must be rejected, resolved is terminal.
	rec = sendJSON(t, router, http.MethodPost, "/api/v1/notifications/"+id+"/resolve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetAuditTrail_ContainsLifecycleActions(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"event_type": "PAYMENT_TRANSFERRED",
		"priority":   "HIGH",
		"college_id": "CEG",
		"department": "CSE",
		"params":     gin.H{"amount": "120000"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result dto.EventResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	id := result.Results[0].NotificationID

	rec = sendJSON(t, router, http.MethodGet, "/api/v1/notifications/"+id+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(models.AuditCreated))
	assert.Contains(t, rec.Body.String(), string(models.AuditSent))
}

func TestRunEscalationSweep_DemoMode(t *testing.T) {
	router, repo := newTestRouter(t)

	overdue := &models.Notification{
		EventType:     models.EventPayrollFailed,
		RecipientRole: models.RoleFinanceOfficer,
		Priority:      models.PriorityHigh,
		Message:       "Payroll run failed.",
		Status:        models.StatusPending,
	}
	overdue.CreatedAt = time.Now().Add(-5 * time.Minute)
	require.NoError(t, repo.Create(overdue))

	rec := sendJSON(t, router, http.MethodPost, "/api/v1/escalations/run?demo=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var runResult dto.EscalationRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runResult))
	assert.Equal(t, 1, runResult.Escalated)
	assert.True(t, runResult.Demo)

	stored, err := repo.FindByID(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEscalated, stored.Status)
	assert.Equal(t, models.EscalationTargetRole, stored.RecipientRole)
}
