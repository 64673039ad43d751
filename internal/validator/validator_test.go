package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventPayload struct {
	EventType string `json:"event_type" validate:"required,event_type"`
	Priority  string `json:"priority" validate:"omitempty,priority"`
	Role      string `json:"role" validate:"omitempty,role"`
}

func TestValidate_AcceptsKnownValues(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&eventPayload{
		EventType: "PAYROLL_FAILED",
		Priority:  "HIGH",
		Role:      "FINANCE_OFFICER",
	})
	assert.NoError(t, err)
}

func TestValidate_RejectsUnknownEventType(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&eventPayload{EventType: "NOT_AN_EVENT"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "event_type")
	assert.Equal(t, "Must be a known payroll event type", vErr.Errors["event_type"])
}

func TestValidate_RejectsUnknownPriority(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&eventPayload{EventType: "SYSTEM_ERROR", Priority: "URGENT"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "priority")
}

func TestValidate_EmptyOptionalFieldsPass(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&eventPayload{EventType: "SALARY_PROCESSED"})
	assert.NoError(t, err)
}

func TestValidate_RequiredFieldReportedByJSONName(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&eventPayload{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "event_type")
	assert.Equal(t, "This field is required", vErr.Errors["event_type"])
}
