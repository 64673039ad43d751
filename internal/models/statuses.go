package models

type EventType string
type Role string
type Priority string
type NotificationStatus string
type AuditAction string

const (
	EventSalaryProcessed    EventType = "SALARY_PROCESSED"
	EventPayrollFailed      EventType = "PAYROLL_FAILED"
	EventApprovalPending    EventType = "APPROVAL_PENDING"
	EventPaymentTransferred EventType = "PAYMENT_TRANSFERRED"
	EventSystemError        EventType = "SYSTEM_ERROR"

	RoleUniversityAdmin Role = "UNIVERSITY_ADMIN"
	RoleCollegeAdmin    Role = "COLLEGE_ADMIN"
	RoleFinanceOfficer  Role = "FINANCE_OFFICER"
	RoleFaculty         Role = "FACULTY"
	RoleITSupport       Role = "IT_SUPPORT"

	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"

	StatusPending   NotificationStatus = "pending"
	StatusScheduled NotificationStatus = "scheduled"
	StatusSent      NotificationStatus = "sent"
	StatusFailed    NotificationStatus = "failed"
	StatusEscalated NotificationStatus = "escalated"
	StatusResolved  NotificationStatus = "resolved"

	AuditCreated            AuditAction = "CREATED"
	AuditSent               AuditAction = "SENT"
	AuditDeliveryFailed     AuditAction = "DELIVERY_FAILED"
	AuditScheduledTriggered AuditAction = "SCHEDULED_TRIGGERED"
	AuditEscalated          AuditAction = "ESCALATED"
	AuditResolved           AuditAction = "RESOLVED"
)

// BaselineRole receives every event-driven notification regardless of the
// template's declared target roles.
const BaselineRole = RoleUniversityAdmin

// EscalationTargetRole is the recipient all SLA-breached notifications are
// rerouted to.
const EscalationTargetRole = RoleUniversityAdmin

// Actor identifiers recorded in the audit trail when no explicit actor is
// supplied.
const (
	SystemActor = "SYSTEM"
	CronActor   = "CRON_SYSTEM"
)

// EscalationPrefix tags an escalated message. It must appear at most once no
// matter how many sweeps observe the record.
const EscalationPrefix = "[ESCALATED] "

func (t EventType) Valid() bool {
	switch t {
	case EventSalaryProcessed, EventPayrollFailed, EventApprovalPending,
		EventPaymentTransferred, EventSystemError:
		return true
	default:
		return false
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUniversityAdmin, RoleCollegeAdmin, RoleFinanceOfficer, RoleFaculty, RoleITSupport:
		return true
	default:
		return false
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (s NotificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusSent, StatusFailed, StatusEscalated, StatusResolved:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s NotificationStatus) Terminal() bool {
	return s == StatusResolved
}
