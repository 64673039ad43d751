package templates

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v2"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/models"
)

// Template describes the message shape and default audience for one event type.
type Template struct {
	Message string        `yaml:"message"`
	Roles   []models.Role `yaml:"roles"`
}

// Resolver maps event types to message templates. Definitions come from a
// yaml file when one is configured, otherwise from built-in defaults.
type Resolver interface {
	// Resolve renders the template for the event type, substituting {key}
	// placeholders from params. Unknown event types fall back to the
	// DEFAULT template.
	Resolve(eventType models.EventType, params map[string]string) string
	// RolesFor returns the audience for the event type with the baseline
	// role first, deduplicated in insertion order.
	RolesFor(eventType models.EventType) []models.Role
	// Reload re-reads the template file, replacing definitions atomically.
	Reload() error
}

type yamlResolver struct {
	path string

	mu   sync.RWMutex
	defs map[models.EventType]Template
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

const defaultKey = models.EventType("DEFAULT")

// builtinDefaults mirrors the shipped config/templates.yaml so the engine
// works without a template file on disk.
func builtinDefaults() map[models.EventType]Template {
	return map[models.EventType]Template{
		models.EventSalaryProcessed: {
			Message: "Salary for {month} has been processed for {college}.",
			Roles:   []models.Role{models.RoleCollegeAdmin, models.RoleFinanceOfficer},
		},
		models.EventPayrollFailed: {
			Message: "Payroll run failed for {college}: {reason}.",
			Roles:   []models.Role{models.RoleFinanceOfficer},
		},
		models.EventApprovalPending: {
			Message: "Payroll approval is pending for {college} ({department}).",
			Roles:   []models.Role{models.RoleCollegeAdmin},
		},
		models.EventPaymentTransferred: {
			Message: "Payment of {amount} transferred to {college} accounts.",
			Roles:   []models.Role{models.RoleFinanceOfficer, models.RoleFaculty},
		},
		models.EventSystemError: {
			Message: "System error in payroll pipeline: {reason}.",
			Roles:   []models.Role{},
		},
		defaultKey: {
			Message: "Payroll event {event_type} occurred.",
			Roles:   []models.Role{},
		},
	}
}

// NewResolver loads templates from path. An empty path means built-ins only.
func NewResolver(path string) (Resolver, error) {
	r := &yamlResolver{path: path, defs: builtinDefaults()}
	if path == "" {
		return r, nil
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *yamlResolver) Reload() error {
	if r.path == "" {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read templates file %s: %w", r.path, err)
	}

	var raw map[string]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse templates file %s: %w", r.path, err)
	}

	defs := builtinDefaults()
	for key, tpl := range raw {
		defs[models.EventType(key)] = tpl
	}

	r.mu.Lock()
	r.defs = defs
	r.mu.Unlock()

	logger.Info("Notification templates loaded", "path", r.path, "count", len(raw))
	return nil
}

func (r *yamlResolver) Resolve(eventType models.EventType, params map[string]string) string {
	r.mu.RLock()
	tpl, ok := r.defs[eventType]
	if !ok {
		tpl = r.defs[defaultKey]
	}
	r.mu.RUnlock()

	msg := placeholderRe.ReplaceAllStringFunc(tpl.Message, func(match string) string {
		key := match[1 : len(match)-1]
		if val, ok := params[key]; ok {
			return val
		}
		if key == "event_type" {
			return string(eventType)
		}
		// Unmatched placeholders stay verbatim.
		return match
	})
	return msg
}

func (r *yamlResolver) RolesFor(eventType models.EventType) []models.Role {
	r.mu.RLock()
	tpl, ok := r.defs[eventType]
	if !ok {
		tpl = r.defs[defaultKey]
	}
	r.mu.RUnlock()

	roles := []models.Role{models.BaselineRole}
	seen := map[models.Role]bool{models.BaselineRole: true}
	for _, role := range tpl.Roles {
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}
