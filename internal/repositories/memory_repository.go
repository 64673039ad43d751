package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"payalert_backend/internal/models"
)

// InMemoryNotificationRepository is a map-backed store used when no database
// DSN is configured, and by the service tests. It mirrors the gorm
// implementation's contract, including ErrNotificationNotFound.
type InMemoryNotificationRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Notification
	order   []string
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{
		records: make(map[string]*models.Notification),
	}
}

func (r *InMemoryNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	notification.UpdatedAt = notification.CreatedAt

	stored := *notification
	r.records[notification.ID] = &stored
	r.order = append(r.order, notification.ID)
	return nil
}

func (r *InMemoryNotificationRepository) FindByID(id string) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *InMemoryNotificationRepository) Find(criteria NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Notification
	for _, id := range r.order {
		n := r.records[id]
		if criteria.Status != "" && n.Status != criteria.Status {
			continue
		}
		if criteria.Priority != "" && n.Priority != criteria.Priority {
			continue
		}
		if criteria.Role != "" && n.RecipientRole != criteria.Role {
			continue
		}
		if criteria.College != "" && n.College != criteria.College {
			continue
		}
		if !criteria.DateFrom.IsZero() && n.CreatedAt.Before(criteria.DateFrom) {
			continue
		}
		if !criteria.DateTo.IsZero() && n.CreatedAt.After(criteria.DateTo) {
			continue
		}
		matched = append(matched, *n)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.Notification{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *InMemoryNotificationRepository) UpdateStatus(id string, status models.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return ErrNotificationNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryNotificationRepository) MarkDispatched(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return ErrNotificationNotFound
	}
	record.Status = models.StatusSent
	record.ScheduledAt = nil
	record.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryNotificationRepository) MarkEscalated(id string, role models.Role, message string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return ErrNotificationNotFound
	}
	record.Status = models.StatusEscalated
	record.RecipientRole = role
	record.Message = message
	escalatedAt := at
	record.EscalationTime = &escalatedAt
	record.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryNotificationRepository) FindOverdueHighPriority(olderThan time.Time) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Notification
	for _, id := range r.order {
		n := r.records[id]
		if n.Priority != models.PriorityHigh {
			continue
		}
		if n.Status != models.StatusSent && n.Status != models.StatusPending && n.Status != models.StatusFailed {
			continue
		}
		if !n.CreatedAt.Before(olderThan) {
			continue
		}
		matched = append(matched, *n)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *InMemoryNotificationRepository) FindDueScheduled(asOf time.Time) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Notification
	for _, id := range r.order {
		n := r.records[id]
		if n.Status != models.StatusScheduled || n.ScheduledAt == nil {
			continue
		}
		if n.ScheduledAt.After(asOf) {
			continue
		}
		matched = append(matched, *n)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.Before(*matched[j].ScheduledAt)
	})
	return matched, nil
}

// InMemoryAuditRepository stores audit entries in memory alongside the
// in-memory notification store.
type InMemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []models.AuditLog
}

func NewInMemoryAuditRepository() *InMemoryAuditRepository {
	return &InMemoryAuditRepository{}
}

func (r *InMemoryAuditRepository) Append(entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *InMemoryAuditRepository) FindByNotification(notificationID string) ([]models.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.AuditLog
	for _, entry := range r.entries {
		if entry.NotificationID == notificationID {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}
