package repositories

import (
	"errors"
	"time"

	"payalert_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	Find(criteria NotificationCriteria) ([]models.Notification, int64, error)

	UpdateStatus(id string, status models.NotificationStatus) error
	// MarkDispatched flips the record to sent and clears any pending schedule.
	MarkDispatched(id string) error
	// MarkEscalated atomically reroutes the record: escalated status, new
	// recipient role, tagged message and the escalation timestamp.
	MarkEscalated(id string, role models.Role, message string, at time.Time) error

	// Sweep queries
	FindOverdueHighPriority(olderThan time.Time) ([]models.Notification, error)
	FindDueScheduled(asOf time.Time) ([]models.Notification, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// Search criteria for notifications
type NotificationCriteria struct {
	Status   models.NotificationStatus `form:"status"`
	Priority models.Priority           `form:"priority"`
	Role     models.Role               `form:"role"`
	College  string                    `form:"college"`
	DateFrom time.Time                 `form:"date_from"`
	DateTo   time.Time                 `form:"date_to"`
	Page     int                       `form:"page"`
	PageSize int                       `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) Find(criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Priority != "" {
		query = query.Where("priority = ?", criteria.Priority)
	}
	if criteria.Role != "" {
		query = query.Where("recipient_role = ?", criteria.Role)
	}
	if criteria.College != "" {
		query = query.Where("college = ?", criteria.College)
	}
	if !criteria.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if !criteria.DateTo.IsZero() {
		query = query.Where("created_at <= ?", criteria.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) UpdateStatus(id string, status models.NotificationStatus) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkDispatched(id string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.StatusSent,
		"scheduled_at": nil,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkEscalated(id string, role models.Role, message string, at time.Time) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          models.StatusEscalated,
		"recipient_role":  role,
		"message":         message,
		"escalation_time": at,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Sweep queries

func (r *NotificationRepositoryImpl) FindOverdueHighPriority(olderThan time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("priority = ?", models.PriorityHigh).
		Where("status IN ?", []models.NotificationStatus{models.StatusSent, models.StatusPending, models.StatusFailed}).
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) FindDueScheduled(asOf time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("status = ?", models.StatusScheduled).
		Where("scheduled_at IS NOT NULL AND scheduled_at <= ?", asOf).
		Order("scheduled_at ASC").
		Find(&notifications).Error
	return notifications, err
}
