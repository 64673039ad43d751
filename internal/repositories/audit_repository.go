package repositories

import (
	"payalert_backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(entry *models.AuditLog) error
	// FindByNotification returns the trail newest-first.
	FindByNotification(notificationID string) ([]models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepositoryImpl) FindByNotification(notificationID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.
		Where("notification_id = ?", notificationID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
