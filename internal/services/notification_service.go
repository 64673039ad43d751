package services

import (
	"context"
	"encoding/json"

	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/services/dto"
	"payalert_backend/pkg/apperrors"
)

// NotificationService covers the read side of the lifecycle plus the one
// operator-driven transition, resolve.
type NotificationService interface {
	GetNotification(ctx context.Context, notificationID string) (*dto.NotificationResponse, error)
	ListNotifications(ctx context.Context, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	Resolve(ctx context.Context, notificationID, actor string) (*dto.NotificationResponse, error)
	AuditTrail(ctx context.Context, notificationID string) ([]*dto.AuditEntryResponse, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	auditRepo        repositories.AuditRepository
	audit            *AuditRecorder
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	auditRepo repositories.AuditRepository,
	audit *AuditRecorder,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		audit:            audit,
	}
}

func (s *notificationService) GetNotification(ctx context.Context, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) ListNotifications(ctx context.Context, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.Find(criteria)
	if err != nil {
		return nil, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

func (s *notificationService) Resolve(ctx context.Context, notificationID, actor string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if notification.Status.Terminal() {
		return nil, apperrors.ErrNotificationResolved
	}

	if err := s.notificationRepo.UpdateStatus(notificationID, models.StatusResolved); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, notificationID, models.AuditResolved, actor, map[string]any{
		"previous_status": string(notification.Status),
	})

	notification.Status = models.StatusResolved
	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) AuditTrail(ctx context.Context, notificationID string) ([]*dto.AuditEntryResponse, error) {
	if _, err := s.notificationRepo.FindByID(notificationID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	entries, err := s.auditRepo.FindByNotification(notificationID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := &dto.AuditEntryResponse{
			ID:        entry.ID,
			Action:    string(entry.Action),
			Actor:     entry.Actor,
			CreatedAt: entry.CreatedAt,
		}
		if len(entry.Details) > 0 {
			var details map[string]any
			if err := json.Unmarshal(entry.Details, &details); err == nil {
				resp.Details = details
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
