package handlers

import (
	"net/http"

	"payalert_backend/internal/models"
	"payalert_backend/internal/repositories"
	"payalert_backend/internal/services"
	"payalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	eventService        services.EventService
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, eventService services.EventService, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		eventService:        eventService,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("", h.IngestEvent)
		notifications.GET("", h.ListNotifications)
		notifications.GET("/:notificationId", h.GetNotification)
		notifications.POST("/:notificationId/resolve", h.ResolveNotification)
		notifications.GET("/:notificationId/audit", h.GetAuditTrail)
	}
}

// --- Event intake ---

// IngestEvent accepts one payroll event and fans it out to every target
// role. The response carries a per-role result; the request fails only when
// validation fails or nothing could be persisted.
func (h *NotificationHandler) IngestEvent(c *gin.Context) {
	var req dto.EventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.eventService.HandleEvent(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// --- Lifecycle queries ---

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var criteria repositories.NotificationCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	list, err := h.notificationService.ListNotifications(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	notificationID := c.Param("notificationId")

	notification, err := h.notificationService.GetNotification(c.Request.Context(), notificationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) ResolveNotification(c *gin.Context) {
	notificationID := c.Param("notificationId")

	var req dto.ResolveRequest
	if c.Request.ContentLength > 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}
	actor := req.Actor
	if actor == "" {
		actor = models.SystemActor
	}

	notification, err := h.notificationService.Resolve(c.Request.Context(), notificationID, actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) GetAuditTrail(c *gin.Context) {
	notificationID := c.Param("notificationId")

	entries, err := h.notificationService.AuditTrail(c.Request.Context(), notificationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": entries})
}
