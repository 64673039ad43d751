package handlers

import (
	"net/http"

	"payalert_backend/internal/services"
	"payalert_backend/internal/services/dto"
	"payalert_backend/internal/templates"

	"github.com/gin-gonic/gin"
)

// EscalationHandler exposes the operational endpoints: trigger the
// escalation sweep on demand and reload the message templates.
type EscalationHandler struct {
	*BaseHandler
	escalationService services.EscalationService
	resolver          templates.Resolver
}

func NewEscalationHandler(base *BaseHandler, escalationService services.EscalationService, resolver templates.Resolver) *EscalationHandler {
	return &EscalationHandler{
		BaseHandler:       base,
		escalationService: escalationService,
		resolver:          resolver,
	}
}

func (h *EscalationHandler) RegisterRoutes(r *gin.RouterGroup) {
	escalations := r.Group("/escalations")
	{
		escalations.POST("/run", h.RunEscalationSweep)
	}

	tpl := r.Group("/templates")
	{
		tpl.POST("/reload", h.ReloadTemplates)
	}
}

// RunEscalationSweep triggers one escalation pass. ?demo=true shrinks the
// SLA window to one minute for demos and tests.
func (h *EscalationHandler) RunEscalationSweep(c *gin.Context) {
	demo := c.Query("demo") == "true"

	escalated, err := h.escalationService.EscalateOverdue(c.Request.Context(), demo)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EscalationRunResponse{
		Escalated: escalated,
		Demo:      demo,
	})
}

func (h *EscalationHandler) ReloadTemplates(c *gin.Context) {
	if err := h.resolver.Reload(); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reloaded": true})
}
