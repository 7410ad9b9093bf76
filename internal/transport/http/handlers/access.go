package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/infra/telemetry"
	"github.com/identra/identity-service/internal/usecase"
)

// AccessHandler exposes explicit authorization queries.
type AccessHandler struct {
	authz   *usecase.AuthorizationService
	metrics *telemetry.Metrics
}

func NewAccessHandler(authz *usecase.AuthorizationService, metrics *telemetry.Metrics) *AccessHandler {
	return &AccessHandler{authz: authz, metrics: metrics}
}

func (h *AccessHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/check", h.CheckAccess)
	r.GET("/users/:id/permissions", h.UserPermissions)
}

// CheckAccess answers whether a user may perform an action on a resource.
func (h *AccessHandler) CheckAccess(c *gin.Context) {
	var req AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid access check payload"))
		return
	}

	decision, err := h.authz.CheckAccess(c.Request.Context(), usecase.AccessCheckInput{
		UserID:   req.UserID,
		Resource: req.Resource,
		Action:   req.Action,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	if h.metrics != nil {
		outcome := "false"
		if decision.Allowed {
			outcome = "true"
		}
		h.metrics.AccessChecks.WithLabelValues(outcome).Inc()
	}

	c.JSON(http.StatusOK, decision)
}

// UserPermissions returns the effective permission set of an arbitrary user.
func (h *AccessHandler) UserPermissions(c *gin.Context) {
	permissions, err := h.authz.GetUserPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}
