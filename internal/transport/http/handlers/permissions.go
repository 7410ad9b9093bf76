package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/usecase"
)

// PermissionHandler exposes permission CRUD endpoints.
type PermissionHandler struct {
	permissions *usecase.PermissionService
}

func NewPermissionHandler(permissions *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

func (h *PermissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreatePermission)
	r.GET("", h.ListPermissions)
	r.GET("/:id", h.GetPermission)
	r.PATCH("/:id", h.UpdatePermission)
	r.DELETE("/:id", h.DeletePermission)
}

// CreatePermission registers a new resource/action grant descriptor.
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req PermissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	permission, err := h.permissions.CreatePermission(c.Request.Context(), usecase.CreatePermissionInput{
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, permission)
}

// GetPermission returns a single permission.
func (h *PermissionHandler) GetPermission(c *gin.Context) {
	permission, err := h.permissions.GetPermission(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, permission)
}

// UpdatePermission replaces a permission's description.
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	var req PermissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	permission, err := h.permissions.UpdatePermission(c.Request.Context(), usecase.UpdatePermissionInput{
		ID:          c.Param("id"),
		Description: req.Description,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, permission)
}

// DeletePermission removes a permission.
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	if err := h.permissions.DeletePermission(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPermissions returns a paginated permission collection.
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	limit, offset, err := parsePageQuery(c)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	page, err := h.permissions.ListPermissions(c.Request.Context(), limit, offset)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
