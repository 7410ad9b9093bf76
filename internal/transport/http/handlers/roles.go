package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/usecase"
)

// RoleHandler exposes role CRUD and permission assignment endpoints.
type RoleHandler struct {
	roles *usecase.RoleService
}

func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateRole)
	r.GET("", h.ListRoles)
	r.GET("/:id", h.GetRole)
	r.PATCH("/:id", h.UpdateRole)
	r.DELETE("/:id", h.DeleteRole)
	r.POST("/:id/permissions/:permissionId", h.AssignPermission)
	r.DELETE("/:id/permissions/:permissionId", h.RemovePermission)
}

// CreateRole creates a custom role, optionally seeded with permissions.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), usecase.CreateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// GetRole returns a single role.
func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.roles.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// UpdateRole applies a partial update to a custom role.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), usecase.UpdateRoleInput{
		ID:            c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRole removes a custom role.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.roles.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignPermission adds a permission to a custom role.
func (h *RoleHandler) AssignPermission(c *gin.Context) {
	role, err := h.roles.AssignPermission(c.Request.Context(), c.Param("id"), c.Param("permissionId"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// RemovePermission drops a permission from a custom role.
func (h *RoleHandler) RemovePermission(c *gin.Context) {
	role, err := h.roles.RemovePermission(c.Request.Context(), c.Param("id"), c.Param("permissionId"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// ListRoles returns a paginated role collection.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	limit, offset, err := parsePageQuery(c)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	page, err := h.roles.ListRoles(c.Request.Context(), limit, offset)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
