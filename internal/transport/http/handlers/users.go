package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/usecase"
)

// UserHandler exposes administrative user CRUD endpoints.
type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateUser)
	r.GET("", h.ListUsers)
	r.GET("/:id", h.GetUser)
	r.PATCH("/:id", h.UpdateUser)
	r.DELETE("/:id", h.DeleteUser)
	r.POST("/:id/activate", h.ActivateUser)
	r.POST("/:id/deactivate", h.DeactivateUser)
}

// CreateUser provisions an account with an explicit role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), usecase.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a single user.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), usecase.UpdateUserInput{
		ID:        c.Param("id"),
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateUser re-enables an account.
func (h *UserHandler) ActivateUser(c *gin.Context) {
	user, err := h.users.ActivateUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeactivateUser disables an account.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	user, err := h.users.DeactivateUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers returns a paginated user collection.
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, offset, err := parsePageQuery(c)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	page, err := h.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
