package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/transport/http/middleware"
	"github.com/identra/identity-service/internal/usecase"
)

// AuthHandler exposes login and the authenticated identity endpoint.
type AuthHandler struct {
	auth  *usecase.AuthService
	users *usecase.UserService
	authz *usecase.AuthorizationService
}

func NewAuthHandler(auth *usecase.AuthService, users *usecase.UserService, authz *usecase.AuthorizationService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, authz: authz}
}

// RegisterRoutes binds public auth endpoints. The extra middlewares (rate
// limiting) apply to login only.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	handlersChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	handlersChain = append(handlersChain, h.Login)
	r.POST("/login", handlersChain...)
}

// RegisterProtectedRoutes binds endpoints that require an access token.
func (h *AuthHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.GET("/me/permissions", h.MyPermissions)
}

// Login verifies credentials and returns a bearer token. Every credential
// failure yields the same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// MyPermissions returns the caller's effective permission set.
func (h *AuthHandler) MyPermissions(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	permissions, err := h.authz.GetUserPermissions(c.Request.Context(), userID)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}
