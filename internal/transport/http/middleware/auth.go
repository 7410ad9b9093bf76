package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the caller's user
// id on the context.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		userID, err := auth.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid access token"))
			return
		}

		c.Set(UserIDKey, userID)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = userID
		}

		c.Next()
	}
}

// RequirePermission authorizes the authenticated caller for a resource/action
// pair before the handler runs. Missing or deactivated accounts are rejected
// the same way as insufficient grants.
func RequirePermission(authz *usecase.AuthorizationService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		allowed, err := authz.UserHasPermission(c.Request.Context(), userID, resource, action)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					newErrorResponse(c, "insufficient permissions"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authorization check failed"))
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

// RequireRole restricts the route to callers holding one of the named roles.
func RequireRole(authz *usecase.AuthorizationService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		for _, role := range roles {
			has, err := authz.UserHasRole(c.Request.Context(), userID, role)
			if err != nil {
				var notFound *domain.NotFoundError
				if errors.As(err, &notFound) {
					break
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authorization check failed"))
				return
			}
			if has {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorResponse(c, "insufficient permissions"))
	}
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers).
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}
