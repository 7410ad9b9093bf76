package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RegisterRequest defines the self-registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserCreateRequest defines the administrative user creation payload.
type UserCreateRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	RoleID    string `json:"role_id" binding:"required"`
}

// UserUpdateRequest defines the partial user update payload. Absent fields
// leave the corresponding attribute unchanged.
type UserUpdateRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    *string `json:"role_id"`
}

// RoleCreateRequest defines the role creation payload.
type RoleCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

// RoleUpdateRequest defines the partial role update payload.
type RoleUpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	PermissionIDs *[]string `json:"permission_ids"`
}

// PermissionCreateRequest defines the permission creation payload.
type PermissionCreateRequest struct {
	Resource    string `json:"resource" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

// PermissionUpdateRequest defines the permission update payload. Resource and
// action are immutable, only the description may change.
type PermissionUpdateRequest struct {
	Description string `json:"description"`
}

// AccessCheckRequest defines the payload for an explicit authorization query.
type AccessCheckRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// parsePageQuery extracts optional limit/offset query parameters. Malformed
// numbers surface as validation errors rather than silently applying defaults.
func parsePageQuery(c *gin.Context) (limit, offset *int, err error) {
	if raw := c.Query("limit"); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, nil, domain.NewValidationError("limit", "limit must be an integer")
		}
		limit = &value
	}

	if raw := c.Query("offset"); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, nil, domain.NewValidationError("offset", "offset must be an integer")
		}
		offset = &value
	}

	return limit, offset, nil
}
