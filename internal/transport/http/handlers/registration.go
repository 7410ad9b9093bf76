package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/usecase"
)

// RegistrationHandler exposes the self-service registration endpoint.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration endpoints. The extra middlewares (rate
// limiting) apply to the whole group.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	handlersChain := append([]gin.HandlerFunc{}, middlewares...)
	handlersChain = append(handlersChain, h.Register)
	r.POST("/register", handlersChain...)
}

// Register creates a new account holding the default role.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
