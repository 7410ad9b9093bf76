package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/core/domain"
)

// RespondWithDomainError translates typed domain errors into HTTP status
// codes. Anything not in the taxonomy is treated as an internal failure and
// rendered without detail.
func RespondWithDomainError(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp := NewErrorResponse(c, validation.Reason)
		resp.Field = validation.Field
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var unauthorized *domain.UnauthorizedError
	if errors.As(err, &unauthorized) {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, unauthorized.Error()))
		return
	}

	var forbidden *domain.ForbiddenError
	if errors.As(err, &forbidden) {
		c.JSON(http.StatusForbidden, NewErrorResponse(c, forbidden.Error()))
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, notFound.Error()))
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, NewErrorResponse(c, conflict.Error()))
		return
	}

	c.Error(err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}
