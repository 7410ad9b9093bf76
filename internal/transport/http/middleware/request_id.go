package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/identra/identity-service/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's correlation identifier, minting one when
// the header is absent. The value is echoed in the response and stored on the
// request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id),
		)

		c.Next()
	}
}
