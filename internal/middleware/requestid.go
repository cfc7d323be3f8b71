package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CtxRequestIDKey holds the request correlation id in the gin context.
	CtxRequestIDKey = "requestID"
	// RequestIDHeader is honoured from clients and echoed on responses.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns a correlation id to each request, reusing a caller-supplied
// one when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(CtxRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
