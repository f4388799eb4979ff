package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CtxRequestIDKey holds the request correlation id.
	CtxRequestIDKey = "requestID"
	// RequestIDHeader is echoed back to clients and accepted from proxies.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns each request a correlation id, reusing one supplied by
// an upstream proxy when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(CtxRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
