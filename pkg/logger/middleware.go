package logger

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// GinMiddleware tags each request with an id, stores a scoped logger in the
// request context and logs the outcome.
func GinMiddleware(logger interfaces.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := WithRequestID(c.Request.Context(), requestID)
		reqLogger := logger.WithContext(ctx)
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := []interfaces.Field{
			interfaces.String("method", c.Request.Method),
			interfaces.String("path", c.FullPath()),
			interfaces.Int("status", status),
			interfaces.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, interfaces.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("HTTP request failed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("HTTP request rejected", fields...)
		default:
			reqLogger.Info("HTTP request completed", fields...)
		}
	}
}

// GinRecovery turns handler panics into 500 responses and logs the stack.
func GinRecovery(logger interfaces.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context()).Error("panic recovered",
					interfaces.Any("panic", r),
					interfaces.String("path", c.Request.URL.Path),
					interfaces.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{"code": "INTERNAL", "message": "internal server error"},
				})
			}
		}()
		c.Next()
	}
}
