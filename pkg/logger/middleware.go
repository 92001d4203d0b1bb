package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Middleware returns a Gin middleware function that logs requests.
// It expects the request ID middleware to have run first and falls back to
// generating an ID itself.
func Middleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")
		if requestID == "" {
			requestID = c.GetHeader("X-Request-ID")
		}
		if requestID == "" {
			requestID = uuid.New().String()
			c.Header("X-Request-ID", requestID)
		}

		// Create a request-scoped logger
		reqLogger := logger.WithRequestID(requestID)
		if correlationID := c.GetString("correlationID"); correlationID != "" && correlationID != requestID {
			reqLogger = reqLogger.WithCorrelationID(correlationID)
		}

		// Store the logger in both the gin context and the request context
		c.Set("logger", reqLogger)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), reqLogger))

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		method := c.Request.Method

		reqLogger.LogRequest(method, path, status, latency)
	}
}

// FromGin returns the request-scoped logger stored by Middleware
func FromGin(c *gin.Context) *Logger {
	if l, ok := c.Get("logger"); ok {
		if reqLogger, ok := l.(*Logger); ok {
			return reqLogger
		}
	}
	return FromContext(c.Request.Context())
}
