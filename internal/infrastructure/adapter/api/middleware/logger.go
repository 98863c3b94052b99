package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// Logger middleware emits one structured line per request. Lock and presence
// calls are chatty by nature (refreshes, presence pings), so everything a
// conflict investigation needs lands on that single line: who called, which
// path, how it ended and how long it took.
func Logger(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"method":     method,
			"path":       path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_id":    c.GetHeader(HeaderUserID),
			"request_id": c.GetHeader("X-Request-ID"),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.Errors()
		}

		// 409 is routine lock contention, not a fault; keep it out of the
		// warning stream
		switch {
		case status >= 500:
			logger.Error("Request failed", fields)
		case status >= 400 && status != 409:
			logger.Warn("Request rejected", fields)
		default:
			logger.Info("Request completed", fields)
		}
	}
}
