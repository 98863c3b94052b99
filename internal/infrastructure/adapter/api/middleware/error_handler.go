package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	domainerr "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware converts a handler panic into a 500 response so a
// single bad request cannot take the process down while other users hold
// active locks
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from handler panic", map[string]any{
					"panic":      r,
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"user_id":    c.GetHeader(HeaderUserID),
					"request_id": c.GetHeader("X-Request-ID"),
					"stack":      string(debug.Stack()),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
