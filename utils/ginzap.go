package utils

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// Ginzap returns the zap access-log middleware. Each line carries the request id.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: timeFormat,
		UTC:        utc,
		SkipPaths:  []string{"/health"},
		Context: func(c *gin.Context) []zapcore.Field {
			if id := c.GetString(RequestIDKey); id != "" {
				return []zapcore.Field{zap.String("request_id", id)}
			}
			return nil
		},
	})
}

// RecoveryWithZap logs panics through zap and answers with a 500 envelope.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(logger, stack, func(c *gin.Context, _ any) {
		Error(c, http.StatusInternalServerError, 50000, "internal server error")
		c.Abort()
	})
}
