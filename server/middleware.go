package server

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultSlowThreshold is the duration above which a request is logged at Warn.
const DefaultSlowThreshold = 3 * time.Second

// requestLogger logs one line per request. 5xx responses log at Error,
// 4xx and slow requests at Warn.
func requestLogger(logger *slog.Logger, slow time.Duration, skip []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(skip, path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("remote_addr", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400, slow > 0 && elapsed > slow:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}
