package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// RequestLogger logs one line per request once the rest of the chain returns.
func RequestLogger(logger *slog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", time.Since(start)),
		}
		if userID := GetUserID(c); userID != uuid.Nil {
			attrs = append(attrs, slog.String("user_id", userID.String()))
		}
		logger.Debug("request", attrs...)
	}
}
