package middleware

import (
	"strings"

	"github.com/dimitrije/projectboard/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// TokenValidator is the part of JWTService the middleware needs.
type TokenValidator interface {
	ValidateAccessToken(token string) (*services.Claims, error)
}

// Auth resolves the bearer token into the request identity. Handlers read it
// back with GetUserID and GetUserEmail.
func Auth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := validator.ValidateAccessToken(parts[1])
		if err != nil || claims.UserID == uuid.Nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if v, ok := c.Get(UserEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
