package middleware

import (
	"strings"

	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID = "userId"
	LocalRole   = "role"
)

type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// Protected rejects requests without a valid bearer token before any
// handler behind it runs.
func Protected(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header missing",
			})
		}

		scheme, tokenString, found := strings.Cut(strings.TrimSpace(authHeader), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token missing",
			})
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}
