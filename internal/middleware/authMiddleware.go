package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/auth"
	"github.com/sol1corejz/storebot/internal/tokenstorage"
)

const (
	AdminIDKey = "adminID"
	TokenKey   = "token"
)

// AuthMiddleware accepts the jwt cookie or a bearer token and stores the
// admin id in the request locals.
func AuthMiddleware(manager *auth.Manager, revoked *tokenstorage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("jwt")
		if tokenString == "" {
			tokenString = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if revoked.IsRevoked(tokenString) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token revoked",
			})
		}

		adminID, err := manager.GetAdminID(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(AdminIDKey, adminID)
		c.Locals(TokenKey, tokenString)
		return c.Next()
	}
}
