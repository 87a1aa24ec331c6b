package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/auth"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	AdminID  int64  `json:"admin_id"`
	Password string `json:"password"`
}

func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var request LoginRequest
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		if err := c.BodyParser(&request); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if _, ok := h.admins[request.AdminID]; !ok || len(h.passwordHash) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Wrong admin id or password",
			})
		}

		if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(request.Password)); err != nil {
			logger.Log.Warn("Admin login rejected", zap.Int64("adminID", request.AdminID))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Wrong admin id or password",
			})
		}

		token, err := h.auth.GenerateToken(request.AdminID)
		if err != nil {
			logger.Log.Error("Error generating token: ", zap.Error(err))
			return internalError(c)
		}

		c.Cookie(&fiber.Cookie{
			Name:     "jwt",
			Value:    token,
			Expires:  time.Now().Add(auth.TokenExp),
			HTTPOnly: true,
		})

		c.Set("Authorization", "Bearer "+token)

		logger.Log.Info("Admin logged in", zap.Int64("adminID", request.AdminID))
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Admin authorized successfully",
		})
	}
}

func (h *Handler) LogoutHandler(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.TokenKey).(string)

	expiresAt := time.Now().Add(auth.TokenExp)
	if claims, err := h.auth.Parse(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	h.tokens.Revoke(token, expiresAt)

	c.ClearCookie("jwt")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}
