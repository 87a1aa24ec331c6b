package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"go.uber.org/zap"
)

type BalanceResponse struct {
	UserID int64  `json:"user_id"`
	Coins  string `json:"coins"`
}

func (h *Handler) GetUserBalanceHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		userID, err := c.ParamsInt("id")
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid user id",
			})
		}

		balance, err := h.ledger.Balance(ctx, int64(userID))
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		if err != nil {
			logger.Log.Error("Error getting user balance", zap.Error(err))
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		return c.Status(fiber.StatusOK).JSON(BalanceResponse{
			UserID: int64(userID),
			Coins:  balance.StringFixed(3),
		})
	}
}
