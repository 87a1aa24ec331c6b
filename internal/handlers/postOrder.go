package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"go.uber.org/zap"
)

// ConfirmOrderHandler confirms a pending order on behalf of the logged-in
// admin. The customer is notified in chat exactly as when the admin presses
// the confirm button.
func (h *Handler) ConfirmOrderHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid order id",
			})
		}

		notes, err := h.engine.ConfirmOrder(ctx, adminID(c), int64(orderID))
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		case errors.Is(err, errs.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Order already resolved",
			})
		case err != nil:
			logger.Log.Error("Error confirming order", zap.Int("orderID", orderID), zap.Error(err))
			return internalError(c)
		}

		h.dispatcher.Dispatch(ctx, notes)

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Order confirmed",
		})
	}
}
