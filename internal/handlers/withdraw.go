package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/logger"
	"go.uber.org/zap"
)

type CoinRequestResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	ReceiptRef string    `json:"receipt_ref"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) GetCoinRequestsHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		requests, err := h.ledger.Pending(ctx)
		if err != nil {
			logger.Log.Error("Error getting coin requests", zap.Error(err))
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		if len(requests) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}

		response := make([]CoinRequestResponse, 0, len(requests))
		for _, r := range requests {
			response = append(response, CoinRequestResponse{
				ID:         r.ID,
				UserID:     r.UserID,
				Amount:     r.Amount.StringFixed(3),
				Status:     r.Status,
				ReceiptRef: r.ReceiptRef,
				CreatedAt:  r.CreatedAt,
			})
		}
		return c.Status(fiber.StatusOK).JSON(response)
	}
}

func (h *Handler) ApproveCoinRequestHandler(c *fiber.Ctx) error {
	return h.resolveCoinRequest(c, ledger.Approve)
}

func (h *Handler) RejectCoinRequestHandler(c *fiber.Ctx) error {
	return h.resolveCoinRequest(c, ledger.Reject)
}

func (h *Handler) resolveCoinRequest(c *fiber.Ctx, decision ledger.Decision) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		requestID, err := c.ParamsInt("id")
		if err != nil || requestID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request id",
			})
		}

		notes, err := h.engine.ResolveCoinRequest(ctx, adminID(c), int64(requestID), decision)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Coin request not found",
			})
		case errors.Is(err, errs.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Coin request already resolved",
			})
		case err != nil:
			logger.Log.Error("Error resolving coin request", zap.Int("requestID", requestID), zap.Error(err))
			return internalError(c)
		}

		h.dispatcher.Dispatch(ctx, notes)

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Coin request resolved",
		})
	}
}
