package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"go.uber.org/zap"
)

type OrderResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	StoreID      int64      `json:"store_id"`
	Products     string     `json:"products"`
	Total        string     `json:"total"`
	DeliveryFee  string     `json:"delivery_fee"`
	DeliveryTime string     `json:"delivery_time"`
	PaymentType  string     `json:"payment_type"`
	PromoCode    *string    `json:"promo_code,omitempty"`
	Status       string     `json:"status"`
	Rating       *int       `json:"rating,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy  *int64     `json:"confirmed_by,omitempty"`
}

func orderResponse(o models.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		StoreID:      o.StoreID,
		Products:     o.Products,
		Total:        o.Total.StringFixed(3),
		DeliveryFee:  o.DeliveryFee.StringFixed(3),
		DeliveryTime: o.DeliveryTime,
		PaymentType:  o.PaymentType,
		PromoCode:    o.PromoCode,
		Status:       o.Status,
		Rating:       o.Rating,
		CreatedAt:    o.CreatedAt,
		ConfirmedAt:  o.ConfirmedAt,
		ConfirmedBy:  o.ConfirmedBy,
	}
}

func (h *Handler) GetOrdersHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Warn("Context canceled or timeout exceeded")
		return timedOut(c)
	default:
		status := c.Query("status", models.OrderPending)
		if status != models.OrderPending && status != models.OrderConfirmed {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown order status",
			})
		}

		orders, err := h.orders.List(ctx, status)
		if err != nil {
			logger.Log.Error("Error getting orders", zap.Error(err))
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		if len(orders) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}

		response := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			response = append(response, orderResponse(order))
		}

		return c.Status(fiber.StatusOK).JSON(response)
	}
}
