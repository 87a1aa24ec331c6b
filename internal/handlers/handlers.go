package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/auth"
	"github.com/sol1corejz/storebot/internal/bot"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/middleware"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/tokenstorage"
)

const requestTimeout = time.Second * 10

// Engine is the part of the conversation engine the admin API drives. Both
// calls return the chat notifications to dispatch.
type Engine interface {
	ConfirmOrder(ctx context.Context, adminID, orderID int64) ([]bot.Instruction, error)
	ResolveCoinRequest(ctx context.Context, adminID, requestID int64, decision ledger.Decision) ([]bot.Instruction, error)
}

type Orders interface {
	List(ctx context.Context, status string) ([]models.Order, error)
}

type Ledger interface {
	Pending(ctx context.Context) ([]models.CoinRequest, error)
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type Config struct {
	Engine       Engine
	Orders       Orders
	Ledger       Ledger
	Dispatcher   bot.Dispatcher
	Auth         *auth.Manager
	Tokens       *tokenstorage.Storage
	AdminIDs     []int64
	PasswordHash string
}

type Handler struct {
	engine       Engine
	orders       Orders
	ledger       Ledger
	dispatcher   bot.Dispatcher
	auth         *auth.Manager
	tokens       *tokenstorage.Storage
	admins       map[int64]struct{}
	passwordHash []byte
}

func New(cfg Config) *Handler {
	admins := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Handler{
		engine:       cfg.Engine,
		orders:       cfg.Orders,
		ledger:       cfg.Ledger,
		dispatcher:   cfg.Dispatcher,
		auth:         cfg.Auth,
		tokens:       cfg.Tokens,
		admins:       admins,
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// Register mounts the admin API on app.
func (h *Handler) Register(app fiber.Router) {
	app.Post("/api/admin/login", h.LoginHandler)

	adminRoutes := app.Group("/api/admin", middleware.AuthMiddleware(h.auth, h.tokens))
	adminRoutes.Post("/logout", h.LogoutHandler)
	adminRoutes.Get("/orders", h.GetOrdersHandler)
	adminRoutes.Post("/orders/:id/confirm", h.ConfirmOrderHandler)
	adminRoutes.Get("/coin-requests", h.GetCoinRequestsHandler)
	adminRoutes.Post("/coin-requests/:id/approve", h.ApproveCoinRequestHandler)
	adminRoutes.Post("/coin-requests/:id/reject", h.RejectCoinRequestHandler)
	adminRoutes.Get("/users/:id/balance", h.GetUserBalanceHandler)
}

func adminID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(middleware.AdminIDKey).(int64)
	return id
}

func timedOut(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
		"error": "Request timed out",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
