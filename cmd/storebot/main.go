package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/sol1corejz/storebot/cmd/config"
	"github.com/sol1corejz/storebot/internal/auth"
	"github.com/sol1corejz/storebot/internal/bot"
	"github.com/sol1corejz/storebot/internal/handlers"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/orders"
	"github.com/sol1corejz/storebot/internal/pricing"
	"github.com/sol1corejz/storebot/internal/session"
	"github.com/sol1corejz/storebot/internal/storage"
	"github.com/sol1corejz/storebot/internal/tokenstorage"
	"github.com/sol1corejz/storebot/internal/transport/telegram"
	"github.com/sol1corejz/storebot/internal/workers"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	if err := logger.Initialize(config.LogLevel); err != nil {
		logger.Log.Fatal("Failed to initialize logger", zap.Error(err))
	}

	if err := config.Validate(); err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Log.Fatal("Failed to run server", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	store, closeStore, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if config.SeedFile != "" {
		seed, err := storage.LoadSeed(config.SeedFile)
		if err != nil {
			return err
		}
		if err := storage.Seed(ctx, store, seed); err != nil {
			return err
		}
	}

	sessions, closeSessions, err := openSessions(ctx)
	if err != nil {
		return err
	}
	defer closeSessions()

	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return err
	}
	now := time.Now

	quoter := pricing.New(store, store, pricing.Config{
		FeePerKm: config.DeliveryFeePerKm,
		FeeCap:   config.MaxDeliveryFee,
	})
	coins := ledger.New(store, now)
	orderService := orders.NewService(store, quoter, config.AdminResponseTimeout, now)

	engine := bot.New(bot.Config{
		Sessions: sessions,
		Storage:  store,
		Pricing:  quoter,
		Ledger:   coins,
		Orders:   orderService,
		Planner:  orders.DeliveryPlanner{MinLead: config.MinDeliveryTime, Location: loc},
		Settings: bot.Settings{
			AdminIDs:             config.AdminIDs,
			RestrictedCategories: config.RestrictedCategories,
			PageSize:             config.ItemsPerBatch,
			SupportContact:       supportContact(),
			CardNumber:           config.CardNumber,
			ExchangeRate:         config.ExchangeRate,
		},
		Now: now,
	})

	api, err := tgbotapi.NewBotAPI(config.APIToken)
	if err != nil {
		return err
	}
	logger.Log.Info("Authorized on telegram", zap.String("account", api.Self.UserName))

	adapter := telegram.New(api, engine, 0)
	workers.StartTimeoutSweep(ctx, engine, adapter, config.SweepInterval)

	tokens := tokenstorage.New()
	go pruneTokens(ctx, tokens)

	updates := tgbotapi.NewUpdate(0)
	updates.Timeout = 60
	go adapter.Serve(ctx, api.GetUpdatesChan(updates))

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	handlers.New(handlers.Config{
		Engine:       engine,
		Orders:       orderService,
		Ledger:       coins,
		Dispatcher:   adapter,
		Auth:         auth.NewManager(jwtSecret()),
		Tokens:       tokens,
		AdminIDs:     config.AdminIDs,
		PasswordHash: config.AdminPasswordHash,
	}).Register(app)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
		if err := app.Shutdown(); err != nil {
			logger.Log.Error("Failed to shut down server", zap.Error(err))
		}
	}()

	logger.Log.Info("Running server", zap.String("address", config.RunAddress))
	return app.Listen(config.RunAddress)
}

func openStorage(ctx context.Context) (storage.Storage, func(), error) {
	if config.DatabaseURI == "" {
		logger.Log.Warn("DATABASE_URI is empty, using in-memory storage")
		return storage.NewMemory(), func() {}, nil
	}

	db, err := storage.NewPostgres(config.DatabaseURI)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Init(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logger.Log.Error("Failed to close storage", zap.Error(err))
		}
	}, nil
}

func openSessions(ctx context.Context) (session.Store, func(), error) {
	if config.RedisURL == "" {
		logger.Log.Warn("REDIS_URL is empty, sessions are kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client, "", 0), func() {
		if err := client.Close(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}, nil
}

func supportContact() string {
	parts := make([]string, 0, 2)
	if config.SupportUsername != "" {
		parts = append(parts, config.SupportUsername)
	}
	if config.PhoneNumber != "" {
		parts = append(parts, config.PhoneNumber)
	}
	return strings.Join(parts, ", ")
}

// jwtSecret falls back to a per-process secret; tokens then die with the
// process.
func jwtSecret() string {
	if config.JWTSecret != "" {
		return config.JWTSecret
	}
	logger.Log.Warn("JWT_SECRET is empty, generating an ephemeral secret")
	return uuid.NewString()
}

func pruneTokens(ctx context.Context, tokens *tokenstorage.Storage) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := tokens.Prune(t); n > 0 {
				logger.Log.Debug("Pruned revoked tokens", zap.Int("count", n))
			}
		}
	}
}
