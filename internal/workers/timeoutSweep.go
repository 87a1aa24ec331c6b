package workers

import (
	"context"
	"time"

	"github.com/sol1corejz/storebot/internal/bot"
	"github.com/sol1corejz/storebot/internal/logger"
	"go.uber.org/zap"
)

const (
	DefaultSweepInterval = 5 * time.Minute
	sweepTimeout         = 10 * time.Second
)

type Sweeper interface {
	SweepTimeouts(ctx context.Context) ([]bot.Instruction, error)
}

// StartTimeoutSweep periodically auto-confirms orders no admin answered in
// time and dispatches the fallback notifications. It stops with ctx.
func StartTimeoutSweep(ctx context.Context, sweeper Sweeper, dispatcher bot.Dispatcher, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go startSweeper(ctx, sweeper, dispatcher, interval)

	logger.Log.Info("Timeout sweep worker started", zap.Duration("interval", interval))
}

func startSweeper(ctx context.Context, sweeper Sweeper, dispatcher bot.Dispatcher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Timeout sweep worker stopped")
			return
		case <-ticker.C:
			sweepOnce(ctx, sweeper, dispatcher)
		}
	}
}

func sweepOnce(parent context.Context, sweeper Sweeper, dispatcher bot.Dispatcher) int {
	ctx, cancel := context.WithTimeout(parent, sweepTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Log.Info("Cancelling timeout sweep")
		return 0
	default:
		notes, err := sweeper.SweepTimeouts(ctx)
		if err != nil {
			logger.Log.Error("Error sweeping pending orders", zap.Error(err))
			return 0
		}
		if len(notes) == 0 {
			return 0
		}

		dispatcher.Dispatch(ctx, notes)
		logger.Log.Info("Timed out orders auto-confirmed", zap.Int("notifications", len(notes)))
		return len(notes)
	}
}
