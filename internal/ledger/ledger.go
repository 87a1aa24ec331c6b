// Package ledger tracks coin balances and top-up requests. A top-up is a
// two-phase object: created pending, resolved exactly once by an admin.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/pricing"
	"go.uber.org/zap"
)

type Store interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	CreateCoinRequest(ctx context.Context, req models.CoinRequest) (int64, error)
	HasPendingCoinRequest(ctx context.Context, userID int64) (bool, error)
	ResolveCoinRequest(ctx context.Context, id int64, status string, resolvedBy int64, at time.Time) (models.CoinRequest, error)
	ListPendingCoinRequests(ctx context.Context) ([]models.CoinRequest, error)
	DebitCoins(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type Decision int

const (
	Approve Decision = iota + 1
	Reject
)

func (d Decision) status() string {
	if d == Approve {
		return models.CoinRequestApproved
	}
	return models.CoinRequestRejected
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func New(store Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// ParseAmount reads a positive coin amount, accepting a comma as decimal
// separator.
func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := pricing.ParseAmount(text)
	if err != nil {
		return decimal.Zero, errs.ValidationWrap("invalid_coin_amount", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errs.Validation("invalid_coin_amount")
	}
	return amount, nil
}

func (l *Ledger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	u, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Coins, nil
}

func (l *Ledger) HasPending(ctx context.Context, userID int64) (bool, error) {
	return l.store.HasPendingCoinRequest(ctx, userID)
}

func (l *Ledger) Pending(ctx context.Context) ([]models.CoinRequest, error) {
	return l.store.ListPendingCoinRequests(ctx)
}

// RequestTopUp records a pending request. It fails with
// errs.ErrPendingRequestExists while another request of the user is pending.
func (l *Ledger) RequestTopUp(ctx context.Context, userID int64, amount decimal.Decimal, receiptRef string) (models.CoinRequest, error) {
	if !amount.IsPositive() {
		return models.CoinRequest{}, errs.Validation("invalid_coin_amount")
	}

	req := models.CoinRequest{
		UserID:     userID,
		Amount:     amount,
		Status:     models.CoinRequestPending,
		ReceiptRef: receiptRef,
		CreatedAt:  l.now(),
	}
	id, err := l.store.CreateCoinRequest(ctx, req)
	if err != nil {
		return models.CoinRequest{}, err
	}
	req.ID = id

	logger.Log.Info("Coin request created",
		zap.Int64("requestID", id),
		zap.Int64("userID", userID),
		zap.String("amount", amount.StringFixed(3)))
	return req, nil
}

// Resolve moves a pending request to approved or rejected. Approval credits
// the owner in the same transaction. A request that is no longer pending
// yields errs.ErrAlreadyResolved and nothing changes.
func (l *Ledger) Resolve(ctx context.Context, requestID int64, decision Decision, adminID int64) (models.CoinRequest, error) {
	req, err := l.store.ResolveCoinRequest(ctx, requestID, decision.status(), adminID, l.now())
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyResolved) {
			logger.Log.Info("Coin request already resolved", zap.Int64("requestID", requestID))
		}
		return models.CoinRequest{}, err
	}

	logger.Log.Info("Coin request resolved",
		zap.Int64("requestID", requestID),
		zap.String("status", req.Status),
		zap.Int64("adminID", adminID))
	return req, nil
}

// Debit withdraws amount if the balance covers it at the moment of the
// update; otherwise errs.ErrInsufficientBalance and the balance is untouched.
func (l *Ledger) Debit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.Validation("invalid_coin_amount")
	}
	return l.store.DebitCoins(ctx, userID, amount)
}
