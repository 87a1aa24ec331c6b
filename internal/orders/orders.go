// Package orders drives the order lifecycle: atomic submission, admin
// confirmation, the admin-timeout sweep and feedback collection.
//
// An order moves pending → confirmed exactly once. There is no cancellation
// or refund path; the sweep confirms orders no admin reviewed in time.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/pricing"
	"go.uber.org/zap"
)

type Store interface {
	CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	ConfirmOrder(ctx context.Context, id int64, confirmedBy *int64, at time.Time) (models.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	ListStalePendingOrders(ctx context.Context, before time.Time) ([]models.Order, error)
	SaveFeedback(ctx context.Context, orderID, userID int64, rating int) error
}

type Quoter interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

type Service struct {
	store   Store
	quoter  Quoter
	timeout time.Duration
	now     func() time.Time
}

func NewService(store Store, quoter Quoter, adminTimeout time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, quoter: quoter, timeout: adminTimeout, now: now}
}

type SubmitRequest struct {
	UserID       int64
	StoreID      int64
	Cart         models.Cart
	Location     *models.Location
	Promo        string
	DeliveryTime string
	PaymentType  string
	CheckoutKey  string
}

type Submission struct {
	Order models.Order
	Quote pricing.Quote
}

// Submit re-quotes the cart with live prices and promo state, then commits
// debit, promo usage and the order in one storage transaction. On any error
// nothing is persisted and the caller keeps the cart.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Submission, error) {
	if req.Cart.Empty() {
		return Submission{}, errs.ErrEmptyCart
	}
	if req.PaymentType != models.PaymentCoins && req.PaymentType != models.PaymentCash {
		return Submission{}, errs.Validation("invalid_payment")
	}

	quote, err := s.quoter.Quote(ctx, pricing.Request{
		Cart:     req.Cart,
		StoreID:  req.StoreID,
		Location: req.Location,
		Promo:    req.Promo,
	})
	if err != nil {
		return Submission{}, err
	}

	debit := decimal.Zero
	if req.PaymentType == models.PaymentCoins {
		debit = quote.Total
	}

	order, err := s.store.CreateOrder(ctx, models.NewOrder{
		UserID:       req.UserID,
		StoreID:      req.StoreID,
		Products:     quote.Snapshot(),
		DeliveryTime: req.DeliveryTime,
		PaymentType:  req.PaymentType,
		PromoCode:    quote.PromoCode,
		Location:     req.Location,
		Subtotal:     quote.Subtotal,
		Discount:     quote.Discount,
		DeliveryFee:  quote.DeliveryFee,
		Total:        quote.Total,
		Debit:        debit,
		CreatedAt:    s.now(),
		CheckoutKey:  req.CheckoutKey,
	})
	if err != nil {
		return Submission{}, err
	}

	logger.Log.Info("Order created",
		zap.Int64("orderID", order.ID),
		zap.Int64("userID", req.UserID),
		zap.String("payment", req.PaymentType),
		zap.String("total", quote.Total.StringFixed(pricing.Precision)))
	return Submission{Order: order, Quote: quote}, nil
}

// Confirm is the admin's pending → confirmed transition.
func (s *Service) Confirm(ctx context.Context, orderID, adminID int64) (models.Order, error) {
	order, err := s.store.ConfirmOrder(ctx, orderID, &adminID, s.now())
	if err != nil {
		return models.Order{}, err
	}
	logger.Log.Info("Order confirmed", zap.Int64("orderID", orderID), zap.Int64("adminID", adminID))
	return order, nil
}

// SweepTimeouts confirms every order pending for longer than the admin
// response timeout and returns the ones this call transitioned. Orders an
// admin confirmed concurrently are skipped.
func (s *Service) SweepTimeouts(ctx context.Context) ([]models.Order, error) {
	now := s.now()
	stale, err := s.store.ListStalePendingOrders(ctx, now.Add(-s.timeout))
	if err != nil {
		return nil, fmt.Errorf("list stale orders: %w", err)
	}

	var confirmed []models.Order
	for _, o := range stale {
		order, err := s.store.ConfirmOrder(ctx, o.ID, nil, now)
		if err != nil {
			if errors.Is(err, errs.ErrAlreadyResolved) {
				continue
			}
			logger.Log.Error("Failed to auto-confirm order", zap.Int64("orderID", o.ID), zap.Error(err))
			continue
		}
		logger.Log.Info("Order auto-confirmed after admin timeout", zap.Int64("orderID", o.ID))
		confirmed = append(confirmed, order)
	}
	return confirmed, nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (models.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *Service) History(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

func (s *Service) List(ctx context.Context, status string) ([]models.Order, error) {
	return s.store.ListOrders(ctx, status)
}

// ParseRating accepts an integer from 1 to 5.
func ParseRating(text string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || rating < 1 || rating > 5 {
		return 0, errs.Validation("invalid_feedback")
	}
	return rating, nil
}

func (s *Service) RecordFeedback(ctx context.Context, orderID, userID int64, rating int) error {
	if err := s.store.SaveFeedback(ctx, orderID, userID, rating); err != nil {
		return err
	}
	logger.Log.Info("Feedback recorded", zap.Int64("orderID", orderID), zap.Int("rating", rating))
	return nil
}
