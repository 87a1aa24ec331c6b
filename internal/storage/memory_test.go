package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T) *Memory {
	t.Helper()
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.UpsertStore(ctx, models.Store{ID: 1, Name: "Tsum"}))
	require.NoError(t, m.CreateUser(ctx, models.User{ID: 100, Name: "Ali"}))
	m.SetBalance(100, decimal.NewFromInt(50))
	require.NoError(t, m.CreatePromo(ctx, models.PromoCode{Code: "spring", Discount: decimal.NewFromInt(20), UsageCount: 4, MaxUses: 5}))
	return m
}

func newOrder(debit int64, promo string) models.NewOrder {
	return models.NewOrder{
		UserID:      100,
		StoreID:     1,
		Products:    "Cream A x1 (15.000)",
		PaymentType: models.PaymentCoins,
		PromoCode:   promo,
		Total:       decimal.NewFromInt(debit),
		Debit:       decimal.NewFromInt(debit),
		CreatedAt:   time.Now(),
	}
}

func TestMemory_CreateOrderIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	_, err := m.CreateOrder(ctx, newOrder(80, "SPRING"))
	require.ErrorIs(t, err, errs.ErrInsufficientBalance)

	promo, err := m.GetPromo(ctx, "spring")
	require.NoError(t, err)
	assert.Equal(t, 4, promo.UsageCount)
	orders, err := m.ListUserOrders(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, orders)

	order, err := m.CreateOrder(ctx, newOrder(30, "spring"))
	require.NoError(t, err)
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "SPRING", *order.PromoCode)

	promo, err = m.GetPromo(ctx, "SPRING")
	require.NoError(t, err)
	assert.Equal(t, 5, promo.UsageCount)
	u, err := m.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "20", u.Coins.String())

	_, err = m.CreateOrder(ctx, newOrder(0, "SPRING"))
	assert.ErrorIs(t, err, errs.ErrInvalidPromo)
}

func TestMemory_OnePendingCoinRequest(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.CreateCoinRequest(ctx, models.CoinRequest{UserID: 100, Amount: decimal.NewFromInt(5)})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, errs.ErrPendingRequestExists)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)

	_, err := m.ResolveCoinRequest(ctx, 1, models.CoinRequestRejected, 1, time.Now())
	require.NoError(t, err)
	pending, err := m.HasPendingCoinRequest(ctx, 100)
	require.NoError(t, err)
	assert.False(t, pending)

	_, err = m.CreateCoinRequest(ctx, models.CoinRequest{UserID: 100, Amount: decimal.NewFromInt(5)})
	assert.NoError(t, err)
}

func TestMemory_ConfirmOrderOnce(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	order, err := m.CreateOrder(ctx, newOrder(10, ""))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(by int64) {
			defer wg.Done()
			if _, err := m.ConfirmOrder(ctx, order.ID, &by, time.Now()); err == nil {
				mu.Lock()
				confirmed++
				mu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()
	assert.Equal(t, 1, confirmed)

	_, err = m.ConfirmOrder(ctx, 999, nil, time.Now())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMemory_CatalogQueries(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	for _, p := range []models.Product{
		{Name: "Cream A", Description: "Day", Category: "cream", StoreID: 1, Price: decimal.NewFromInt(15)},
		{Name: "Soap", Description: "With cream extract", Category: "soap", StoreID: 1, Price: decimal.NewFromInt(3)},
		{Name: "Cream Z", Category: "cream", StoreID: 2, Price: decimal.NewFromInt(9)},
	} {
		_, err := m.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	categories, err := m.ListCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"cream", "soap"}, categories)

	found, err := m.SearchProducts(ctx, 1, "CREAM")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	page, err := m.ListProducts(ctx, 1, "cream", 1, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	products, err := m.GetProducts(ctx, []int64{1, 3, 42})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	require.NoError(t, m.DeleteProduct(ctx, 1))
	assert.ErrorIs(t, m.DeleteProduct(ctx, 1), errs.ErrNotFound)
}

func TestMemory_SaveFeedbackChecksOwner(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	order, err := m.CreateOrder(ctx, newOrder(0, ""))
	require.NoError(t, err)

	assert.ErrorIs(t, m.SaveFeedback(ctx, order.ID, 200, 5), errs.ErrNotFound)
	require.NoError(t, m.SaveFeedback(ctx, order.ID, 100, 4))

	got, err := m.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
}

func TestMemory_ListStalePendingOrders(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, age := range []time.Duration{45 * time.Minute, 30 * time.Minute, 10 * time.Minute} {
		o := newOrder(0, "")
		o.CreatedAt = base.Add(-age)
		created, err := m.CreateOrder(ctx, o)
		require.NoError(t, err)
		require.Equal(t, int64(i+1), created.ID)
	}
	_, err := m.ConfirmOrder(ctx, 1, nil, base)
	require.NoError(t, err)

	stale, err := m.ListStalePendingOrders(ctx, base.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(2), stale[0].ID)
}

func TestMemory_CreateOrderRejectsReusedCheckoutKey(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	first := newOrder(10, "spring")
	first.CheckoutKey = "checkout-1"
	_, err := m.CreateOrder(ctx, first)
	require.NoError(t, err)

	_, err = m.CreateOrder(ctx, first)
	require.ErrorIs(t, err, errs.ErrDuplicateOrder)

	u, err := m.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "40", u.Coins.String())
	promo, err := m.GetPromo(ctx, "SPRING")
	require.NoError(t, err)
	assert.Equal(t, 5, promo.UsageCount)
	orders, err := m.ListUserOrders(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	other := newOrder(0, "")
	other.CheckoutKey = "checkout-2"
	_, err = m.CreateOrder(ctx, other)
	assert.NoError(t, err)
}
