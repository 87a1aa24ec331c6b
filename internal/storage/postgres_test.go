package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderCols = []string{"order_id", "user_id", "store_id", "products", "delivery_time", "payment_type", "status",
		"promo_code", "latitude", "longitude", "subtotal", "discount", "delivery_fee", "total", "rating",
		"created_at", "confirmed_at", "confirmed_by"}
	coinRequestCols = []string{"id", "user_id", "amount", "status", "receipt_file_id", "created_at", "resolved_at", "resolved_by"}

	createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Postgres{DB: db}, mock
}

func orderRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows(orderCols).AddRow(int64(1), int64(100), int64(1), "Cream A x1 (15.000)", "Today 13:00",
		models.PaymentCoins, status, "SPRING", nil, nil, "15.000", "3.000", "0.000", "12.000", nil, createdAt, nil, nil)
}

func coinOrder() models.NewOrder {
	return models.NewOrder{
		UserID:      100,
		StoreID:     1,
		Products:    "Cream A x1 (15.000)",
		PaymentType: models.PaymentCoins,
		PromoCode:   "spring",
		Subtotal:    decimal.NewFromInt(15),
		Discount:    decimal.NewFromInt(3),
		Total:       decimal.NewFromInt(12),
		Debit:       decimal.NewFromInt(12),
		CreatedAt:   createdAt,
		CheckoutKey: "checkout-1",
	}
}

func TestPostgres_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("exhausted promo rolls back", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE promo_codes").WithArgs("SPRING").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := p.CreateOrder(ctx, coinOrder())
		assert.ErrorIs(t, err, errs.ErrInvalidPromo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls back promo usage", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE promo_codes").WithArgs("SPRING").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET coins").WithArgs(sqlmock.AnyArg(), int64(100)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := p.CreateOrder(ctx, coinOrder())
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reused checkout key rolls back", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE promo_codes").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET coins").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO orders").WillReturnError(&pgconn.PgError{Code: uniqueViolation})
		mock.ExpectRollback()

		_, err := p.CreateOrder(ctx, coinOrder())
		assert.ErrorIs(t, err, errs.ErrDuplicateOrder)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commits all steps", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE promo_codes").WithArgs("SPRING").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET coins").WithArgs(sqlmock.AnyArg(), int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO orders").WillReturnRows(orderRows(models.OrderPending))
		mock.ExpectCommit()

		order, err := p.CreateOrder(ctx, coinOrder())
		require.NoError(t, err)
		assert.Equal(t, int64(1), order.ID)
		require.NotNil(t, order.PromoCode)
		assert.Equal(t, "SPRING", *order.PromoCode)
		assert.Equal(t, "12.000", order.Total.StringFixed(3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cash order skips the debit", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		order := coinOrder()
		order.PromoCode = ""
		order.Debit = decimal.Zero

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").WillReturnRows(orderRows(models.OrderPending))
		mock.ExpectCommit()

		_, err := p.CreateOrder(ctx, order)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_ConfirmOrder(t *testing.T) {
	ctx := context.Background()
	by := int64(1)

	t.Run("confirms pending", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("UPDATE orders SET status").WillReturnRows(orderRows(models.OrderConfirmed))

		o, err := p.ConfirmOrder(ctx, 1, &by, createdAt)
		require.NoError(t, err)
		assert.Equal(t, models.OrderConfirmed, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already confirmed", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("UPDATE orders SET status").WillReturnRows(sqlmock.NewRows(orderCols))
		mock.ExpectQuery("FROM orders WHERE order_id").WithArgs(int64(1)).WillReturnRows(orderRows(models.OrderConfirmed))

		_, err := p.ConfirmOrder(ctx, 1, &by, createdAt)
		assert.ErrorIs(t, err, errs.ErrAlreadyResolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("UPDATE orders SET status").WillReturnRows(sqlmock.NewRows(orderCols))
		mock.ExpectQuery("FROM orders WHERE order_id").WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(orderCols))

		_, err := p.ConfirmOrder(ctx, 9, nil, createdAt)
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_ResolveCoinRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("approval credits in the same transaction", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE coin_requests").WillReturnRows(sqlmock.NewRows(coinRequestCols).
			AddRow(int64(7), int64(100), "25.000", models.CoinRequestApproved, "receipt", createdAt, createdAt, int64(1)))
		mock.ExpectExec("UPDATE users SET coins").WithArgs(sqlmock.AnyArg(), int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		req, err := p.ResolveCoinRequest(ctx, 7, models.CoinRequestApproved, 1, createdAt)
		require.NoError(t, err)
		assert.Equal(t, "25", req.Amount.String())
		require.NotNil(t, req.ResolvedBy)
		assert.Equal(t, int64(1), *req.ResolvedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second resolution", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE coin_requests").WillReturnRows(sqlmock.NewRows(coinRequestCols))
		mock.ExpectRollback()
		mock.ExpectQuery("SELECT status FROM coin_requests").WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.CoinRequestApproved))

		_, err := p.ResolveCoinRequest(ctx, 7, models.CoinRequestApproved, 1, createdAt)
		assert.ErrorIs(t, err, errs.ErrAlreadyResolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection leaves coins alone", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE coin_requests").WillReturnRows(sqlmock.NewRows(coinRequestCols).
			AddRow(int64(7), int64(100), "25.000", models.CoinRequestRejected, "receipt", createdAt, createdAt, int64(1)))
		mock.ExpectCommit()

		_, err := p.ResolveCoinRequest(ctx, 7, models.CoinRequestRejected, 1, createdAt)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_CoinGuards(t *testing.T) {
	ctx := context.Background()

	p, mock := newMockPostgres(t)
	mock.ExpectQuery("INSERT INTO coin_requests").WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	_, err := p.CreateCoinRequest(ctx, models.CoinRequest{UserID: 100, Amount: decimal.NewFromInt(5), CreatedAt: createdAt})
	assert.ErrorIs(t, err, errs.ErrPendingRequestExists)

	mock.ExpectExec("UPDATE users SET coins").WithArgs(sqlmock.AnyArg(), int64(100)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, p.DebitCoins(ctx, 100, decimal.NewFromInt(500)), errs.ErrInsufficientBalance)

	assert.NoError(t, mock.ExpectationsWereMet())
}
