package pricing

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var store = models.Store{ID: 1, Name: "Tsum", Latitude: 41.3111, Longitude: 69.2797}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// northOf returns a point km kilometres due north of loc.
func northOf(loc models.Location, km float64) *models.Location {
	return &models.Location{
		Latitude:  loc.Latitude + km/EarthRadiusKm*180/math.Pi,
		Longitude: loc.Longitude,
	}
}

func newEngine(t *testing.T) (*Engine, *storage.Memory) {
	t.Helper()
	ctx := context.Background()

	mem := storage.NewMemory()
	require.NoError(t, mem.UpsertStore(ctx, store))
	_, err := mem.CreateProduct(ctx, models.Product{ID: 1, Name: "Cream A", Price: dec("15.000"), Category: "cream", StoreID: 1})
	require.NoError(t, err)
	_, err = mem.CreateProduct(ctx, models.Product{ID: 2, Name: "Cream B", Price: dec("18.000"), Category: "cream", StoreID: 1})
	require.NoError(t, err)
	_, err = mem.CreateProduct(ctx, models.Product{ID: 3, Name: "Odd", Price: dec("0.3335"), Category: "misc", StoreID: 1})
	require.NoError(t, err)

	return New(mem, mem, Config{FeePerKm: dec("5"), FeeCap: dec("40")}), mem
}

func TestQuote_Scenario(t *testing.T) {
	engine, _ := newEngine(t)

	q, err := engine.Quote(context.Background(), Request{
		Cart:     models.Cart{1: 2, 2: 1},
		StoreID:  1,
		Location: northOf(store.Location(), 2),
	})
	require.NoError(t, err)

	assert.Equal(t, "48.000", q.Subtotal.StringFixed(3))
	assert.Equal(t, "10.000", q.DeliveryFee.StringFixed(3))
	assert.Equal(t, "0.000", q.Discount.StringFixed(3))
	assert.Equal(t, "58.000", q.Total.StringFixed(3))
	assert.Equal(t, "Cream A x2 (30.000), Cream B x1 (18.000)", q.Snapshot())
}

func TestQuote_SubtotalIsSumOfRoundedLines(t *testing.T) {
	engine, _ := newEngine(t)

	q, err := engine.Quote(context.Background(), Request{Cart: models.Cart{3: 3, 1: 1}, StoreID: 1})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range q.Lines {
		assert.True(t, l.Total.Equal(l.Total.Round(Precision)))
		sum = sum.Add(l.Total)
	}
	assert.True(t, q.Subtotal.Equal(sum))
	// 0.3335 rounds half-up to 0.334 before multiplying.
	assert.Equal(t, "1.002", q.Lines[1].Total.StringFixed(3))
}

func TestQuote_NoLocationMeansNoFee(t *testing.T) {
	engine, _ := newEngine(t)

	q, err := engine.Quote(context.Background(), Request{Cart: models.Cart{1: 1}, StoreID: 1})
	require.NoError(t, err)
	assert.True(t, q.DeliveryFee.IsZero())
	assert.Equal(t, "15.000", q.Total.StringFixed(3))
}

func TestQuote_Promo(t *testing.T) {
	engine, mem := newEngine(t)
	ctx := context.Background()
	require.NoError(t, mem.CreatePromo(ctx, models.PromoCode{Code: "spring", Discount: dec("20"), UsageCount: 3, MaxUses: 5}))
	require.NoError(t, mem.CreatePromo(ctx, models.PromoCode{Code: "USED", Discount: dec("50"), UsageCount: 2, MaxUses: 2}))

	tests := []struct {
		name    string
		promo   string
		wantErr error
		total   string
	}{
		{name: "applied case-insensitively", promo: "Spring", total: "38.400"},
		{name: "skip sentinel", promo: "SKIP", total: "48.000"},
		{name: "empty", promo: "", total: "48.000"},
		{name: "exhausted", promo: "used", wantErr: errs.ErrInvalidPromo},
		{name: "unknown", promo: "nope", wantErr: errs.ErrInvalidPromo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := engine.Quote(ctx, Request{Cart: models.Cart{1: 2, 2: 1}, StoreID: 1, Promo: tt.promo})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total, q.Total.StringFixed(3))
		})
	}

	// Quoting never consumes a use.
	promo, err := mem.GetPromo(ctx, "SPRING")
	require.NoError(t, err)
	assert.Equal(t, 3, promo.UsageCount)
}

func TestQuote_EmptyCart(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := engine.Quote(context.Background(), Request{Cart: models.Cart{}, StoreID: 1})
	assert.ErrorIs(t, err, errs.ErrEmptyCart)

	_, err = engine.Quote(context.Background(), Request{Cart: models.Cart{404: 1}, StoreID: 1})
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestDeliveryFee(t *testing.T) {
	rate, feeCap := dec("5"), dec("40")

	for _, km := range []float64{0, 0.5, 2, 7.9, 8, 12, 100} {
		fee := DeliveryFee(km, rate, feeCap)
		want := decimal.Min(decimal.NewFromFloat(km).Mul(rate).Round(3), feeCap)
		assert.True(t, fee.Equal(want), "km=%v fee=%s want=%s", km, fee, want)
	}
}

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 2.0, DistanceKm(store.Location(), *northOf(store.Location(), 2)), 1e-9)
	assert.InDelta(t, 0.0, DistanceKm(store.Location(), store.Location()), 1e-12)
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, "38.400", ApplyDiscount(dec("48"), dec("20")).StringFixed(3))
	assert.Equal(t, "0.000", ApplyDiscount(dec("48"), dec("100")).StringFixed(3))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "15", want: "15"},
		{in: " 15.5 ", want: "15.5"},
		{in: "0,125", want: "0.125"},
		{in: "0", want: "0"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String())
	}

	for _, in := range []string{"", "1e10000000", "1E2", "-1", "+1", "1.2345", "1,2,3", "0x10", ".5", strings.Repeat("9", 13)} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, errs.ErrMalformedAmount, in)
	}
}
