// Package pricing computes cart quotes: line subtotals, promo discount and
// the distance-based delivery fee. Amounts use decimal arithmetic and are
// rounded half-up to three places per line, never on running sums.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/models"
)

const (
	Precision     = 3
	EarthRadiusKm = 6371.0

	// SkipPromo is the user's way of declining a promo code.
	SkipPromo = "skip"
)

// amountPattern accepts plain decimals only: no sign, no exponent, at most
// twelve integer and three fractional digits.
var amountPattern = regexp.MustCompile(`^\d{1,12}(?:[.,]\d{1,3})?$`)

type Catalog interface {
	GetStore(ctx context.Context, id int64) (models.Store, error)
	GetProducts(ctx context.Context, ids []int64) ([]models.Product, error)
}

type PromoReader interface {
	GetPromo(ctx context.Context, code string) (models.PromoCode, error)
}

type Config struct {
	FeePerKm decimal.Decimal
	FeeCap   decimal.Decimal
}

type Line struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Snapshot renders the line the way it is persisted on an order.
func (l Line) Snapshot() string {
	return fmt.Sprintf("%s x%d (%s)", l.Name, l.Quantity, l.Total.StringFixed(Precision))
}

type Quote struct {
	Lines       []Line
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	// PromoCode is the normalized code that was applied, empty if none.
	PromoCode string
}

// Snapshot joins the line snapshots.
func (q Quote) Snapshot() string {
	parts := make([]string, 0, len(q.Lines))
	for _, l := range q.Lines {
		parts = append(parts, l.Snapshot())
	}
	return strings.Join(parts, ", ")
}

type Request struct {
	Cart     models.Cart
	StoreID  int64
	Location *models.Location
	Promo    string
}

type Engine struct {
	catalog Catalog
	promos  PromoReader
	cfg     Config
}

func New(catalog Catalog, promos PromoReader, cfg Config) *Engine {
	return &Engine{catalog: catalog, promos: promos, cfg: cfg}
}

// Quote prices the cart against live catalog and promo data.
func (e *Engine) Quote(ctx context.Context, req Request) (Quote, error) {
	if req.Cart.Empty() {
		return Quote{}, errs.ErrEmptyCart
	}

	products, err := e.catalog.GetProducts(ctx, req.Cart.IDs())
	if err != nil {
		return Quote{}, fmt.Errorf("load cart products: %w", err)
	}

	var q Quote
	q.Subtotal = decimal.Zero
	for _, p := range products {
		qty, ok := req.Cart[p.ID]
		if !ok {
			continue
		}
		line := Line{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price.Round(Precision),
		}
		line.Total = LineTotal(p.Price, qty)
		q.Lines = append(q.Lines, line)
		q.Subtotal = q.Subtotal.Add(line.Total)
	}
	if len(q.Lines) == 0 {
		return Quote{}, errs.ErrEmptyCart
	}

	q.DeliveryFee, err = e.deliveryFee(ctx, req.StoreID, req.Location)
	if err != nil {
		return Quote{}, err
	}

	discounted := q.Subtotal
	if code := NormalizePromo(req.Promo); code != "" {
		promo, err := e.promos.GetPromo(ctx, code)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return Quote{}, errs.ErrInvalidPromo
			}
			return Quote{}, fmt.Errorf("load promo: %w", err)
		}
		if !promo.Usable() {
			return Quote{}, errs.ErrInvalidPromo
		}
		discounted = ApplyDiscount(q.Subtotal, promo.Discount)
		q.PromoCode = promo.Code
	}

	q.Discount = q.Subtotal.Sub(discounted)
	q.Total = discounted.Add(q.DeliveryFee)
	return q, nil
}

func (e *Engine) deliveryFee(ctx context.Context, storeID int64, loc *models.Location) (decimal.Decimal, error) {
	if loc == nil {
		return decimal.Zero, nil
	}
	store, err := e.catalog.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("load store: %w", err)
	}
	return DeliveryFee(DistanceKm(*loc, store.Location()), e.cfg.FeePerKm, e.cfg.FeeCap), nil
}

// NormalizePromo upper-cases the code and maps empty input and "skip" to "".
func NormalizePromo(text string) string {
	code := strings.TrimSpace(text)
	if code == "" || strings.EqualFold(code, SkipPromo) {
		return ""
	}
	return strings.ToUpper(code)
}

// ParseAmount reads a typed non-negative amount with at most three fractional
// digits. A comma is accepted as decimal separator.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if !amountPattern.MatchString(text) {
		return decimal.Zero, errs.ErrMalformedAmount
	}
	return decimal.NewFromString(strings.Replace(text, ",", ".", 1))
}

func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Round(Precision).Mul(decimal.NewFromInt(int64(qty))).Round(Precision)
}

// ApplyDiscount returns subtotal × (1 − percent/100).
func ApplyDiscount(subtotal, percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	return subtotal.Mul(factor).Round(Precision)
}

// DeliveryFee is min(distance × rate, cap).
func DeliveryFee(distanceKm float64, rate, feeCap decimal.Decimal) decimal.Decimal {
	fee := decimal.NewFromFloat(distanceKm).Mul(rate).Round(Precision)
	if fee.GreaterThan(feeCap) {
		return feeCap.Round(Precision)
	}
	return fee
}

// DistanceKm is the haversine great-circle distance.
func DistanceKm(a, b models.Location) float64 {
	lat1, lon1 := radians(a.Latitude), radians(a.Longitude)
	lat2, lon2 := radians(b.Latitude), radians(b.Longitude)
	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
