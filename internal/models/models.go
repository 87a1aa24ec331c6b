package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CoinRequestPending  = "pending"
	CoinRequestApproved = "approved"
	CoinRequestRejected = "rejected"

	OrderPending   = "pending"
	OrderConfirmed = "confirmed"

	PaymentCoins = "coins"
	PaymentCash  = "cash"
)

type User struct {
	ID        int64           `db:"user_id"`
	Name      string          `db:"name"`
	Phone     string          `db:"phone"`
	Language  string          `db:"language"`
	Coins     decimal.Decimal `db:"coins"`
	CreatedAt time.Time       `db:"created_at"`
}

type Store struct {
	ID        int64   `db:"id" yaml:"id"`
	Name      string  `db:"name" yaml:"name"`
	Latitude  float64 `db:"latitude" yaml:"latitude"`
	Longitude float64 `db:"longitude" yaml:"longitude"`
}

func (s Store) Location() Location {
	return Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Image       string          `db:"image"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	StoreID     int64           `db:"store_id"`
}

type PromoCode struct {
	Code       string          `db:"code"`
	Discount   decimal.Decimal `db:"discount"`
	UsageCount int             `db:"usage_count"`
	MaxUses    int             `db:"max_uses"`
}

// Usable reports whether the code still has uses left.
func (p PromoCode) Usable() bool {
	return p.UsageCount < p.MaxUses
}

type CoinRequest struct {
	ID         int64           `db:"id"`
	UserID     int64           `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	ReceiptRef string          `db:"receipt_file_id"`
	CreatedAt  time.Time       `db:"created_at"`
	ResolvedAt *time.Time      `db:"resolved_at"`
	ResolvedBy *int64          `db:"resolved_by"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Order struct {
	ID           int64           `db:"order_id"`
	UserID       int64           `db:"user_id"`
	StoreID      int64           `db:"store_id"`
	Products     string          `db:"products"`
	DeliveryTime string          `db:"delivery_time"`
	PaymentType  string          `db:"payment_type"`
	Status       string          `db:"status"`
	PromoCode    *string         `db:"promo_code"`
	Location     *Location       `db:"-"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	Discount     decimal.Decimal `db:"discount"`
	DeliveryFee  decimal.Decimal `db:"delivery_fee"`
	Total        decimal.Decimal `db:"total"`
	Rating       *int            `db:"rating"`
	CreatedAt    time.Time       `db:"created_at"`
	ConfirmedAt  *time.Time      `db:"confirmed_at"`
	// ConfirmedBy is nil when the timeout sweep confirmed the order.
	ConfirmedBy *int64 `db:"confirmed_by"`
}

// NewOrder is everything CreateOrder needs to commit an order atomically.
// Debit is zero for non-coin payments.
type NewOrder struct {
	UserID       int64
	StoreID      int64
	Products     string
	DeliveryTime string
	PaymentType  string
	PromoCode    string
	Location     *Location
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
	Debit        decimal.Decimal
	CreatedAt    time.Time
	// CheckoutKey identifies one checkout; a second order with the same key
	// is rejected.
	CheckoutKey string
}
