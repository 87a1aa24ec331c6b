// Package session keeps the per-user conversational context. Sessions are
// ephemeral; durable account data lives in storage.
package session

import (
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/models"
)

type State string

const (
	Idle                       State = "idle"
	AwaitingLanguage           State = "awaiting_language"
	AwaitingRegistrationName   State = "awaiting_registration_name"
	AwaitingRegistrationPhone  State = "awaiting_registration_phone"
	AwaitingNewName            State = "awaiting_new_name"
	AwaitingLocation           State = "awaiting_location"
	ChoosingStore              State = "choosing_store"
	BrowsingCategories         State = "browsing_categories"
	BrowsingProducts           State = "browsing_products"
	AwaitingAgeConfirmation    State = "awaiting_age_confirmation"
	AwaitingSearchQuery        State = "awaiting_search_query"
	CartView                   State = "cart_view"
	AwaitingPromoCode          State = "awaiting_promo_code"
	ChoosingDeliveryTime       State = "choosing_delivery_time"
	AwaitingCustomDeliveryTime State = "awaiting_custom_delivery_time"
	ChoosingPayment            State = "choosing_payment"
	AwaitingFeedback           State = "awaiting_feedback"
	AwaitingCoinAmount         State = "awaiting_coin_amount"
	AwaitingCoinReceipt        State = "awaiting_coin_receipt"
	AdminMenu                  State = "admin_menu"
	AdminStoreMenu             State = "admin_store_menu"
	AdminAwaitingProductName   State = "admin_awaiting_product_name"
	AdminAwaitingProductDesc   State = "admin_awaiting_product_desc"
	AdminAwaitingProductPrice  State = "admin_awaiting_product_price"
	AdminAwaitingProductCat    State = "admin_awaiting_product_category"
	AdminAwaitingProductImage  State = "admin_awaiting_product_image"
	AdminAwaitingPromoCode     State = "admin_awaiting_promo_code"
	AdminAwaitingPromoDiscount State = "admin_awaiting_promo_discount"
	AdminAwaitingPromoMaxUses  State = "admin_awaiting_promo_max_uses"
)

// Quote holds the last totals shown to the user. It is informational only:
// orders are always re-quoted at commit.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

type ProductDraft struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type PromoDraft struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

type Session struct {
	State    State  `json:"state"`
	Language string `json:"language,omitempty"`

	Cart     models.Cart      `json:"cart,omitempty"`
	StoreID  int64            `json:"store_id,omitempty"`
	Location *models.Location `json:"location,omitempty"`

	Category        string `json:"category,omitempty"`
	CategoryOffset  int    `json:"category_offset,omitempty"`
	ProductOffset   int    `json:"product_offset,omitempty"`
	PendingCategory string `json:"pending_category,omitempty"`

	PromoCode    string `json:"promo_code,omitempty"`
	DeliveryTime string `json:"delivery_time,omitempty"`
	PaymentType  string `json:"payment_type,omitempty"`
	Quote        *Quote `json:"quote,omitempty"`
	CheckoutKey  string `json:"checkout_key,omitempty"`

	AgeConfirmed bool `json:"age_confirmed,omitempty"`
	PendingAlert bool `json:"pending_alert,omitempty"`

	RegistrationName string          `json:"registration_name,omitempty"`
	CoinAmount       decimal.Decimal `json:"coin_amount"`
	FeedbackOrderID  int64           `json:"feedback_order_id,omitempty"`

	AdminStoreID int64         `json:"admin_store_id,omitempty"`
	ProductDraft *ProductDraft `json:"product_draft,omitempty"`
	PromoDraft   *PromoDraft   `json:"promo_draft,omitempty"`
}

func New() *Session {
	return &Session{State: Idle, Cart: models.Cart{}}
}

// ClearOrder drops the cart and every quote-related field.
func (s *Session) ClearOrder() {
	s.Cart = models.Cart{}
	s.PromoCode = ""
	s.DeliveryTime = ""
	s.PaymentType = ""
	s.Quote = nil
	s.CheckoutKey = ""
}

// Reset returns the session to a fresh state, keeping only the language.
func (s *Session) Reset() {
	lang := s.Language
	*s = *New()
	s.Language = lang
}

func (s *Session) EnsureCart() {
	if s.Cart == nil {
		s.Cart = models.Cart{}
	}
}
