package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/models"
)

var (
	ErrConnectionFailed    = errors.New("db connection failed")
	ErrCreatingTableFailed = errors.New("creating table failed")
)

type Catalog interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	GetStore(ctx context.Context, id int64) (models.Store, error)
	UpsertStore(ctx context.Context, store models.Store) error
	ListCategories(ctx context.Context, storeID int64) ([]string, error)
	ListProducts(ctx context.Context, storeID int64, category string, offset, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context, storeID int64, category string) (int, error)
	SearchProducts(ctx context.Context, storeID int64, query string) ([]models.Product, error)
	ListStoreProducts(ctx context.Context, storeID int64) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (int64, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Users interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	UpdateUserName(ctx context.Context, id int64, name string) error
	UpdateUserLanguage(ctx context.Context, id int64, language string) error
}

type Promos interface {
	GetPromo(ctx context.Context, code string) (models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	CreatePromo(ctx context.Context, promo models.PromoCode) error
	DeletePromo(ctx context.Context, code string) error
}

type Coins interface {
	CreateCoinRequest(ctx context.Context, req models.CoinRequest) (int64, error)
	HasPendingCoinRequest(ctx context.Context, userID int64) (bool, error)
	ResolveCoinRequest(ctx context.Context, id int64, status string, resolvedBy int64, at time.Time) (models.CoinRequest, error)
	ListPendingCoinRequests(ctx context.Context) ([]models.CoinRequest, error)
	DebitCoins(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type Orders interface {
	CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	ConfirmOrder(ctx context.Context, id int64, confirmedBy *int64, at time.Time) (models.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	ListStalePendingOrders(ctx context.Context, before time.Time) ([]models.Order, error)
	SaveFeedback(ctx context.Context, orderID, userID int64, rating int) error
}

// Storage is the persistence collaborator. CreateOrder, ResolveCoinRequest
// and ConfirmOrder must be atomic.
type Storage interface {
	Catalog
	Users
	Promos
	Coins
	Orders
}

var (
	_ Storage = (*Postgres)(nil)
	_ Storage = (*Memory)(nil)
)
