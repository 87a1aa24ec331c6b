package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/models"
)

// Memory is a Storage kept in process memory. A single mutex makes every
// method, including CreateOrder, atomic.
type Memory struct {
	mu sync.Mutex

	stores       map[int64]models.Store
	products     map[int64]models.Product
	users        map[int64]models.User
	promos       map[string]models.PromoCode
	coinRequests map[int64]models.CoinRequest
	orders       map[int64]models.Order
	checkouts    map[string]int64

	nextProductID int64
	nextRequestID int64
	nextOrderID   int64
}

func NewMemory() *Memory {
	return &Memory{
		stores:       make(map[int64]models.Store),
		products:     make(map[int64]models.Product),
		users:        make(map[int64]models.User),
		promos:       make(map[string]models.PromoCode),
		coinRequests: make(map[int64]models.CoinRequest),
		orders:       make(map[int64]models.Order),
		checkouts:    make(map[string]int64),
	}
}

func (m *Memory) ListStores(_ context.Context) ([]models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stores := make([]models.Store, 0, len(m.stores))
	for _, s := range m.stores {
		stores = append(stores, s)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return stores, nil
}

func (m *Memory) GetStore(_ context.Context, id int64) (models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stores[id]
	if !ok {
		return models.Store{}, errs.ErrNotFound
	}
	return s, nil
}

func (m *Memory) UpsertStore(_ context.Context, store models.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stores[store.ID] = store
	return nil
}

func (m *Memory) ListCategories(_ context.Context, storeID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, p := range m.products {
		if p.StoreID != storeID {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *Memory) filterProducts(keep func(models.Product) bool) []models.Product {
	var out []models.Product
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ListProducts(_ context.Context, storeID int64, category string, offset, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.filterProducts(func(p models.Product) bool {
		return p.StoreID == storeID && p.Category == category
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *Memory) CountProducts(_ context.Context, storeID int64, category string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.filterProducts(func(p models.Product) bool {
		return p.StoreID == storeID && p.Category == category
	})), nil
}

func (m *Memory) SearchProducts(_ context.Context, storeID int64, query string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(query)
	return m.filterProducts(func(p models.Product) bool {
		return p.StoreID == storeID &&
			(strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q))
	}), nil
}

func (m *Memory) ListStoreProducts(_ context.Context, storeID int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.filterProducts(func(p models.Product) bool { return p.StoreID == storeID }), nil
}

func (m *Memory) GetProduct(_ context.Context, id int64) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (m *Memory) GetProducts(_ context.Context, ids []int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return m.filterProducts(func(p models.Product) bool {
		_, ok := want[p.ID]
		return ok
	}), nil
}

func (m *Memory) CreateProduct(_ context.Context, product models.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.ID == 0 {
		m.nextProductID++
		product.ID = m.nextProductID
	} else if product.ID > m.nextProductID {
		m.nextProductID = product.ID
	}
	m.products[product.ID] = product
	return product.ID, nil
}

// SetProductPrice changes a catalog price; tests use it to check that order
// snapshots stay immutable.
func (m *Memory) SetProductPrice(id int64, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.products[id]; ok {
		p.Price = price
		m.products[id] = p
	}
}

func (m *Memory) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.users[user.ID]; ok {
		existing.Name, existing.Phone, existing.Language = user.Name, user.Phone, user.Language
		m.users[user.ID] = existing
		return nil
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

// SetBalance overwrites a user's coins.
func (m *Memory) SetBalance(userID int64, coins decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.users[userID]
	u.ID = userID
	u.Coins = coins
	m.users[userID] = u
}

func (m *Memory) UpdateUserName(_ context.Context, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Name = name
	m.users[id] = u
	return nil
}

func (m *Memory) UpdateUserLanguage(_ context.Context, id int64, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Language = language
	m.users[id] = u
	return nil
}

func (m *Memory) GetPromo(_ context.Context, code string) (models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.promos[strings.ToUpper(code)]
	if !ok {
		return models.PromoCode{}, errs.ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListPromos(_ context.Context) ([]models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	promos := make([]models.PromoCode, 0, len(m.promos))
	for _, p := range m.promos {
		promos = append(promos, p)
	}
	sort.Slice(promos, func(i, j int) bool { return promos[i].Code < promos[j].Code })
	return promos, nil
}

func (m *Memory) CreatePromo(_ context.Context, promo models.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	promo.Code = strings.ToUpper(promo.Code)
	if _, ok := m.promos[promo.Code]; ok {
		return errs.ErrPromoExists
	}
	m.promos[promo.Code] = promo
	return nil
}

func (m *Memory) DeletePromo(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = strings.ToUpper(code)
	if _, ok := m.promos[code]; !ok {
		return errs.ErrNotFound
	}
	delete(m.promos, code)
	return nil
}

func (m *Memory) hasPending(userID int64) bool {
	for _, r := range m.coinRequests {
		if r.UserID == userID && r.Status == models.CoinRequestPending {
			return true
		}
	}
	return false
}

func (m *Memory) CreateCoinRequest(_ context.Context, req models.CoinRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasPending(req.UserID) {
		return 0, errs.ErrPendingRequestExists
	}
	m.nextRequestID++
	req.ID = m.nextRequestID
	req.Status = models.CoinRequestPending
	m.coinRequests[req.ID] = req
	return req.ID, nil
}

func (m *Memory) HasPendingCoinRequest(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hasPending(userID), nil
}

func (m *Memory) ResolveCoinRequest(_ context.Context, id int64, status string, resolvedBy int64, at time.Time) (models.CoinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.coinRequests[id]
	if !ok {
		return models.CoinRequest{}, errs.ErrNotFound
	}
	if req.Status != models.CoinRequestPending {
		return models.CoinRequest{}, errs.ErrAlreadyResolved
	}

	req.Status = status
	req.ResolvedAt = &at
	req.ResolvedBy = &resolvedBy
	m.coinRequests[id] = req

	if status == models.CoinRequestApproved {
		u := m.users[req.UserID]
		u.ID = req.UserID
		u.Coins = u.Coins.Add(req.Amount)
		m.users[req.UserID] = u
	}
	return req, nil
}

func (m *Memory) ListPendingCoinRequests(_ context.Context) ([]models.CoinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.CoinRequest
	for _, r := range m.coinRequests {
		if r.Status == models.CoinRequestPending {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DebitCoins(_ context.Context, userID int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.debit(userID, amount)
}

func (m *Memory) debit(userID int64, amount decimal.Decimal) error {
	u, ok := m.users[userID]
	if !ok || u.Coins.LessThan(amount) {
		return errs.ErrInsufficientBalance
	}
	u.Coins = u.Coins.Sub(amount)
	m.users[userID] = u
	return nil
}

func (m *Memory) CreateOrder(_ context.Context, order models.NewOrder) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.CheckoutKey != "" {
		if _, ok := m.checkouts[order.CheckoutKey]; ok {
			return models.Order{}, errs.ErrDuplicateOrder
		}
	}

	var code string
	if order.PromoCode != "" {
		code = strings.ToUpper(order.PromoCode)
		promo, ok := m.promos[code]
		if !ok || !promo.Usable() {
			return models.Order{}, errs.ErrInvalidPromo
		}
	}

	// Check every guard before mutating anything.
	if order.Debit.IsPositive() {
		u, ok := m.users[order.UserID]
		if !ok || u.Coins.LessThan(order.Debit) {
			return models.Order{}, errs.ErrInsufficientBalance
		}
		_ = m.debit(order.UserID, order.Debit)
	}

	created := models.Order{
		UserID:       order.UserID,
		StoreID:      order.StoreID,
		Products:     order.Products,
		DeliveryTime: order.DeliveryTime,
		PaymentType:  order.PaymentType,
		Status:       models.OrderPending,
		Subtotal:     order.Subtotal,
		Discount:     order.Discount,
		DeliveryFee:  order.DeliveryFee,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	}
	if code != "" {
		promo := m.promos[code]
		promo.UsageCount++
		m.promos[code] = promo
		created.PromoCode = &code
	}
	if order.Location != nil {
		loc := *order.Location
		created.Location = &loc
	}

	m.nextOrderID++
	created.ID = m.nextOrderID
	m.orders[created.ID] = created
	if order.CheckoutKey != "" {
		m.checkouts[order.CheckoutKey] = created.ID
	}
	return created, nil
}

func (m *Memory) GetOrder(_ context.Context, id int64) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, errs.ErrNotFound
	}
	return o, nil
}

func (m *Memory) ConfirmOrder(_ context.Context, id int64, confirmedBy *int64, at time.Time) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, errs.ErrNotFound
	}
	if o.Status != models.OrderPending {
		return models.Order{}, errs.ErrAlreadyResolved
	}
	o.Status = models.OrderConfirmed
	o.ConfirmedAt = &at
	if confirmedBy != nil {
		by := *confirmedBy
		o.ConfirmedBy = &by
	}
	m.orders[id] = o
	return o, nil
}

func (m *Memory) listOrders(keep func(models.Order) bool) []models.Order {
	var out []models.Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ListUserOrders(_ context.Context, userID int64) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listOrders(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (m *Memory) ListOrders(_ context.Context, status string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listOrders(func(o models.Order) bool { return o.Status == status }), nil
}

func (m *Memory) ListStalePendingOrders(_ context.Context, before time.Time) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listOrders(func(o models.Order) bool {
		return o.Status == models.OrderPending && !o.CreatedAt.After(before)
	}), nil
}

func (m *Memory) SaveFeedback(_ context.Context, orderID, userID int64, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return errs.ErrNotFound
	}
	o.Rating = &rating
	m.orders[orderID] = o
	return nil
}
