package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Postgres struct {
	DB *sql.DB
}

func NewPostgres(databaseURI string) (*Postgres, error) {
	if databaseURI == "" {
		return nil, ErrConnectionFailed
	}

	db, err := sql.Open("pgx", databaseURI)
	if err != nil {
		logger.Log.Error("Error opening database connection", zap.Error(err))
		return nil, ErrConnectionFailed
	}

	return &Postgres{DB: db}, nil
}

// Init creates the schema.
func (p *Postgres) Init(ctx context.Context) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id BIGINT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			price DECIMAL(12, 3) NOT NULL CHECK (price > 0),
			category TEXT NOT NULL,
			store_id BIGINT NOT NULL REFERENCES stores(id)
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			phone VARCHAR(32) NOT NULL,
			language VARCHAR(8) NOT NULL DEFAULT 'en',
			coins DECIMAL(14, 3) NOT NULL DEFAULT 0.000 CHECK (coins >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
			code VARCHAR(64) PRIMARY KEY NOT NULL,
			discount DECIMAL(5, 2) NOT NULL CHECK (discount >= 1 AND discount <= 100),
			usage_count INTEGER NOT NULL DEFAULT 0,
			max_uses INTEGER NOT NULL CHECK (max_uses > 0),
			CHECK (usage_count <= max_uses)
		);`,
		`CREATE TABLE IF NOT EXISTS coin_requests (
			id BIGSERIAL PRIMARY KEY NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			amount DECIMAL(14, 3) NOT NULL CHECK (amount > 0),
			status VARCHAR(16) NOT NULL,
			receipt_file_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			resolved_at TIMESTAMPTZ,
			resolved_by BIGINT
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS coin_requests_one_pending
			ON coin_requests (user_id) WHERE status = 'pending';`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id BIGSERIAL PRIMARY KEY NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			store_id BIGINT NOT NULL REFERENCES stores(id),
			products TEXT NOT NULL,
			delivery_time TEXT NOT NULL,
			payment_type VARCHAR(16) NOT NULL,
			status VARCHAR(16) NOT NULL,
			promo_code VARCHAR(64),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			subtotal DECIMAL(14, 3) NOT NULL,
			discount DECIMAL(14, 3) NOT NULL DEFAULT 0.000,
			delivery_fee DECIMAL(14, 3) NOT NULL DEFAULT 0.000,
			total DECIMAL(14, 3) NOT NULL,
			rating SMALLINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			confirmed_at TIMESTAMPTZ,
			confirmed_by BIGINT,
			checkout_key VARCHAR(64) UNIQUE
		);`,
		`CREATE INDEX IF NOT EXISTS orders_pending_created_at
			ON orders (created_at) WHERE status = 'pending';`,
	}

	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, table); err != nil {
			logger.Log.Error("Error creating table", zap.Error(err))
			return ErrCreatingTableFailed
		}
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Catalog

func (p *Postgres) ListStores(ctx context.Context) ([]models.Store, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM stores ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err = rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}

func (p *Postgres) GetStore(ctx context.Context, id int64) (models.Store, error) {
	var s models.Store
	err := p.DB.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude FROM stores WHERE id = $1;
	`, id).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude)
	if err != nil {
		return models.Store{}, notFound(err)
	}
	return s, nil
}

func (p *Postgres) UpsertStore(ctx context.Context, store models.Store) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO stores (id, name, latitude, longitude) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude;
	`, store.ID, store.Name, store.Latitude, store.Longitude)
	return err
}

func (p *Postgres) ListCategories(ctx context.Context, storeID int64) ([]string, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT DISTINCT category FROM products WHERE store_id = $1 ORDER BY category;
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

const productColumns = `id, name, description, image, price, category, store_id`

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var pr models.Product
		err := rows.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.Image, &pr.Price, &pr.Category, &pr.StoreID)
		if err != nil {
			return nil, err
		}
		products = append(products, pr)
	}

	return products, rows.Err()
}

func (p *Postgres) ListProducts(ctx context.Context, storeID int64, category string, offset, limit int) ([]models.Product, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE store_id = $1 AND category = $2
		ORDER BY id LIMIT $3 OFFSET $4;
	`, storeID, category, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (p *Postgres) CountProducts(ctx context.Context, storeID int64, category string) (int, error) {
	var count int
	err := p.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE store_id = $1 AND category = $2;
	`, storeID, category).Scan(&count)
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p *Postgres) SearchProducts(ctx context.Context, storeID int64, query string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE store_id = $1 AND (LOWER(name) LIKE $2 ESCAPE '\' OR LOWER(description) LIKE $2 ESCAPE '\')
		ORDER BY id;
	`, storeID, pattern)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (p *Postgres) ListStoreProducts(ctx context.Context, storeID int64) ([]models.Product, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE store_id = $1 ORDER BY id;
	`, storeID)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (p *Postgres) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var pr models.Product
	err := p.DB.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1;
	`, id).Scan(&pr.ID, &pr.Name, &pr.Description, &pr.Image, &pr.Price, &pr.Category, &pr.StoreID)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return pr, nil
}

func (p *Postgres) GetProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id;
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (p *Postgres) CreateProduct(ctx context.Context, product models.Product) (int64, error) {
	var id int64
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO products (name, description, image, price, category, store_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;
	`, product.Name, product.Description, product.Image, product.Price, product.Category, product.StoreID).Scan(&id)
	if err != nil {
		logger.Log.Error("Error creating product", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (p *Postgres) DeleteProduct(ctx context.Context, id int64) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Users

func (p *Postgres) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := p.DB.QueryRowContext(ctx, `
		SELECT user_id, name, phone, language, coins, created_at FROM users WHERE user_id = $1;
	`, id).Scan(&u.ID, &u.Name, &u.Phone, &u.Language, &u.Coins, &u.CreatedAt)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, user models.User) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO users (user_id, name, phone, language) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone, language = EXCLUDED.language;
	`, user.ID, user.Name, user.Phone, user.Language)
	return err
}

func (p *Postgres) UpdateUserName(ctx context.Context, id int64, name string) error {
	return p.updateUser(ctx, `UPDATE users SET name = $1 WHERE user_id = $2;`, name, id)
}

func (p *Postgres) UpdateUserLanguage(ctx context.Context, id int64, language string) error {
	return p.updateUser(ctx, `UPDATE users SET language = $1 WHERE user_id = $2;`, language, id)
}

func (p *Postgres) updateUser(ctx context.Context, query string, value string, id int64) error {
	res, err := p.DB.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Promos

func (p *Postgres) GetPromo(ctx context.Context, code string) (models.PromoCode, error) {
	var promo models.PromoCode
	err := p.DB.QueryRowContext(ctx, `
		SELECT code, discount, usage_count, max_uses FROM promo_codes WHERE code = $1;
	`, strings.ToUpper(code)).Scan(&promo.Code, &promo.Discount, &promo.UsageCount, &promo.MaxUses)
	if err != nil {
		return models.PromoCode{}, notFound(err)
	}
	return promo, nil
}

func (p *Postgres) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT code, discount, usage_count, max_uses FROM promo_codes ORDER BY code;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []models.PromoCode
	for rows.Next() {
		var promo models.PromoCode
		if err = rows.Scan(&promo.Code, &promo.Discount, &promo.UsageCount, &promo.MaxUses); err != nil {
			return nil, err
		}
		promos = append(promos, promo)
	}

	return promos, rows.Err()
}

func (p *Postgres) CreatePromo(ctx context.Context, promo models.PromoCode) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO promo_codes (code, discount, usage_count, max_uses) VALUES ($1, $2, $3, $4);
	`, strings.ToUpper(promo.Code), promo.Discount, promo.UsageCount, promo.MaxUses)
	if isUniqueViolation(err) {
		return errs.ErrPromoExists
	}
	return err
}

func (p *Postgres) DeletePromo(ctx context.Context, code string) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM promo_codes WHERE code = $1;`, strings.ToUpper(code))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Coins

const coinRequestColumns = `id, user_id, amount, status, receipt_file_id, created_at, resolved_at, resolved_by`

func scanCoinRequest(row rowScanner) (models.CoinRequest, error) {
	var (
		req        models.CoinRequest
		resolvedAt sql.NullTime
		resolvedBy sql.NullInt64
	)
	err := row.Scan(&req.ID, &req.UserID, &req.Amount, &req.Status, &req.ReceiptRef, &req.CreatedAt, &resolvedAt, &resolvedBy)
	if err != nil {
		return models.CoinRequest{}, err
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	if resolvedBy.Valid {
		req.ResolvedBy = &resolvedBy.Int64
	}
	return req, nil
}

func (p *Postgres) CreateCoinRequest(ctx context.Context, req models.CoinRequest) (int64, error) {
	var id int64
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO coin_requests (user_id, amount, status, receipt_file_id, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;
	`, req.UserID, req.Amount, models.CoinRequestPending, req.ReceiptRef, req.CreatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrPendingRequestExists
		}
		return 0, err
	}
	return id, nil
}

func (p *Postgres) HasPendingCoinRequest(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := p.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM coin_requests WHERE user_id = $1 AND status = 'pending');
	`, userID).Scan(&exists)
	return exists, err
}

func (p *Postgres) ResolveCoinRequest(ctx context.Context, id int64, status string, resolvedBy int64, at time.Time) (models.CoinRequest, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.CoinRequest{}, err
	}

	req, err := scanCoinRequest(tx.QueryRowContext(ctx, `
		UPDATE coin_requests SET status = $1, resolved_at = $2, resolved_by = $3
		WHERE id = $4 AND status = 'pending'
		RETURNING `+coinRequestColumns+`;
	`, status, at, resolvedBy, id))
	if err != nil {
		tx.Rollback()
		if !errors.Is(err, sql.ErrNoRows) {
			return models.CoinRequest{}, err
		}
		return models.CoinRequest{}, p.coinRequestMissReason(ctx, id)
	}

	if status == models.CoinRequestApproved {
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET coins = coins + $1 WHERE user_id = $2;
		`, req.Amount, req.UserID)
		if err != nil {
			tx.Rollback()
			return models.CoinRequest{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.CoinRequest{}, err
	}

	return req, nil
}

func (p *Postgres) coinRequestMissReason(ctx context.Context, id int64) error {
	var status string
	err := p.DB.QueryRowContext(ctx, `SELECT status FROM coin_requests WHERE id = $1;`, id).Scan(&status)
	if err != nil {
		return notFound(err)
	}
	return errs.ErrAlreadyResolved
}

func (p *Postgres) ListPendingCoinRequests(ctx context.Context) ([]models.CoinRequest, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+coinRequestColumns+` FROM coin_requests WHERE status = 'pending' ORDER BY created_at;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.CoinRequest
	for rows.Next() {
		req, err := scanCoinRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (p *Postgres) DebitCoins(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return debitCoins(ctx, p.DB, userID, amount)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func debitCoins(ctx context.Context, db execer, userID int64, amount decimal.Decimal) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET coins = coins - $1 WHERE user_id = $2 AND coins >= $1;
	`, amount, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrInsufficientBalance
	}
	return nil
}

// Orders

const orderColumns = `order_id, user_id, store_id, products, delivery_time, payment_type, status, promo_code,
	latitude, longitude, subtotal, discount, delivery_fee, total, rating, created_at, confirmed_at, confirmed_by`

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		o           models.Order
		promo       sql.NullString
		lat, lon    sql.NullFloat64
		rating      sql.NullInt32
		confirmedAt sql.NullTime
		confirmedBy sql.NullInt64
	)
	err := row.Scan(&o.ID, &o.UserID, &o.StoreID, &o.Products, &o.DeliveryTime, &o.PaymentType, &o.Status, &promo,
		&lat, &lon, &o.Subtotal, &o.Discount, &o.DeliveryFee, &o.Total, &rating, &o.CreatedAt, &confirmedAt, &confirmedBy)
	if err != nil {
		return models.Order{}, err
	}
	if promo.Valid {
		o.PromoCode = &promo.String
	}
	if lat.Valid && lon.Valid {
		o.Location = &models.Location{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if rating.Valid {
		r := int(rating.Int32)
		o.Rating = &r
	}
	if confirmedAt.Valid {
		o.ConfirmedAt = &confirmedAt.Time
	}
	if confirmedBy.Valid {
		o.ConfirmedBy = &confirmedBy.Int64
	}
	return o, nil
}

func scanOrders(rows *sql.Rows) ([]models.Order, error) {
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// CreateOrder increments promo usage, debits coins and inserts the order in
// one transaction. Both guards are evaluated at commit time.
func (p *Postgres) CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, err
	}

	var promo sql.NullString
	if order.PromoCode != "" {
		code := strings.ToUpper(order.PromoCode)
		res, err := tx.ExecContext(ctx, `
			UPDATE promo_codes SET usage_count = usage_count + 1
			WHERE code = $1 AND usage_count < max_uses;
		`, code)
		if err != nil {
			tx.Rollback()
			return models.Order{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			tx.Rollback()
			return models.Order{}, errs.ErrInvalidPromo
		}
		promo = sql.NullString{String: code, Valid: true}
	}

	if order.Debit.IsPositive() {
		if err = debitCoins(ctx, tx, order.UserID, order.Debit); err != nil {
			tx.Rollback()
			return models.Order{}, err
		}
	}

	var lat, lon sql.NullFloat64
	if order.Location != nil {
		lat = sql.NullFloat64{Float64: order.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: order.Location.Longitude, Valid: true}
	}

	var key sql.NullString
	if order.CheckoutKey != "" {
		key = sql.NullString{String: order.CheckoutKey, Valid: true}
	}

	created, err := scanOrder(tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, store_id, products, delivery_time, payment_type, status, promo_code,
			latitude, longitude, subtotal, discount, delivery_fee, total, created_at, checkout_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+orderColumns+`;
	`, order.UserID, order.StoreID, order.Products, order.DeliveryTime, order.PaymentType, models.OrderPending, promo,
		lat, lon, order.Subtotal, order.Discount, order.DeliveryFee, order.Total, order.CreatedAt, key))
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return models.Order{}, errs.ErrDuplicateOrder
		}
		logger.Log.Error("Error creating order", zap.Error(err))
		return models.Order{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Order{}, err
	}

	return created, nil
}

func (p *Postgres) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	o, err := scanOrder(p.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE order_id = $1;
	`, id))
	if err != nil {
		return models.Order{}, notFound(err)
	}
	return o, nil
}

func (p *Postgres) ConfirmOrder(ctx context.Context, id int64, confirmedBy *int64, at time.Time) (models.Order, error) {
	var by sql.NullInt64
	if confirmedBy != nil {
		by = sql.NullInt64{Int64: *confirmedBy, Valid: true}
	}

	o, err := scanOrder(p.DB.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, confirmed_at = $2, confirmed_by = $3
		WHERE order_id = $4 AND status = 'pending'
		RETURNING `+orderColumns+`;
	`, models.OrderConfirmed, at, by, id))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, err
	}

	if _, err = p.GetOrder(ctx, id); err != nil {
		return models.Order{}, err
	}
	return models.Order{}, errs.ErrAlreadyResolved
}

func (p *Postgres) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at;
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (p *Postgres) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at;
	`, status)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (p *Postgres) ListStalePendingOrders(ctx context.Context, before time.Time) ([]models.Order, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE status = 'pending' AND created_at <= $1 ORDER BY created_at;
	`, before)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (p *Postgres) SaveFeedback(ctx context.Context, orderID, userID int64, rating int) error {
	res, err := p.DB.ExecContext(ctx, `
		UPDATE orders SET rating = $1 WHERE order_id = $2 AND user_id = $3;
	`, rating, orderID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
