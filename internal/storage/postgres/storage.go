package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/domain/repository"
)

// NotifyChannel is the Postgres channel carrying order change events.
// Every status-affecting write emits a pg_notify on it inside the same
// transaction, so a committed change is always followed by a notification.
const NotifyChannel = "order_events"

// DBPool is the subset of pgxpool.Pool the storage needs. Declared as an
// interface so tests can substitute a pgxmock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type staffRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Staff() repository.StaffRepository {
	return &staffRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            table_number TEXT NOT NULL,
            line_items JSONB NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            tax DOUBLE PRECISION NOT NULL DEFAULT 0,
            service DOUBLE PRECISION NOT NULL DEFAULT 0,
            total DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            code TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            localized_name TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            localized_description TEXT NOT NULL DEFAULT '',
            price DOUBLE PRECISION NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            image_url TEXT NOT NULL DEFAULT '',
            available BOOLEAN NOT NULL DEFAULT TRUE,
            featured BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS staff (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category, name)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func notifyTx(ctx context.Context, tx pgx.Tx, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, string(payload)); err != nil {
		return fmt.Errorf("notify order event: %w", err)
	}
	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	items, err := json.Marshal(draft.LineItems)
	if err != nil {
		return nil, fmt.Errorf("marshal line items: %w", err)
	}

	order := model.Order{
		ID:        uuid.NewString(),
		Table:     draft.Table,
		LineItems: draft.LineItems,
		Subtotal:  draft.Subtotal,
		Tax:       draft.Tax,
		Service:   draft.Service,
		Total:     draft.Total,
		Status:    model.OrderStatusPending,
		Code:      draft.Code,
		Notes:     draft.Notes,
	}

	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `INSERT INTO orders (id, table_number, line_items, subtotal, tax, service, total, status, code, notes)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                       RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			order.ID, order.Table, items, order.Subtotal, order.Tax, order.Service,
			order.Total, order.Status, order.Code, order.Notes,
		).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}
		return notifyTx(ctx, tx, model.OrderEvent{
			OrderID:   order.ID,
			Table:     order.Table,
			Status:    order.Status,
			UpdatedAt: order.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	const query = `SELECT id, table_number, line_items, subtotal, tax, service, total, status, code, notes, created_at, updated_at
                   FROM orders WHERE id=$1`
	var (
		order model.Order
		items []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(
		&order.ID, &order.Table, &items, &order.Subtotal, &order.Tax, &order.Service,
		&order.Total, &order.Status, &order.Code, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &order.LineItems); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT id, table_number, line_items, subtotal, tax, service, total, status, code, notes, created_at, updated_at
                   FROM orders
                   WHERE status IN ('pending', 'preparing', 'cooking', 'ready')
                   ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var (
			order model.Order
			items []byte
		)
		if err := rows.Scan(
			&order.ID, &order.Table, &items, &order.Subtotal, &order.Tax, &order.Service,
			&order.Total, &order.Status, &order.Code, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &order.LineItems); err != nil {
			return nil, fmt.Errorf("unmarshal line items: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2
                       RETURNING table_number, updated_at`
		var (
			table     string
			updatedAt time.Time
		)
		if err := tx.QueryRow(ctx, query, status, orderID).Scan(&table, &updatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		return notifyTx(ctx, tx, model.OrderEvent{
			OrderID:   orderID,
			Table:     table,
			Status:    status,
			UpdatedAt: updatedAt,
		})
	})
}

func (r *orderRepository) DeliveredSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	const query = `SELECT id, table_number, line_items, subtotal, tax, service, total, status, code, notes, created_at, updated_at
                   FROM orders
                   WHERE status = 'delivered' AND updated_at >= $1
                   ORDER BY updated_at`
	rows, err := r.storage.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var (
			order model.Order
			items []byte
		)
		if err := rows.Scan(
			&order.ID, &order.Table, &items, &order.Subtotal, &order.Tax, &order.Service,
			&order.Total, &order.Status, &order.Code, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &order.LineItems); err != nil {
			return nil, fmt.Errorf("unmarshal line items: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	const query = `INSERT INTO products (id, name, localized_name, description, localized_description, price, category, image_url, available, featured)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.LocalizedName, product.Description, product.LocalizedDescription,
		product.Price, product.Category, product.ImageURL, product.Available, product.Featured,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*model.Product, error) {
	const query = `SELECT id, name, localized_name, description, localized_description, price, category, image_url, available, featured, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.LocalizedName, &p.Description, &p.LocalizedDescription,
		&p.Price, &p.Category, &p.ImageURL, &p.Available, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	query := `SELECT id, name, localized_name, description, localized_description, price, category, image_url, available, featured, created_at, updated_at
              FROM products ORDER BY category, name`
	if availableOnly {
		query = `SELECT id, name, localized_name, description, localized_description, price, category, image_url, available, featured, created_at, updated_at
                 FROM products WHERE available ORDER BY category, name`
	}
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.LocalizedName, &p.Description, &p.LocalizedDescription,
			&p.Price, &p.Category, &p.ImageURL, &p.Available, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, product model.Product) (*model.Product, error) {
	const query = `UPDATE products
                   SET name=$2, localized_name=$3, description=$4, localized_description=$5,
                       price=$6, category=$7, image_url=$8, available=$9, featured=$10, updated_at=NOW()
                   WHERE id=$1
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.LocalizedName, product.Description, product.LocalizedDescription,
		product.Price, product.Category, product.ImageURL, product.Available, product.Featured,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- StaffRepository implementation ---

func (r *staffRepository) Create(ctx context.Context, login, passwordHash string) (*model.Staff, error) {
	const query = `INSERT INTO staff (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var staff model.Staff
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&staff.ID, &staff.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	staff.Login = login
	staff.PasswordHash = passwordHash
	return &staff, nil
}

func (r *staffRepository) GetByLogin(ctx context.Context, login string) (*model.Staff, error) {
	const query = `SELECT id, login, password_hash, created_at FROM staff WHERE login=$1`
	var staff model.Staff
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&staff.ID, &staff.Login, &staff.PasswordHash, &staff.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	const query = `SELECT id, login, password_hash, created_at FROM staff WHERE id=$1`
	var staff model.Staff
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&staff.ID, &staff.Login, &staff.PasswordHash, &staff.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
