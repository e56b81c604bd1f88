// Package sqlite is the SQLite implementation of the order store, used for
// local development and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

// Prices are stored as decimal text so they round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    order_number  TEXT PRIMARY KEY,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_line_items (
    order_number  TEXT    NOT NULL REFERENCES orders(order_number) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    sku_code      TEXT    NOT NULL CHECK (sku_code <> ''),
    price         TEXT    NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (order_number, position)
);
`

const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ app.OrderStore = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save commits the order and all of its line items in one transaction.
func (s *Store) Save(ctx context.Context, order *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (order_number, created_at) VALUES (?, ?)`,
		order.OrderNumber, order.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", order.OrderNumber, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_line_items (order_number, position, sku_code, price, quantity) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare line item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range order.LineItems {
		if _, err := stmt.ExecContext(ctx, order.OrderNumber, i, item.SkuCode, item.Price.String(), item.Quantity); err != nil {
			return fmt.Errorf("sqlite: insert line item %d of %q: %w", i, order.OrderNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", order.OrderNumber, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM orders WHERE order_number = ?`, orderNumber,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", orderNumber, err)
	}

	order := &domain.Order{OrderNumber: orderNumber, LineItems: []domain.OrderLineItem{}}
	if order.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse created_at %q: %w", createdAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sku_code, price, quantity FROM order_line_items WHERE order_number = ? ORDER BY position`, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get line items of %q: %w", orderNumber, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderLineItem
		var price string
		if err := rows.Scan(&item.SkuCode, &price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: scan line item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("sqlite: parse price %q: %w", price, err)
		}
		order.LineItems = append(order.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate line items: %w", err)
	}
	return order, nil
}
