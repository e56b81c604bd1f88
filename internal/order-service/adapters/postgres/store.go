package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_number TEXT PRIMARY KEY,
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_line_items (
		order_number TEXT    NOT NULL REFERENCES orders(order_number) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		sku_code     TEXT    NOT NULL CHECK (sku_code <> ''),
		price        NUMERIC NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		PRIMARY KEY (order_number, position)
	)`,
}

var _ app.OrderStore = (*Store)(nil)

type Store struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, tracer: otel.Tracer("order-service/postgres")}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

// Save commits the order row and every line item in one transaction; any
// failure rolls all of it back.
func (s *Store) Save(ctx context.Context, order *domain.Order) error {
	ctx, span := s.tracer.Start(ctx, "OrderStore.Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.number", order.OrderNumber),
		attribute.Int("order.line_items", len(order.LineItems)),
	)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO orders (order_number, created_at) VALUES ($1, $2)`,
		order.OrderNumber, order.CreatedAt,
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("postgres: insert order %q: %w", order.OrderNumber, err)
	}

	batch := &pgx.Batch{}
	for i, item := range order.LineItems {
		batch.Queue(`INSERT INTO order_line_items (order_number, position, sku_code, price, quantity)
			VALUES ($1, $2, $3, $4::text::numeric, $5)`,
			order.OrderNumber, i, item.SkuCode, item.Price.String(), item.Quantity)
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			span.RecordError(err)
			return fmt.Errorf("postgres: insert line item %d of %q: %w", i, order.OrderNumber, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres: close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("postgres: commit order %q: %w", order.OrderNumber, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order := &domain.Order{OrderNumber: orderNumber, LineItems: []domain.OrderLineItem{}}
	err := s.pool.QueryRow(ctx,
		`SELECT created_at FROM orders WHERE order_number = $1`, orderNumber,
	).Scan(&order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get order %q: %w", orderNumber, err)
	}
	order.CreatedAt = order.CreatedAt.UTC()

	rows, err := s.pool.Query(ctx,
		`SELECT sku_code, price::text, quantity FROM order_line_items WHERE order_number = $1 ORDER BY position`,
		orderNumber)
	if err != nil {
		return nil, fmt.Errorf("postgres: get line items of %q: %w", orderNumber, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderLineItem
		var price string
		if err := rows.Scan(&item.SkuCode, &price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("postgres: scan line item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("postgres: parse price %q: %w", price, err)
		}
		order.LineItems = append(order.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate line items: %w", err)
	}
	return order, nil
}
