// Package sqlite provides a SQLite-backed implementation of
// placementlog.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS placement_logs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    order_number   TEXT NOT NULL,
    status         TEXT NOT NULL,
    item_codes     TEXT NOT NULL DEFAULT '[]',
    error_message  TEXT NOT NULL DEFAULT '',
    trace_id       TEXT NOT NULL DEFAULT '',
    span_id        TEXT NOT NULL DEFAULT '',
    recorded_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_placement_logs_order ON placement_logs(order_number, recorded_at);
CREATE INDEX IF NOT EXISTS idx_placement_logs_trace ON placement_logs(trace_id);
`

var ErrNotFound = placementlog.ErrEntryNotFound

var (
	_ placementlog.Repository = (*Repository)(nil)
	_ placementlog.Reader     = (*Repository)(nil)
)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply placement log schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, entry *placementlog.Entry) error {
	const q = `
		INSERT INTO placement_logs
			(order_number, status, item_codes, error_message, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderNumber,
		string(entry.Status),
		entry.ItemCodes,
		entry.ErrorMessage,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save placement log for %q: %w", entry.OrderNumber, err)
	}
	return nil
}

// Latest returns the most recent entry for orderNumber.
func (r *Repository) Latest(ctx context.Context, orderNumber string) (*placementlog.Entry, error) {
	const q = `
		SELECT order_number, status, item_codes, error_message, trace_id, span_id, recorded_at
		FROM   placement_logs
		WHERE  order_number = ?
		ORDER  BY recorded_at DESC, id DESC
		LIMIT  1`

	var entry placementlog.Entry
	var recordedAt string
	err := r.db.QueryRowContext(ctx, q, orderNumber).Scan(
		&entry.OrderNumber,
		&entry.Status,
		&entry.ItemCodes,
		&entry.ErrorMessage,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest placement log for %q: %w", orderNumber, err)
	}

	entry.RecordedAt, err = parseTime(recordedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
