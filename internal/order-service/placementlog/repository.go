package placementlog

import (
	"context"
	"errors"
)

var ErrEntryNotFound = errors.New("placement log entry not found")

// Repository persists placement log entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader looks up recorded outcomes. Latest returns ErrEntryNotFound when
// nothing was recorded for the order number.
type Reader interface {
	Latest(ctx context.Context, orderNumber string) (*Entry, error)
}
