// Package placementlog records the terminal outcome of every order placement.
//
// Each entry is written once the outcome is known, never before the inventory
// answer has arrived. The trace_id column lets an operator jump from a row to
// the distributed trace of the request that produced it.
package placementlog

import (
	"time"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
)

// Status is the terminal state a placement ended in.
type Status string

const (
	StatusPersisted            Status = "PERSISTED"
	StatusRejected             Status = "REJECTED"
	StatusInventoryUnavailable Status = "INVENTORY_UNAVAILABLE"
	StatusPersistenceFailed    Status = "PERSISTENCE_FAILED"
	StatusInvalid              Status = "INVALID_REQUEST"
)

// Entry is a single row in the placement_logs table.
type Entry struct {
	OrderNumber string
	Status      Status

	// ItemCodes is a JSON array of the item codes involved: every code for
	// persisted orders, the offending codes for rejected ones.
	ItemCodes string

	ErrorMessage string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}

// StatusFor maps the result of a placement to its terminal state.
func StatusFor(err error) Status {
	if err == nil {
		return StatusPersisted
	}
	switch domain.KindOf(err) {
	case domain.KindOutOfStock:
		return StatusRejected
	case domain.KindPersistenceFailed:
		return StatusPersistenceFailed
	case domain.KindInvalidRequest:
		return StatusInvalid
	default:
		return StatusInventoryUnavailable
	}
}
