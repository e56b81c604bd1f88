package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a placement did not end in a stored order.
type ErrorKind string

const (
	KindInvalidRequest       ErrorKind = "INVALID_REQUEST"
	KindOutOfStock           ErrorKind = "OUT_OF_STOCK"
	KindInventoryUnavailable ErrorKind = "INVENTORY_UNAVAILABLE"
	KindPersistenceFailed    ErrorKind = "PERSISTENCE_FAILED"
)

// Sentinels for errors.Is. Any *PlacementError matches the sentinel of the
// same kind regardless of its order number, item codes or cause.
var (
	ErrInvalidRequest       = &PlacementError{Kind: KindInvalidRequest}
	ErrOutOfStock           = &PlacementError{Kind: KindOutOfStock}
	ErrInventoryUnavailable = &PlacementError{Kind: KindInventoryUnavailable}
	ErrPersistenceFailed    = &PlacementError{Kind: KindPersistenceFailed}
)

var ErrOrderNotFound = errors.New("order not found")

// PlacementError is the terminal failure of a single placement.
type PlacementError struct {
	Kind        ErrorKind
	OrderNumber string
	// ItemCodes lists the out-of-stock codes for KindOutOfStock.
	ItemCodes []string
	Err       error
}

func (e *PlacementError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.describe())
	if e.OrderNumber != "" {
		fmt.Fprintf(&b, " (order %s)", e.OrderNumber)
	}
	if len(e.ItemCodes) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.ItemCodes, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *PlacementError) Unwrap() error { return e.Err }

func (e *PlacementError) Is(target error) bool {
	t, ok := target.(*PlacementError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first PlacementError in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var pe *PlacementError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func (k ErrorKind) describe() string {
	switch k {
	case KindInvalidRequest:
		return "invalid order request"
	case KindOutOfStock:
		return "product is not in stock"
	case KindInventoryUnavailable:
		return "inventory unavailable"
	case KindPersistenceFailed:
		return "order could not be saved"
	default:
		return "order placement failed"
	}
}
