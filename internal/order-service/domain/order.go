package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest is one requested line as supplied by the caller.
type LineItemRequest struct {
	SkuCode  string
	Price    decimal.Decimal
	Quantity int
}

type OrderRequest struct {
	LineItems []LineItemRequest
}

// OrderLineItem is a persisted line of an Order. It is owned by exactly one
// Order and never mutated after creation.
type OrderLineItem struct {
	SkuCode  string
	Price    decimal.Decimal
	Quantity int
}

func (i OrderLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root. It is either stored together with all of its
// line items or not stored at all.
type Order struct {
	OrderNumber string
	LineItems   []OrderLineItem
	CreatedAt   time.Time
}

// NewOrder materializes the request lines 1:1 into order lines, keeping their
// order and values untouched.
func NewOrder(orderNumber string, req OrderRequest) *Order {
	items := make([]OrderLineItem, len(req.LineItems))
	for i, it := range req.LineItems {
		items[i] = OrderLineItem{
			SkuCode:  it.SkuCode,
			Price:    it.Price,
			Quantity: it.Quantity,
		}
	}
	return &Order{
		OrderNumber: orderNumber,
		LineItems:   items,
		CreatedAt:   time.Now().UTC(),
	}
}

// SkuCodes returns the item code of every line in order. Duplicates are kept.
func (o *Order) SkuCodes() []string {
	codes := make([]string, len(o.LineItems))
	for i, it := range o.LineItems {
		codes[i] = it.SkuCode
	}
	return codes
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.LineItems {
		total = total.Add(it.Subtotal())
	}
	return total
}

// InventoryStatus is the stock answer for a single item code.
type InventoryStatus struct {
	SkuCode string
	InStock bool
}
