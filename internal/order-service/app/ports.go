package app

import (
	"context"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
)

// InventoryLookup asks the inventory authority for the stock status of the
// given item codes. A nil slice with a nil error means the authority answered
// with no payload; an empty non-nil slice is an empty answer.
type InventoryLookup interface {
	CheckStock(ctx context.Context, skuCodes []string) ([]domain.InventoryStatus, error)
}

// OrderStore atomically commits an order together with all its line items.
type OrderStore interface {
	Save(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, orderNumber string) (*domain.Order, error)
}

// OrderService is what the inbound adapters depend on.
type OrderService interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
}
