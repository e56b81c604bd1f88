package inventoryservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gideon-jacob/online-shop-microservices/internal/inventory-service/domain"
)

// Stock is an in-memory SKU to quantity table.
type Stock struct {
	mu    sync.RWMutex
	items map[string]int32
}

// NewStock seeds the table from levels. The map is copied.
func NewStock(levels map[string]int32) *Stock {
	items := make(map[string]int32, len(levels))
	for sku, qty := range levels {
		items[sku] = qty
	}
	return &Stock{items: items}
}

// Check returns one status per submitted code, in submission order.
// Unknown codes are reported as out of stock.
func (s *Stock) Check(ctx context.Context, skuCodes []string) []domain.StockStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]domain.StockStatus, len(skuCodes))
	for i, code := range skuCodes {
		qty, ok := s.items[code]
		if !ok {
			slog.DebugContext(ctx, "unknown sku", "sku_code", code)
		}
		statuses[i] = domain.StockStatus{SkuCode: code, IsInStock: qty > 0}
	}
	return statuses
}

// Set overwrites the quantity of one SKU.
func (s *Stock) Set(item domain.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.SkuCode] = item.Quantity
	slog.Info("stock level updated", "sku_code", item.SkuCode, "quantity", item.Quantity)
}

func (s *Stock) Snapshot() []domain.StockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.StockItem, 0, len(s.items))
	for sku, qty := range s.items {
		items = append(items, domain.StockItem{SkuCode: sku, Quantity: qty})
	}
	return items
}
