package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"
)

const DefaultInventoryTimeout = 5 * time.Second

var (
	errNoLineItems         = errors.New("order has no line items")
	errNoInventoryResponse = errors.New("inventory service returned no response")
)

// Ensure PlacementService implements the port at compile time.
var _ OrderService = (*PlacementService)(nil)

// PlacementService places orders: it asks the inventory authority about every
// line and stores the order only when all of them are in stock.
type PlacementService struct {
	inventory        InventoryLookup
	store            OrderStore
	placementLog     placementlog.Repository // nil-safe
	inventoryTimeout time.Duration
	newOrderNumber   func() string
	tracer           trace.Tracer
}

// NewPlacementService wires the service. placementLog may be nil, in which
// case outcomes are not recorded. A non-positive timeout falls back to
// DefaultInventoryTimeout.
func NewPlacementService(
	inv InventoryLookup,
	store OrderStore,
	placementLog placementlog.Repository,
	inventoryTimeout time.Duration,
) *PlacementService {
	if inventoryTimeout <= 0 {
		inventoryTimeout = DefaultInventoryTimeout
	}
	return &PlacementService{
		inventory:        inv,
		store:            store,
		placementLog:     placementLog,
		inventoryTimeout: inventoryTimeout,
		newOrderNumber:   uuid.NewString,
		tracer:           otel.Tracer("order-service/app"),
	}
}

// PlaceOrder runs one placement to a terminal state. Every failure is a
// *domain.PlacementError and nothing is stored unless it returns nil.
func (s *PlacementService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	if len(req.LineItems) == 0 {
		err := &domain.PlacementError{Kind: domain.KindInvalidRequest, Err: errNoLineItems}
		s.finish(ctx, span, "", nil, err)
		return nil, err
	}

	order := domain.NewOrder(s.newOrderNumber(), req)
	skuCodes := order.SkuCodes()
	span.SetAttributes(
		attribute.String("order.number", order.OrderNumber),
		attribute.StringSlice("order.sku_codes", skuCodes),
	)

	slog.InfoContext(ctx, "calling inventory service", "order_number", order.OrderNumber, "sku_codes", skuCodes)

	statuses, err := s.checkStock(ctx, skuCodes)
	if err != nil {
		pErr := &domain.PlacementError{
			Kind:        domain.KindInventoryUnavailable,
			OrderNumber: order.OrderNumber,
			Err:         err,
		}
		s.finish(ctx, span, order.OrderNumber, skuCodes, pErr)
		return nil, pErr
	}

	if missing := outOfStock(statuses); len(missing) > 0 {
		pErr := &domain.PlacementError{
			Kind:        domain.KindOutOfStock,
			OrderNumber: order.OrderNumber,
			ItemCodes:   missing,
		}
		s.finish(ctx, span, order.OrderNumber, missing, pErr)
		return nil, pErr
	}

	if err := s.store.Save(ctx, order); err != nil {
		pErr := &domain.PlacementError{
			Kind:        domain.KindPersistenceFailed,
			OrderNumber: order.OrderNumber,
			Err:         err,
		}
		s.finish(ctx, span, order.OrderNumber, skuCodes, pErr)
		return nil, pErr
	}

	s.finish(ctx, span, order.OrderNumber, skuCodes, nil)
	return order, nil
}

func (s *PlacementService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.store.Get(ctx, orderNumber)
}

// checkStock is the single blocking call of a placement. Any answer that does
// not cover the requested codes one-to-one is treated as no answer.
func (s *PlacementService) checkStock(ctx context.Context, skuCodes []string) ([]domain.InventoryStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.inventoryTimeout)
	defer cancel()

	statuses, err := s.inventory.CheckStock(ctx, skuCodes)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		return nil, errNoInventoryResponse
	}
	if err := matchStatuses(skuCodes, statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func matchStatuses(skuCodes []string, statuses []domain.InventoryStatus) error {
	if len(statuses) != len(skuCodes) {
		return fmt.Errorf("inventory returned %d statuses for %d items", len(statuses), len(skuCodes))
	}
	pending := make(map[string]int, len(skuCodes))
	for _, code := range skuCodes {
		pending[code]++
	}
	for _, st := range statuses {
		if pending[st.SkuCode] == 0 {
			return fmt.Errorf("inventory returned unexpected status for %q", st.SkuCode)
		}
		pending[st.SkuCode]--
	}
	return nil
}

func outOfStock(statuses []domain.InventoryStatus) []string {
	var missing []string
	for _, st := range statuses {
		if !st.InStock {
			missing = append(missing, st.SkuCode)
		}
	}
	return missing
}

// finish logs the outcome, marks the span and appends to the placement log.
// It runs only once the outcome is final.
func (s *PlacementService) finish(ctx context.Context, span trace.Span, orderNumber string, skuCodes []string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
		slog.WarnContext(ctx, "order not placed",
			"order_number", orderNumber,
			"kind", string(domain.KindOf(err)),
			"error", err,
		)
	} else {
		slog.InfoContext(ctx, "order placed", "order_number", orderNumber, "line_items", len(skuCodes))
	}

	if s.placementLog == nil || orderNumber == "" {
		return
	}
	if logErr := s.placementLog.Save(ctx, placementlog.NewEntry(ctx, orderNumber, skuCodes, err)); logErr != nil {
		slog.ErrorContext(ctx, "failed to record placement outcome", "order_number", orderNumber, "error", logErr)
	}
}
