package httpx

import (
	"encoding/json"
	"time"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"
)

func orderRequestFromDTO(req PlaceOrderRequest) domain.OrderRequest {
	items := make([]domain.LineItemRequest, len(req.OrderLineItems))
	for i, it := range req.OrderLineItems {
		items[i] = domain.LineItemRequest{
			SkuCode:  it.SkuCode,
			Price:    it.Price,
			Quantity: it.Quantity,
		}
	}
	return domain.OrderRequest{LineItems: items}
}

func mapOrderToResponse(o *domain.Order) OrderResponse {
	items := make([]OrderLineItemDTO, len(o.LineItems))
	for i, it := range o.LineItems {
		items[i] = OrderLineItemDTO{
			SkuCode:  it.SkuCode,
			Price:    it.Price,
			Quantity: it.Quantity,
		}
	}
	return OrderResponse{
		OrderNumber:    o.OrderNumber,
		OrderLineItems: items,
		Total:          o.Total(),
		CreatedAt:      o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapPlacementToResponse(e *placementlog.Entry) PlacementResponse {
	itemCodes := json.RawMessage(e.ItemCodes)
	if !json.Valid(itemCodes) {
		itemCodes = json.RawMessage("[]")
	}
	return PlacementResponse{
		OrderNumber:  e.OrderNumber,
		Status:       string(e.Status),
		ItemCodes:    itemCodes,
		ErrorMessage: e.ErrorMessage,
		TraceID:      e.TraceID,
		SpanID:       e.SpanID,
		RecordedAt:   e.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
}
