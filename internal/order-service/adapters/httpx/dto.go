package httpx

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	OrderLineItems []OrderLineItemDTO `json:"orderLineItemsDtoList"`
}

type OrderLineItemDTO struct {
	SkuCode  string          `json:"skuCode"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type PlaceOrderResponse struct {
	OrderNumber string `json:"orderNumber"`
	Message     string `json:"message"`
}

type OrderResponse struct {
	OrderNumber    string             `json:"orderNumber"`
	OrderLineItems []OrderLineItemDTO `json:"orderLineItemsDtoList"`
	Total          decimal.Decimal    `json:"total"`
	CreatedAt      string             `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type PlacementResponse struct {
	OrderNumber  string          `json:"orderNumber"`
	Status       string          `json:"status"`
	ItemCodes    json.RawMessage `json:"itemCodes"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	TraceID      string          `json:"traceId,omitempty"`
	SpanID       string          `json:"spanId,omitempty"`
	RecordedAt   string          `json:"recordedAt"`
}
