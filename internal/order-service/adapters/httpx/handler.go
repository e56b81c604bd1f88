package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/cache"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors/constants"
)

const (
	msgOrderPlaced   = "Order Placed Successfully"
	msgOrderReplayed = "Order Already Placed"
	msgOutOfStock    = "Product is not in stock, please try again later"

	idempotencyOperation = "place-order"
	// Value held under an idempotency key while its placement is running.
	pendingMarker = "pending"

	maxBodyBytes = 1 << 20
)

// Handler serves the order placement HTTP API.
type Handler struct {
	orders         app.OrderService
	idempotency    cache.Cache // nil-safe: replay disabled if nil
	idempotencyTTL time.Duration
	placements     placementlog.Reader // nil-safe
}

// NewHandler builds the handler. idem may be nil.
func NewHandler(orders app.OrderService, idem cache.Cache, idempotencyTTL time.Duration) *Handler {
	return &Handler{
		orders:         orders,
		idempotency:    idem,
		idempotencyTTL: idempotencyTTL,
	}
}

// WithPlacementLog enables GET /api/order/{orderNumber}/placement.
func (h *Handler) WithPlacementLog(r placementlog.Reader) *Handler {
	h.placements = r
	return h
}

// PlaceOrder validates the request, replays a previous result for a known
// idempotency key, and otherwise places the order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlaceOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", fmt.Sprintf("limit is %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	idemKey, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	prior, held := h.claim(ctx, idemKey)
	switch prior {
	case "":
	case pendingMarker:
		writeError(w, http.StatusConflict, "request_in_progress", "an order with this idempotency key is being placed")
		return
	default:
		writeJSON(w, http.StatusOK, PlaceOrderResponse{OrderNumber: prior, Message: msgOrderReplayed})
		return
	}

	order, err := h.orders.PlaceOrder(ctx, orderRequestFromDTO(req))
	if err != nil {
		if held {
			h.release(ctx, idemKey)
		}
		h.writePlacementError(w, err)
		return
	}

	if held {
		h.remember(ctx, idemKey, order.OrderNumber)
	}
	writeJSON(w, http.StatusCreated, PlaceOrderResponse{OrderNumber: order.OrderNumber, Message: msgOrderPlaced})
}

// GetOrder returns a stored order by its order number.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, "order_number_required", "")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderNumber)
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", orderNumber)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "get order failed", "order_number", orderNumber, "error", err)
		writeError(w, http.StatusInternalServerError, "order_lookup_failed", "")
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// GetPlacement returns the last recorded placement outcome for an order
// number, including rejected placements that never produced an order.
func (h *Handler) GetPlacement(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if h.placements == nil {
		writeError(w, http.StatusNotFound, "placement_log_disabled", "")
		return
	}

	entry, err := h.placements.Latest(r.Context(), orderNumber)
	if errors.Is(err, placementlog.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "placement_not_found", orderNumber)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "get placement failed", "order_number", orderNumber, "error", err)
		writeError(w, http.StatusInternalServerError, "placement_lookup_failed", "")
		return
	}

	writeJSON(w, http.StatusOK, mapPlacementToResponse(entry))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writePlacementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		writeError(w, http.StatusBadRequest, "out_of_stock", msgOutOfStock)
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrInventoryUnavailable):
		writeError(w, http.StatusServiceUnavailable, "inventory_unavailable", "inventory service is unavailable, please retry")
	default:
		writeError(w, http.StatusInternalServerError, "order_not_saved", "order could not be saved")
	}
}

// claim reserves key for this request with SetNX. When the key is already
// taken it returns what is stored under it: an order number, or
// pendingMarker while the first request is still running. Cache failures
// disable replay for this request.
func (h *Handler) claim(ctx context.Context, key string) (prior string, held bool) {
	if h.idempotency == nil || key == "" {
		return "", false
	}
	cacheKey := h.idempotency.GenerateKey(idempotencyOperation, key)
	ok, err := h.idempotency.SetNX(ctx, cacheKey, pendingMarker, h.idempotencyTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency claim failed", "error", err)
		return "", false
	}
	if ok {
		return "", true
	}
	prior, err = h.idempotency.Get(ctx, cacheKey)
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return pendingMarker, false
	}
	return prior, false
}

// remember replaces the pending marker with the placed order number.
func (h *Handler) remember(ctx context.Context, key, orderNumber string) {
	cacheKey := h.idempotency.GenerateKey(idempotencyOperation, key)
	if err := h.idempotency.Set(ctx, cacheKey, orderNumber, h.idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "order_number", orderNumber, "error", err)
		h.release(ctx, key)
	}
}

// release drops the claim so the client may retry.
func (h *Handler) release(ctx context.Context, key string) {
	if err := h.idempotency.Delete(ctx, h.idempotency.GenerateKey(idempotencyOperation, key)); err != nil {
		slog.WarnContext(ctx, "idempotency release failed", "error", err)
	}
}

func validate(req PlaceOrderRequest) error {
	if len(req.OrderLineItems) == 0 {
		return errors.New("orderLineItemsDtoList must contain at least one item")
	}
	var problems []string
	for i, it := range req.OrderLineItems {
		if strings.TrimSpace(it.SkuCode) == "" {
			problems = append(problems, fmt.Sprintf("item %d: skuCode is required", i))
		}
		if it.Price.IsNegative() {
			problems = append(problems, fmt.Sprintf("item %d: price must not be negative", i))
		}
		if it.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("item %d: quantity must be at least 1", i))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
