package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inventoryservice "github.com/gideon-jacob/online-shop-microservices/internal/inventory-service"
	"github.com/gideon-jacob/online-shop-microservices/internal/inventory-service/domain"
)

type Handler struct {
	stock *inventoryservice.Stock
}

func NewHandler(stock *inventoryservice.Stock) *Handler {
	return &Handler{stock: stock}
}

type stockLevelDTO struct {
	SkuCode  string `json:"skuCode"`
	Quantity int32  `json:"quantity"`
}

// CheckStock answers GET /api/inventory?skuCode=A&skuCode=B with one
// status per query value. Comma separated values are also accepted.
func (h *Handler) CheckStock(w http.ResponseWriter, r *http.Request) {
	var codes []string
	for _, v := range r.URL.Query()["skuCode"] {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
	}

	statuses := h.stock.Check(r.Context(), codes)
	slog.InfoContext(r.Context(), "stock checked",
		"request_id", middleware.GetReqID(r.Context()),
		"sku_count", len(codes),
	)
	writeJSON(w, http.StatusOK, statuses)
}

// SetLevel overwrites one SKU's quantity, for arranging local scenarios.
func (h *Handler) SetLevel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int32 `json:"quantity"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil || body.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"quantity\": n}"})
		return
	}
	if *body.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must not be negative"})
		return
	}

	item := domain.StockItem{SkuCode: chi.URLParam(r, "skuCode"), Quantity: *body.Quantity}
	h.stock.Set(item)
	writeJSON(w, http.StatusOK, stockLevelDTO{SkuCode: item.SkuCode, Quantity: item.Quantity})
}

// Levels lists every known SKU sorted by code.
func (h *Handler) Levels(w http.ResponseWriter, _ *http.Request) {
	items := h.stock.Snapshot()
	sort.Slice(items, func(i, j int) bool { return items[i].SkuCode < items[j].SkuCode })

	levels := make([]stockLevelDTO, len(items))
	for i, it := range items {
		levels[i] = stockLevelDTO{SkuCode: it.SkuCode, Quantity: it.Quantity}
	}
	writeJSON(w, http.StatusOK, levels)
}

// NewRouter returns the stub API wrapped in otelhttp so calls from the order
// service join the caller's trace.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	route := func(method, pattern string, fn http.HandlerFunc) {
		r.Method(method, pattern, otelhttp.WithRouteTag(pattern, fn))
	}
	route(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	route(http.MethodGet, "/api/inventory", h.CheckStock)
	route(http.MethodGet, "/api/inventory/levels", h.Levels)
	route(http.MethodPut, "/api/inventory/{skuCode}", h.SetLevel)

	return otelhttp.NewHandler(r, "inventory-service")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
