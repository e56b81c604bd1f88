package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/httpx/middlewares"
)

// NewRouter returns the order API wrapped in otelhttp, which continues any
// incoming traceparent.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	route := func(method, pattern string, h http.HandlerFunc) {
		r.Method(method, pattern, otelhttp.WithRouteTag(pattern, h))
	}
	route(http.MethodGet, "/healthz", handler.Health)
	route(http.MethodPost, "/api/order", handler.PlaceOrder)
	route(http.MethodGet, "/api/order/{orderNumber}", handler.GetOrder)
	route(http.MethodGet, "/api/order/{orderNumber}/placement", handler.GetPlacement)

	return otelhttp.NewHandler(r, "order-service")
}
