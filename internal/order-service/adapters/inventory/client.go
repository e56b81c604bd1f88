// Package inventory is the HTTP adapter for the inventory lookup port.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors/constants"
)

const inventoryPath = "/api/inventory"

var _ app.InventoryLookup = (*Client)(nil)

// StockResponse is one element of the inventory service's JSON answer.
type StockResponse struct {
	SkuCode   string `json:"skuCode"`
	IsInStock bool   `json:"isInStock"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the inventory service at baseURL
// (e.g. "http://inventory-service:8082"). httpClient may be nil. Its
// transport is wrapped with otelhttp so every call gets a client span and
// carries traceparent; deadlines come from the caller's context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	var hc http.Client
	if httpClient != nil {
		hc = *httpClient
	}
	transport := hc.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(transport)
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &hc,
	}
}

// CheckStock issues GET /api/inventory?skuCode=..&skuCode=.. with the codes in
// order, duplicates included. A JSON null or an empty body yields (nil, nil).
func (c *Client) CheckStock(ctx context.Context, skuCodes []string) ([]domain.InventoryStatus, error) {
	u, err := url.Parse(c.baseURL + inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("inventory: parse url: %w", err)
	}
	q := url.Values{}
	for _, code := range skuCodes {
		q.Add("skuCode", code)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("inventory: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId); reqID != "" {
		req.Header.Set(constants.HeaderXRequestId, reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory: call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("inventory: unexpected status %d", resp.StatusCode)
	}

	var body []StockResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("inventory: decode response: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	statuses := make([]domain.InventoryStatus, len(body))
	for i, r := range body {
		statuses[i] = domain.InventoryStatus{SkuCode: r.SkuCode, InStock: r.IsInStock}
	}
	return statuses, nil
}
