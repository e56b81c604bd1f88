package placementlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"
)

func TestNewEntry_WithoutSpan(t *testing.T) {
	entry := placementlog.NewEntry(context.Background(), "order-1", nil, nil)

	assert.Equal(t, "order-1", entry.OrderNumber)
	assert.Equal(t, placementlog.StatusPersisted, entry.Status)
	assert.Equal(t, "[]", entry.ItemCodes)
	assert.Empty(t, entry.TraceID)
	assert.Empty(t, entry.SpanID)
	assert.Empty(t, entry.ErrorMessage)
}

func TestNewEntry_CarriesTraceIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	entry := placementlog.NewEntry(ctx, "order-1", []string{"SKU1", "SKU2"}, nil)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", entry.SpanID)
	assert.Equal(t, `["SKU1","SKU2"]`, entry.ItemCodes)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want placementlog.Status
	}{
		{"success", nil, placementlog.StatusPersisted},
		{"out of stock", &domain.PlacementError{Kind: domain.KindOutOfStock}, placementlog.StatusRejected},
		{"unavailable", &domain.PlacementError{Kind: domain.KindInventoryUnavailable}, placementlog.StatusInventoryUnavailable},
		{"persistence", &domain.PlacementError{Kind: domain.KindPersistenceFailed}, placementlog.StatusPersistenceFailed},
		{"invalid", &domain.PlacementError{Kind: domain.KindInvalidRequest}, placementlog.StatusInvalid},
		{"untyped", errors.New("boom"), placementlog.StatusInventoryUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placementlog.StatusFor(tt.err))
		})
	}
}
