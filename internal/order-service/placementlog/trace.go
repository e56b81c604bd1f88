package placementlog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers of the span active in a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the hex trace and span ids of the active span, or
// empty strings when ctx carries none.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry for the outcome err of placing orderNumber, with
// the trace info taken from ctx.
func NewEntry(ctx context.Context, orderNumber string, itemCodes []string, err error) *Entry {
	ti := ExtractTraceInfo(ctx)

	codesJSON := "[]"
	if len(itemCodes) > 0 {
		if b, mErr := json.Marshal(itemCodes); mErr == nil {
			codesJSON = string(b)
		}
	}

	var msg string
	if err != nil {
		msg = err.Error()
	}

	return &Entry{
		OrderNumber:  orderNumber,
		Status:       StatusFor(err),
		ItemCodes:    codesJSON,
		ErrorMessage: msg,
		TraceID:      ti.TraceID,
		SpanID:       ti.SpanID,
		RecordedAt:   time.Now().UTC(),
	}
}
