package constants

// ContextKey is the type of context keys set by this module, so they cannot
// collide with string keys from other packages.
type ContextKey string

const (
	HeaderXRequestId      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	ContextKeyRequestID      ContextKey = HeaderXRequestId
	ContextKeyIdempotencyKey ContextKey = HeaderXIdempotencyKey
)
