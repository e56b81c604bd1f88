package interceptors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptor_PropagatesMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestId, "req-1",
		constants.HeaderXIdempotencyKey, "idem-1",
	))

	var seenReqID, seenIdem string
	handler := func(ctx context.Context, req any) (any, error) {
		seenReqID, _ = ctx.Value(constants.ContextKeyRequestID).(string)
		seenIdem, _ = ctx.Value(constants.ContextKeyIdempotencyKey).(string)
		return "ok", nil
	}

	resp, err := interceptors.TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-1", seenReqID)
	assert.Equal(t, "idem-1", seenIdem)
}

func TestGetMetadataValue(t *testing.T) {
	t.Run("context value wins", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.HeaderXRequestId, "from-md"))
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, "from-ctx")
		assert.Equal(t, "from-ctx", interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId))
	})

	t.Run("incoming metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.HeaderXRequestId, "from-md"))
		assert.Equal(t, "from-md", interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId))
	})

	t.Run("outgoing metadata", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), constants.HeaderXIdempotencyKey, "out")
		assert.Equal(t, "out", interceptors.GetMetadataValue(ctx, constants.HeaderXIdempotencyKey))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, interceptors.GetMetadataValue(context.Background(), constants.HeaderXRequestId))
	})
}
