package interceptors

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors/constants"
)

// GetMetadataValue looks key up in the context values set by the HTTP
// middleware or the server interceptor, then in incoming and outgoing gRPC
// metadata. It returns "" when key is absent everywhere.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(constants.ContextKey(key)).(string); ok && v != "" {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
