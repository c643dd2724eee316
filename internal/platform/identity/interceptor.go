package identity

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hongyangchun/QQClub-sub003/internal/platform/requestctx"
)

// healthServicePrefix exempts health checks from authentication.
const healthServicePrefix = "/grpc.health.v1.Health/"

// UnaryServerInterceptor verifies the bearer token on incoming requests and
// threads the caller identity into the handler context. Requests without a
// token proceed unauthenticated; handlers decide whether a caller is
// required.
func UnaryServerInterceptor(cfg VerifierConfig) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}

		token := bearerTokenFromContext(ctx)
		if token == "" {
			return handler(ctx, req)
		}

		caller, err := VerifyAccessToken(token, cfg)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(requestctx.WithCaller(ctx, caller), req)
	}
}

// bearerTokenFromContext extracts the bearer token from request metadata.
func bearerTokenFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	value := strings.TrimSpace(values[0])
	const prefix = "bearer "
	if len(value) <= len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}
