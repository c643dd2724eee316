package errors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// localeMetadataKey is the request metadata key carrying the caller's
// preferred locale.
const localeMetadataKey = "accept-language"

// UnaryServerInterceptor converts handler errors into gRPC statuses with
// errdetails, rendering the user-facing message in the locale requested
// via accept-language metadata. Errors that already are gRPC statuses
// pass through untouched.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}
		return resp, HandleError(err, localeFromMetadata(ctx))
	}
}

// localeFromMetadata extracts the first locale tag from the
// accept-language metadata value, dropping any quality parameters.
func localeFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(localeMetadataKey)
	if len(values) == 0 {
		return ""
	}
	value := strings.TrimSpace(values[0])
	if i := strings.IndexAny(value, ",;"); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}
