// Package requestctx threads authenticated caller identity through context.
package requestctx

import "context"

// Caller is the authenticated identity attached to a request.
// The admin flag comes from the identity provider, never from the request.
type Caller struct {
	UserID string
	Admin  bool
}

// callerContextKey is the context key for authenticated caller identity.
type callerContextKey struct{}

// WithCaller stores a caller identity in context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller identity stored in context.
// The second return is false when no identity was attached.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	return caller, ok
}
