package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds per-request metadata extracted at the HTTP
// boundary. ClientID is the rate-limiting identity (client IP).
type RequestMeta struct {
	ClientID  string
	RequestID string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
