package kit

import "context"

// Transports a request can arrive through. Endpoint logs carry one of them.
const (
	TransportHTTP = "http"
	TransportMCP  = "mcp"
)

// ctxKey keeps the kit values out of reach of other packages' context keys.
type ctxKey int

const (
	transportKey ctxKey = iota
	requestIDKey
)

// WithTransport tags ctx with the transport that received the request.
func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, transportKey, transport)
}

// GetTransport returns the transport of ctx. Untagged contexts come from plain
// HTTP handlers, so the default is TransportHTTP.
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(transportKey).(string); ok && v != "" {
		return v
	}
	return TransportHTTP
}

// WithRequestID attaches the correlation id echoed in X-Request-ID and in logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id of ctx, or "" if none was attached.
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
