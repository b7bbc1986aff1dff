// Package ctxkeys holds the context keys shared by the logger and the
// HTTP middleware chain.
package ctxkeys

// Key is the type of every value key stored in a request context.
// The string is also used as the log field name.
type Key string

const (
	TraceIDKey   Key = "trace_id"
	RequestIDKey Key = "request_id"
)
