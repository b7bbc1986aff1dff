// Package middleware holds the net/http middleware chain used by the
// lifecycle-managed server.
package middleware

import "net/http"

// Middleware is the standard net/http decorator shape used across the module.
type Middleware = func(http.Handler) http.Handler

// Compose chains mws so that the first one is the outermost.
func Compose(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// statusWriter позволяет перехватить статус ответа.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }
