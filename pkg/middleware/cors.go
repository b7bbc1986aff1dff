package middleware

import "github.com/go-chi/cors"

// CORS возвращает permissive CORS.
func CORS() Middleware {
	return cors.AllowAll().Handler
}
