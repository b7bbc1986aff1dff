// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YaganovValera/httplifecycle/internal/response"
)

type pingResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// RegisterRoutes mounts the application routes. It must run before Start.
func RegisterRoutes(r chi.Router, service, version string) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			response.JSON(w, pingResponse{Status: "ok", Service: service, Version: version})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method+" not allowed")
	})
}
