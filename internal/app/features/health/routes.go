// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /health. HEAD is served too so
// load balancers can probe without reading a body.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Head("/", h.Serve)
	return r
}
