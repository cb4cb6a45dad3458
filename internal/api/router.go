package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rinhabackend/pessoas-api/internal/middleware"
)

// NewRouter builds the chi router for the pessoa HTTP surface, layering
// chi's own recoverer over the request-id, compression, and Prometheus
// middleware this service carries forward from its ambient stack.
func NewRouter(h *Handlers, prober *Prober) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	wrap := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.RequestID(middleware.PrometheusMetrics(middleware.Compression(fn)))
	}

	r.Post("/pessoas", wrap(h.Create))
	r.Get("/pessoas/{id}", wrap(h.GetByID))
	r.Get("/pessoas", wrap(h.Search))
	r.Get("/contagem-pessoas", wrap(h.Count))

	r.Get("/health", prober.Handler())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
