// Package statsserver exposes Transmitter/Receiver health and Prometheus
// metrics over HTTP, for a deployed rleutil process.
package statsserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvbrcs2/rle"
)

// StatsFunc returns the current aggregate counters to report at /stats.
type StatsFunc func() rle.Stats

// NewRouter builds the chi router serving:
//
//   - GET /health  - liveness probe
//   - GET /stats   - JSON rle.Stats snapshot
//   - GET /metrics - Prometheus exposition, against reg
func NewRouter(reg *prometheus.Registry, stats StatsFunc) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats())
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
