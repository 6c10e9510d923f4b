// Package httpapi is the optional admin surface: liveness, readiness,
// a status snapshot and Prometheus metrics. It is a sidecar for
// operators; the agent-facing surface is the MCP stdio server.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"llamamcp/pkg/types"
)

// Service defines what the admin API needs from the rest of the
// process: managed child state and upstream health.
type Service interface {
	Running() (pid int, ok bool)
	Health(ctx context.Context) (*types.Health, error)
}

// Options tunes the admin mux. The zero value is a sane default.
type Options struct {
	CORSEnabled bool
	CORSOrigins []string
	Log         zerolog.Logger
}

// statusResponse is the /status snapshot.
type statusResponse struct {
	ProcessRunning bool          `json:"process_running"`
	ProcessPID     int           `json:"process_pid,omitempty"`
	Upstream       *types.Health `json:"upstream,omitempty"`
	UpstreamError  string        `json:"upstream_error,omitempty"`
}

func NewMux(svc Service, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if opts.CORSEnabled {
		origins := opts.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Ready means the upstream llama-server answers its health check
	// and reports ok. A loading or unreachable upstream is not ready.
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.Health(r.Context())
		if err == nil && h.Status == types.HealthOK {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		if err != nil {
			opts.Log.Debug().Err(err).Msg("readiness probe upstream error")
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		var resp statusResponse
		if pid, ok := svc.Running(); ok {
			resp.ProcessRunning = true
			resp.ProcessPID = pid
		}
		h, err := svc.Health(r.Context())
		if err != nil {
			resp.UpstreamError = err.Error()
		} else {
			resp.Upstream = h
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
