package server

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/trivialabs/trivia-api/internal/config"
	"github.com/trivialabs/trivia-api/internal/trivia"
)

// New wires the trivia routes plus health and metrics endpoints into an
// http.Server with the shared middleware chain applied.
func New(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, handlers *trivia.HTTPHandlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			logger.Error().Err(err).Msg("database ping failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	handlers.Register(mux)

	var handler http.Handler = mux
	handler = instrument(handler)
	handler = requestLogger(logger, handler)
	handler = corsHandler(cfg.CORS, handler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}
