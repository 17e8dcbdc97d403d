package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/WessleyAI/threadtext/pkg/metrics"
)

// serveMetrics exposes met on addr/metrics in the background.
func serveMetrics(addr string, met *metrics.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", met.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	return srv
}
