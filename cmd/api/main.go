// Package main implements the threadtext HTTP API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/threadtext/engine/convert"
	"github.com/WessleyAI/threadtext/engine/fetch"
	"github.com/WessleyAI/threadtext/pkg/config"
	"github.com/WessleyAI/threadtext/pkg/metrics"
	"github.com/WessleyAI/threadtext/pkg/mid"
	"github.com/WessleyAI/threadtext/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port             string
	CORSOrigin       string
	UserAgent        string
	FetchTimeout     time.Duration
	NATSURL          string
	EventsSubject    string
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

func loadConfig() Config {
	return Config{
		Port:             config.EnvOr("PORT", "8080"),
		CORSOrigin:       config.EnvOr("CORS_ORIGIN", "*"),
		UserAgent:        config.EnvOr("USER_AGENT", fetch.DefaultUserAgent),
		FetchTimeout:     config.EnvDuration("FETCH_TIMEOUT", fetch.DefaultTimeout),
		NATSURL:          config.EnvOr("NATS_URL", ""),
		EventsSubject:    config.EnvOr("EVENTS_SUBJECT", "threadtext.events.converted"),
		BreakerThreshold: config.EnvInt("BREAKER_THRESHOLD", resilience.DefaultBreakerOpts.FailThreshold),
		BreakerTimeout:   config.EnvDuration("BREAKER_TIMEOUT", resilience.DefaultBreakerOpts.Timeout),
	}
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel()}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := metrics.New()
	opts := []convert.Option{
		convert.WithMetrics(met),
		convert.WithLogger(logger),
		convert.WithBreaker(resilience.NewBreaker(resilience.BreakerOpts{
			FailThreshold: cfg.BreakerThreshold,
			Timeout:       cfg.BreakerTimeout,
			Trips:         convert.UpstreamFailure,
		})),
	}

	// --- Optional NATS event stream ---
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("threadtext-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()
		opts = append(opts, convert.WithEvents(convert.NewNATSPublisher(nc, cfg.EventsSubject)))
		logger.Info("publishing conversion events", "subject", cfg.EventsSubject)
	}

	svc := convert.New(fetchClient(cfg), opts...)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHandler(svc, met, cfg.CORSOrigin, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func fetchClient(cfg Config) *fetch.Client {
	return fetch.New(fetch.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.FetchTimeout,
	})
}

// converter is the slice of convert.Service the handlers need.
type converter interface {
	Convert(ctx context.Context, rawURL string) (*convert.Result, error)
}

func newHandler(svc converter, met *metrics.Registry, corsOrigin string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/convert", handleConvert(svc, logger))
	mux.HandleFunc("/api/convert", handleMethodNotAllowed)
	mux.Handle("GET /metrics", met.Handler())

	return mid.Chain(mux,
		mid.Recover(logger),
		mid.RequestID(),
		mid.Logger(logger),
		mid.Metrics(met),
		mid.CORS(corsOrigin),
		mid.OTel("threadtext-api"),
	)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "POST, OPTIONS")
	writeJSON(w, http.StatusMethodNotAllowed, convert.Envelope{Error: "Method not allowed"})
}

func handleConvert(svc converter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req convert.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, convert.Failed(convert.ErrEmptyURL))
			return
		}

		res, err := svc.Convert(r.Context(), req.URL)
		switch {
		case errors.Is(err, convert.ErrEmptyURL):
			writeJSON(w, http.StatusBadRequest, convert.Failed(err))
		case err != nil:
			logger.Error("convert failed", "url", req.URL, "err", err, "request_id", mid.RequestIDFrom(r.Context()))
			writeJSON(w, http.StatusInternalServerError, convert.Failed(err))
		default:
			writeJSON(w, http.StatusOK, convert.OK(res))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
