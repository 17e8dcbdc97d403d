// Command convert-worker answers thread conversion requests over NATS and
// optionally publishes an event for every completed conversion.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/threadtext/engine/convert"
	"github.com/WessleyAI/threadtext/engine/fetch"
	"github.com/WessleyAI/threadtext/pkg/config"
	"github.com/WessleyAI/threadtext/pkg/metrics"
	"github.com/WessleyAI/threadtext/pkg/natsutil"
	"github.com/WessleyAI/threadtext/pkg/resilience"
)

const queueGroup = "threadtext-workers"

// Config holds all environment-based configuration.
type Config struct {
	NATSURL          string
	Subject          string
	EventsSubject    string
	UserAgent        string
	FetchTimeout     time.Duration
	MetricsAddr      string
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

func loadConfig() Config {
	return Config{
		NATSURL:          config.EnvOr("NATS_URL", nats.DefaultURL),
		Subject:          config.EnvOr("CONVERT_SUBJECT", "threadtext.convert"),
		EventsSubject:    config.EnvOr("EVENTS_SUBJECT", "threadtext.events.converted"),
		UserAgent:        config.EnvOr("USER_AGENT", fetch.DefaultUserAgent),
		FetchTimeout:     config.EnvDuration("FETCH_TIMEOUT", fetch.DefaultTimeout),
		MetricsAddr:      config.EnvOr("METRICS_ADDR", ":9091"),
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

	if err := run(loadConfig(), logger); err != nil {
		logger.Error("worker exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("threadtext-worker"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Drain()

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
	if cfg.EventsSubject != "" {
		opts = append(opts, convert.WithEvents(convert.NewNATSPublisher(nc, cfg.EventsSubject)))
	}
	svc := convert.New(fetch.New(fetch.Config{UserAgent: cfg.UserAgent, Timeout: cfg.FetchTimeout}), opts...)

	sub, err := subscribe(nc, cfg, svc, logger)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	logger.Info("worker listening", "subject", cfg.Subject, "queue", queueGroup)

	metricsSrv := serveMetrics(cfg.MetricsAddr, met, logger)
	defer metricsSrv.Close()

	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}

// converter is the slice of convert.Service the worker needs.
type converter interface {
	Convert(ctx context.Context, rawURL string) (*convert.Result, error)
}

func subscribe(nc *nats.Conn, cfg Config, svc converter, logger *slog.Logger) (*nats.Subscription, error) {
	return natsutil.Reply(nc, cfg.Subject, queueGroup,
		handleRequest(svc, cfg.FetchTimeout+5*time.Second, logger),
		func(err error) convert.Envelope { return convert.Failed(err) },
	)
}

// handleRequest converts one request, bounding it by timeout.
func handleRequest(svc converter, timeout time.Duration, logger *slog.Logger) func(context.Context, convert.Request) convert.Envelope {
	return func(ctx context.Context, req convert.Request) convert.Envelope {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		res, err := svc.Convert(ctx, req.URL)
		if err != nil {
			if !errors.Is(err, convert.ErrEmptyURL) {
				logger.Error("convert failed", "url", req.URL, "err", err)
			}
			return convert.Failed(err)
		}
		return convert.OK(res)
	}
}
