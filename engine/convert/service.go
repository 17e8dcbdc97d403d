package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WessleyAI/threadtext/engine/thread"
	"github.com/WessleyAI/threadtext/pkg/fn"
	"github.com/WessleyAI/threadtext/pkg/metrics"
	"github.com/WessleyAI/threadtext/pkg/resilience"
)

// Service converts thread URLs into transcripts. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	breaker *resilience.Breaker
	metrics *metrics.Registry
	events  Publisher
	logger  *slog.Logger
	now     func() time.Time

	pipeline fn.Stage[string, *Result]
}

// Option configures a Service.
type Option func(*Service)

// WithBreaker guards fetches with b. An open breaker fails the fetch
// immediately.
func WithBreaker(b *resilience.Breaker) Option { return func(s *Service) { s.breaker = b } }

// WithMetrics records conversion metrics in m.
func WithMetrics(m *metrics.Registry) Option { return func(s *Service) { s.metrics = m } }

// WithEvents publishes a ConversionEvent after each successful conversion.
func WithEvents(p Publisher) Option { return func(s *Service) { s.events = p } }

// WithLogger sets the progress logger. The default discards output.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// New creates a Service that fetches with f.
func New(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher: f,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.pipeline = s.build()
	return s
}

// parsed is the post and its flat comment list, before ranking.
type parsed struct {
	url      string
	post     thread.PostMetadata
	comments []thread.CommentRecord
}

type fetched struct {
	url    string
	thread thread.Thread
}

func (s *Service) build() fn.Stage[string, *Result] {
	normalize := fn.TracedStage("normalize", fn.MapStage(thread.NormalizeURL))

	fetch := fn.TryStage(s.fetch)
	if s.breaker != nil {
		fetch = guarded(s.breaker, fetch)
	}
	fetch = fn.TracedStage("fetch", fetch)

	flatten := fn.TracedStage("flatten", fn.MapStage(func(f fetched) parsed {
		return parsed{
			url:      f.url,
			post:     thread.ExtractPostMetadata(f.thread),
			comments: thread.FlattenComments(f.thread),
		}
	}))

	rank := fn.TracedStage("rank", fn.MapStage(func(p parsed) parsed {
		p.comments = thread.RankByUpvotes(p.comments)
		return p
	}))

	render := fn.TracedStage("render", fn.MapStage(func(p parsed) *Result {
		return &Result{
			Output:       thread.RenderReport(p.post, p.comments),
			PostInfo:     p.post,
			CommentCount: len(p.comments),
			SourceURL:    p.url,
		}
	}))

	return fn.Then(fn.Then(fn.Then(fn.Then(normalize, fetch), flatten), rank), render)
}

func (s *Service) fetch(ctx context.Context, url string) (fetched, error) {
	s.logger.Info("fetching", "url", url)
	t, err := s.fetcher.FetchThread(ctx, url)
	if err != nil {
		return fetched{}, err
	}
	return fetched{url: url, thread: t}, nil
}

// guarded runs stage through b. A call rejected by an open breaker is
// reported as a FetchError for url.
func guarded(b *resilience.Breaker, stage fn.Stage[string, fetched]) fn.Stage[string, fetched] {
	stage = resilience.BreakerStage(b, stage)
	return func(ctx context.Context, url string) fn.Result[fetched] {
		res := stage(ctx, url)
		if _, err := res.Unwrap(); errors.Is(err, resilience.ErrCircuitOpen) {
			return fn.Err[fetched](&thread.FetchError{URL: url, Err: err})
		}
		return res
	}
}

// Convert runs the full pipeline for rawURL.
func (s *Service) Convert(ctx context.Context, rawURL string) (*Result, error) {
	start := s.now()
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		s.observe(metrics.OutcomeInvalid, start, 0)
		return nil, ErrEmptyURL
	}

	res, err := s.pipeline(ctx, rawURL).Unwrap()
	if err != nil {
		s.observe(metrics.OutcomeFetchError, start, 0)
		return nil, err
	}
	s.observe(metrics.OutcomeOK, start, res.CommentCount)
	s.logger.Info("found comments", "url", res.SourceURL, "count", res.CommentCount)

	if s.events != nil {
		ev := ConversionEvent{
			ID:           uuid.NewString(),
			URL:          res.SourceURL,
			Title:        res.PostInfo.Title,
			CommentCount: res.CommentCount,
			ConvertedAt:  s.now().UTC(),
		}
		if err := s.events.PublishConversion(ctx, ev); err != nil {
			s.logger.Warn("publish conversion event", "err", err)
		}
	}
	return res, nil
}

func (s *Service) observe(outcome string, start time.Time, comments int) {
	if s.metrics != nil {
		s.metrics.ObserveConversion(outcome, start, comments)
	}
}
