// Package convert runs the thread-to-transcript pipeline: normalize the URL,
// fetch the thread, flatten and rank its comments, render the report.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/WessleyAI/threadtext/engine/thread"
)

// ErrEmptyURL is returned when Convert is called without a URL.
var ErrEmptyURL = errors.New("URL is required")

// Fetcher retrieves a decoded thread from its JSON URL.
type Fetcher interface {
	FetchThread(ctx context.Context, url string) (thread.Thread, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (thread.Thread, error)

func (f FetcherFunc) FetchThread(ctx context.Context, url string) (thread.Thread, error) {
	return f(ctx, url)
}

// Publisher receives an event for every successful conversion.
type Publisher interface {
	PublishConversion(ctx context.Context, ev ConversionEvent) error
}

// Result is the outcome of one conversion.
type Result struct {
	Output       string              `json:"output"`
	PostInfo     thread.PostMetadata `json:"post_info"`
	CommentCount int                 `json:"comment_count"`
	SourceURL    string              `json:"source_url"`
}

// ConversionEvent announces a completed conversion.
type ConversionEvent struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	CommentCount int       `json:"comment_count"`
	ConvertedAt  time.Time `json:"converted_at"`
}

// Envelope is the wire response shared by the HTTP and NATS transports.
type Envelope struct {
	Success      bool                 `json:"success"`
	Output       string               `json:"output,omitempty"`
	PostInfo     *thread.PostMetadata `json:"post_info,omitempty"`
	CommentCount int                  `json:"comment_count"`
	Error        string               `json:"error,omitempty"`
}

type envelopeJSON Envelope

// MarshalJSON writes a failed envelope as {"success":false,"error":...} only.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if !e.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Error: e.Error})
	}
	return json.Marshal(envelopeJSON(e))
}

// Request is the wire request shared by the HTTP and NATS transports.
type Request struct {
	URL string `json:"url"`
}

// OK wraps a successful result.
func OK(r *Result) Envelope {
	post := r.PostInfo
	return Envelope{Success: true, Output: r.Output, PostInfo: &post, CommentCount: r.CommentCount}
}

// Failed wraps an error.
func Failed(err error) Envelope {
	return Envelope{Success: false, Error: err.Error()}
}
