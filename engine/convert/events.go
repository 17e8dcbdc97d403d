package convert

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/threadtext/engine/fetch"
	"github.com/WessleyAI/threadtext/engine/thread"
	"github.com/WessleyAI/threadtext/pkg/natsutil"
)

// NATSPublisher publishes conversion events to a NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher creates a publisher for subject on nc.
func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{nc: nc, subject: subject}
}

// PublishConversion implements Publisher.
func (p *NATSPublisher) PublishConversion(ctx context.Context, ev ConversionEvent) error {
	return natsutil.Publish(ctx, p.nc, p.subject, ev)
}

// UpstreamFailure reports whether err points at the upstream being
// unhealthy, as opposed to a bad URL, a non-thread payload or a caller that
// went away. It is meant as resilience.BreakerOpts.Trips.
//
// Upstream failures are 5xx and 429 responses, timeouts, and network errors
// reaching a resolvable host.
func UpstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var fe *thread.FetchError
	if errors.As(err, &fe) && (fe.StatusCode >= 500 || fe.StatusCode == http.StatusTooManyRequests) {
		return true
	}
	var malformed *thread.MalformedInputError
	if errors.As(err, &malformed) || errors.Is(err, fetch.ErrBodyTooLarge) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
