package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/timeutil"
)

/*
Responsibilities

- Decide, within a bound, whether the network path to the content origin
  is usable
- Fail closed: a timeout or any dial failure means "not reachable"

One probe is one TCP dial. There are no retries, and a dial that finishes
after the bound has elapsed is discarded.
*/

type Probe interface {
	Reachable(ctx context.Context, timeout time.Duration) bool
}

type DialFunc func(ctx context.Context, network string, address string) (net.Conn, error)

type DialProbe struct {
	metadataSink metadata.MetadataSink
	address      string
	dial         DialFunc
}

func NewDialProbe(metadataSink metadata.MetadataSink, address string) *DialProbe {
	var d net.Dialer
	return NewDialProbeWithDialer(metadataSink, address, d.DialContext)
}

// NewDialProbeWithDialer creates a DialProbe with a custom dial function.
// This is useful for testing.
func NewDialProbeWithDialer(metadataSink metadata.MetadataSink, address string, dial DialFunc) *DialProbe {
	return &DialProbe{
		metadataSink: metadataSink,
		address:      address,
		dial:         dial,
	}
}

func (p *DialProbe) Address() string {
	return p.address
}

func (p *DialProbe) Reachable(ctx context.Context, timeout time.Duration) bool {
	start := time.Now()

	dialErr, completed := timeutil.Await(ctx, timeout, func(ctx context.Context) error {
		conn, err := p.dial(ctx, "tcp", p.address)
		if err != nil {
			return err
		}
		return conn.Close()
	})

	var probeErr *ProbeError
	switch {
	case !completed:
		probeErr = &ProbeError{
			Message:   fmt.Sprintf("no answer from %s within %v", p.address, timeout),
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	case dialErr != nil:
		probeErr = &ProbeError{
			Message:   dialErr.Error(),
			Retryable: true,
			Cause:     ErrCauseUnreachable,
		}
	}

	p.metadataSink.RecordProbe(p.address, probeErr == nil, time.Since(start))
	if probeErr != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"connectivity",
			"DialProbe.Reachable",
			mapProbeErrorToMetadataCause(probeErr),
			probeErr.Message,
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrAddress, p.address),
			},
		)
		return false
	}
	return true
}

// AddressFor derives host:port to probe from a content URL. The port
// comes from the URL when present, otherwise from its scheme.
func AddressFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &ProbeError{Message: err.Error(), Cause: ErrCauseInvalidAddress}
	}
	host := u.Hostname()
	if host == "" {
		return "", &ProbeError{Message: fmt.Sprintf("no host in %q", rawURL), Cause: ErrCauseInvalidAddress}
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", &ProbeError{Message: fmt.Sprintf("no default port for scheme %q", u.Scheme), Cause: ErrCauseInvalidAddress}
		}
	}
	return net.JoinHostPort(host, port), nil
}

// Static is a Probe with a fixed answer.
type Static bool

func (s Static) Reachable(ctx context.Context, timeout time.Duration) bool {
	return bool(s)
}
