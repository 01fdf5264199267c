package monitor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// OutcomeKind classifies the result of a single probe.
type OutcomeKind string

// Probe outcome kinds.
const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeUnexpectedStatus OutcomeKind = "unexpected_status"
	OutcomeTimeout          OutcomeKind = "timeout"
	OutcomeConnectionFailed OutcomeKind = "connection_failed"
	OutcomeOtherError       OutcomeKind = "error"
)

// Outcome is the classified result of one liveness check. StatusCode and
// ResponseTimeMS are set only when the endpoint responded (Success or
// UnexpectedStatus); Err carries the message for OutcomeOtherError.
type Outcome struct {
	Kind           OutcomeKind
	StatusCode     int
	ResponseTimeMS float64
	Err            string
}

// Failed reports whether the outcome counts as a failing probe.
func (o Outcome) Failed() bool { return o.Kind != OutcomeSuccess }

// Prober performs one liveness check against one endpoint. Implementations
// must enforce cfg.Timeout as a hard upper bound on wall-clock time and must
// return every ordinary network failure as an Outcome variant rather than an
// error; only programming errors may panic.
type Prober interface {
	Probe(ctx context.Context, url string, cfg CheckConfig) Outcome
}

// DefaultUserAgent identifies probe requests to monitored endpoints.
const DefaultUserAgent = "TrafficWarden/1.0"

// HTTPProberConfig holds configuration for the HTTP prober.
type HTTPProberConfig struct {
	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string
	Logger    zerolog.Logger
}

// HTTPProber probes endpoints with a GET request. Connections are not reused
// between probes so every check exercises the full connect path.
type HTTPProber struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

var _ Prober = (*HTTPProber)(nil)

// NewHTTPProber creates an HTTP prober.
func NewHTTPProber(cfg HTTPProberConfig) *HTTPProber {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPProber{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		userAgent: userAgent,
		logger:    cfg.Logger.With().Str("component", "prober").Logger(),
	}
}

// Probe performs one GET against url with the endpoint's timeout and expected
// status. The per-call context deadline bounds the whole exchange, including
// connect and response.
func (p *HTTPProber) Probe(ctx context.Context, url string, cfg CheckConfig) Outcome {
	cfg = cfg.WithDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{Kind: OutcomeOtherError, Err: err.Error()}
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsedMS := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		p.logger.Debug().Err(err).Str("endpoint", url).Msg("probe request failed")
		return classifyProbeError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == cfg.ExpectedStatus {
		return Outcome{Kind: OutcomeSuccess, StatusCode: resp.StatusCode, ResponseTimeMS: elapsedMS}
	}
	return Outcome{Kind: OutcomeUnexpectedStatus, StatusCode: resp.StatusCode, ResponseTimeMS: elapsedMS}
}

// classifyProbeError maps a transport error onto an outcome kind. Timeouts
// are checked before connection errors because a timed-out dial satisfies
// both net.Error and *net.OpError.
func classifyProbeError(err error) Outcome {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Outcome{Kind: OutcomeTimeout}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Kind: OutcomeTimeout}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return Outcome{Kind: OutcomeConnectionFailed}
	}

	return Outcome{Kind: OutcomeOtherError, Err: err.Error()}
}
