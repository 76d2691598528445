package probe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// AttemptTimeout bounds one attempt, connect through response.
const AttemptTimeout = 15 * time.Second

// maxDrain caps how much of a response body is read before closing it.
const maxDrain = 1 << 20

type HTTPProber struct {
	Client *http.Client
	Scheme string
	Host   string
}

// NewHTTPProber uses the default transport, so TLS is verified against the
// system roots. A non-positive timeout means AttemptTimeout.
func NewHTTPProber(scheme, host string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = AttemptTimeout
	}
	return &HTTPProber{
		Client: &http.Client{Timeout: timeout},
		Scheme: scheme,
		Host:   host,
	}
}

func (p *HTTPProber) URL(path string) string {
	return p.Scheme + "://" + p.Host + path
}

// Probe sends one request for spec. It never returns an error; failures are
// reported through Outcome.Err.
func (p *HTTPProber) Probe(ctx context.Context, spec domain.CheckSpec) Outcome {
	start := time.Now()

	var body io.Reader
	if spec.Body.IsSet() {
		body = bytes.NewReader(spec.Body.Bytes())
	}
	req, err := http.NewRequestWithContext(ctx, spec.Method, p.URL(spec.Path), body)
	if err != nil {
		return Outcome{Duration: time.Since(start), Err: &TransportError{Err: err}}
	}
	for k, v := range spec.Headers {
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}
	if spec.Body.IsSet() && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Outcome{Duration: time.Since(start), Err: &TransportError{Err: err}}
	}
	latency := time.Since(start)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return Outcome{
		StatusCode: null.IntFrom(int64(resp.StatusCode)),
		Duration:   latency,
		Err:        Classify(resp.StatusCode, spec),
	}
}
