package runner

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/shared/constants"
)

type HTTPRunnerConfig struct {
	UserAgent    string
	MaxBodyBytes int64
	// SkipFields turns off completeness tracking; FieldCount stays nil.
	SkipFields   bool
}

type HTTPRunner struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	skipFields   bool
}

func NewHTTPRunner(cfg HTTPRunnerConfig) *HTTPRunner {
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = constants.MaxBodyBytes
	}

	return &HTTPRunner{
		// timeout is enforced per probe through the request context
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= constants.MaxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		skipFields:   cfg.SkipFields,
	}
}

// Probe sends one GET to endpoint.URL. Latency covers the status line and
// the whole body. Non-2xx responses are still successes.
func (r *HTTPRunner) Probe(ctx context.Context, endpoint domain.EndpointDescriptor, timeout time.Duration) domain.ProbeResult {
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	issuedAt := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		return domain.NewFailureResult(endpoint, issuedAt, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return domain.NewFailureResult(endpoint, issuedAt, describeError(err, timeout))
	}
	defer resp.Body.Close()

	body, err := r.readResponseBody(resp)
	latency := time.Since(start)
	if err != nil {
		return domain.NewFailureResult(endpoint, issuedAt, describeError(fmt.Errorf("failed to read body: %w", err), timeout))
	}

	var fields *int
	if !r.skipFields {
		fields = CountFields(body)
	}
	return domain.NewSuccessResult(endpoint, issuedAt, latency, resp.StatusCode, fields)
}

// readResponseBody keeps at most maxBodyBytes and drains the rest so the
// measured latency includes the full transfer.
func (r *HTTPRunner) readResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodyBytes))
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return nil, err
	}

	return body, nil
}

func describeError(err error, timeout time.Duration) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("request timed out after %s: %w", timeout, err)
	}
	return fmt.Errorf("HTTP request failed: %w", err)
}
