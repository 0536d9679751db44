// Package netprobe issues bounded-timeout HTTP probes against plaintext
// echo endpoints (public IP and geolocation services).
package netprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds each probe request.
const DefaultTimeout = 5 * time.Second

// maxBodySize caps how much of a response body is read. Echo endpoints
// return a handful of bytes; anything larger is not a valid observation.
const maxBodySize = 512

// ErrUnexpectedStatus is returned when an endpoint responds with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// HTTPProber probes endpoints directly from the caller's network context.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober whose requests time out after the given
// duration. A non-positive timeout falls back to DefaultTimeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe issues a GET request to the endpoint and returns the trimmed
// response body.
func (p *HTTPProber) Probe(ctx context.Context, endpoint string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	logrus.WithField("endpoint", endpoint).Debug("probing endpoint")

	response, err := p.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("probe failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, endpoint, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
