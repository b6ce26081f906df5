// Package upstream holds the thin HTTP clients for the external services the
// dashboard aggregates: Victron VRM, Shelly cloud, the wood-stove Pi, the
// OpenWeather forecast and the laundry advisor. Every client is a plain
// struct around *http.Client; rate limiting and caching are the caller's
// concern (see internal/fetchcache).
package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

const userAgent = "homewatch/1.0"

type userAgentTransport struct {
	transport http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so a shared/reused request is not mutated.
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.transport.RoundTrip(req)
}

// NewHTTPClient returns the default client used by all upstream clients.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{transport: http.DefaultTransport},
		Timeout:   defaultTimeout,
	}
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// doJSON executes req, enforces a 2xx status and decodes the body into out
// (skipped when out is nil).
func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
