package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"encoding/json"

	"smartgrid/wattson/internal/logging"
)

// Transport is a low-level HTTP client bound to a fixed base URL.
// It handles default headers, the per-attempt timeout and bounded retry of
// transport-level failures. It never interprets payload semantics or HTTP
// status codes; that is the adapter's job.
type Transport struct {
	baseURL     string
	client      *http.Client
	maxAttempts int

	mu      sync.RWMutex
	headers map[string]string
}

// NewTransport builds a Transport for the given base URL. maxAttempts is
// clamped to a minimum of 1. The underlying client carries a cookie jar so
// adapters can pick up session cookies set by the vendor.
func NewTransport(baseURL string, headers map[string]string, timeout time.Duration, maxAttempts int) (*Transport, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	defaults := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		defaults[k] = v
	}

	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		maxAttempts: maxAttempts,
		headers:     defaults,
	}, nil
}

// SetHeader sets a default header applied to every subsequent request
func (t *Transport) SetHeader(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.headers[key] = value
}

// BaseURL returns the address the transport is bound to
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Request performs an HTTP call, retrying immediately on timeout or
// connection failure up to the configured attempt count. Any response the
// server produced, whatever its status code, is returned unmodified. When
// every attempt failed at the transport level a ProviderFetchError carrying
// the last underlying error is returned.
func (t *Transport) Request(ctx context.Context, method, path string, jsonBody any) (*http.Response, error) {
	url := t.baseURL + "/" + strings.TrimLeft(path, "/")

	var body []byte
	if jsonBody != nil {
		encoded, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = encoded
	}

	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}

		t.mu.RLock()
		for k, v := range t.headers {
			req.Header.Set(k, v)
		}
		t.mu.RUnlock()
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		logging.Debug("HTTP request attempt",
			"method", method,
			"url", url,
			"attempt", attempt,
			"max_attempts", t.maxAttempts,
		)

		resp, err := t.client.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		logging.Warn("HTTP request error",
			"url", url,
			"attempt", attempt,
			"error", err.Error(),
		)
	}

	logging.Error("HTTP request failed after retries",
		"url", url,
		"attempts", t.maxAttempts,
	)

	return nil, NewFetchError(
		"HTTP request failed after retries",
		map[string]any{
			"url":      url,
			"attempts": t.maxAttempts,
			"error":    lastErr.Error(),
		},
		lastErr,
	)
}
