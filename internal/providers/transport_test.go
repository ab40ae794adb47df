package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smartgrid/wattson/internal/constants"
)

func TestTransportRetriesTransportFailures(t *testing.T) {
	var attempts int32

	// Hijack and close the connection so the client sees a transport-level
	// failure on every attempt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("server does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack failed: %v", err)
		}
		conn.Close()
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, nil, 2*time.Second, 3)
	if err != nil {
		t.Fatalf("NewTransport failed: %v", err)
	}

	_, err = tr.Request(context.Background(), http.MethodGet, "/ping", nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !IsCode(err, constants.ErrCodeProviderFetchError) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestTransportReturnsServerErrorsUnmodified(t *testing.T) {
	var attempts int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, nil, 2*time.Second, 3)
	if err != nil {
		t.Fatalf("NewTransport failed: %v", err)
	}

	resp, err := tr.Request(context.Background(), http.MethodGet, "/broken", nil)
	if err != nil {
		t.Fatalf("server errors must not be retried or wrapped, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("expected a single attempt for a 5xx response, got %d", got)
	}
}

func TestTransportSendsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "set-later" {
			t.Errorf("expected X-Custom header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body["name"] != "station-1" {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, map[string]string{"X-Initial": "yes"}, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("NewTransport failed: %v", err)
	}
	tr.SetHeader("X-Custom", "set-later")

	resp, err := tr.Request(context.Background(), http.MethodPost, "report", map[string]any{"name": "station-1"})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}

func TestTransportRequiresBaseURL(t *testing.T) {
	if _, err := NewTransport("", nil, time.Second, 1); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestTransportClampsAttempts(t *testing.T) {
	var attempts int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, nil, time.Second, 0)
	if err != nil {
		t.Fatalf("NewTransport failed: %v", err)
	}

	resp, err := tr.Request(context.Background(), http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("expected 1 attempt with clamped config, got %d", got)
	}
}
