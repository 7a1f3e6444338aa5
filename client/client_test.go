package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/content-architect/outbound/auth"
	"github.com/content-architect/outbound/resilience"
)

func intPtr(n int) *int { return &n }

func newTestClient(t *testing.T, baseURL string, mutate func(*Config)) *Client {
	t.Helper()

	cfg := Config{
		Name:    "search-api",
		BaseURL: baseURL,
		Retry: resilience.RetryConfig{
			MaxRetries:   3,
			InitialDelay: time.Millisecond,
			NoJitter:     true,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{BaseURL: "https://api.example.com"}); err == nil {
		t.Error("New() without name succeeded, want error")
	}
	if _, err := New(Config{Name: "x", BaseURL: "not a url"}); err == nil {
		t.Error("New() with bad base URL succeeded, want error")
	}
	if _, err := New(Config{Name: "x", BaseURL: "/relative"}); err == nil {
		t.Error("New() with scheme-less base URL succeeded, want error")
	}
}

func TestClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("Path = %q, want /v1/search", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "golang" {
			t.Errorf("q = %q, want golang", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":["a","b"]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{
		Path:      "/v1/search",
		Query:     map[string][]string{"q": {"golang"}},
		Operation: "search",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}

	var body struct {
		Results []string `json:"results"`
	}
	if err := resp.JSON(&body); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if len(body.Results) != 2 {
		t.Errorf("Results = %v, want 2 entries", body.Results)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{Path: "/v1/search"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if calls.Load() != 3 {
		t.Errorf("Server saw %d attempts, want 3", calls.Load())
	}

	// A call that eventually succeeded leaves the breaker clean.
	if got := c.Snapshot().Breaker.ConsecutiveFailures; got != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", got)
	}
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	_, err := c.Do(context.Background(), Request{Path: "/v1/search"})

	kind, ok := KindOf(err)
	if !ok || kind != KindUpstream {
		t.Fatalf("Do() error = %v, want KindUpstream", err)
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Status != http.StatusBadRequest {
		t.Errorf("Status = %v, want 400", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Server saw %d attempts, want 1 (4xx is not transient)", calls.Load())
	}

	// Caller mistakes are not evidence of dependency failure.
	if got := c.Snapshot().Breaker.ConsecutiveFailures; got != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", got)
	}
}

func TestClient_RateLimitedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	_, err := c.Do(context.Background(), Request{
		Path:       "/v1/search",
		MaxRetries: intPtr(0),
	})

	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimited {
		t.Fatalf("Do() error = %v, want KindRateLimited", err)
	}

	// The 429 zeroed the local budget and scheduled the retry-after reset.
	snap := c.Snapshot()
	if snap.Limiter.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0 after 429", snap.Limiter.Remaining)
	}
	if snap.Limiter.ResetAt.IsZero() {
		t.Error("ResetAt not scheduled after 429")
	}
}

func TestClient_QuotaHeadersFeedLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "5")
		w.Header().Set("X-RateLimit-Reset", "30")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	if _, err := c.Do(context.Background(), Request{Path: "/v1/search"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	snap := c.Snapshot()
	if snap.Limiter.Remaining != 5 {
		t.Errorf("Remaining = %d, want 5 (provider-reported)", snap.Limiter.Remaining)
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Breaker = resilience.CircuitBreakerConfig{
			FailureThreshold: 1,
			ResetTimeout:     time.Hour,
		}
	})

	_, err := c.Do(context.Background(), Request{Path: "/v1/search", MaxRetries: intPtr(0)})
	if kind, _ := KindOf(err); kind != KindUpstream {
		t.Fatalf("First call error = %v, want KindUpstream", err)
	}
	if c.Snapshot().Breaker.State != resilience.StateOpen {
		t.Fatalf("Breaker state = %v, want open", c.Snapshot().Breaker.State)
	}

	before := calls.Load()
	_, err = c.Do(context.Background(), Request{Path: "/v1/search"})
	if kind, _ := KindOf(err); kind != KindCircuitOpen {
		t.Errorf("Second call error = %v, want KindCircuitOpen", err)
	}
	if calls.Load() != before {
		t.Error("Open breaker let a request reach the server")
	}
}

func TestClient_CredentialApplied(t *testing.T) {
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cred, err := auth.NewAPIKey(context.Background(), auth.APIKeyConfig{Key: "sk-test"})
	if err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Credential = cred
	})

	if _, err := c.Do(context.Background(), Request{Path: "/v1/search"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotKey.Load() != "sk-test" {
		t.Errorf("X-API-Key = %v, want sk-test", gotKey.Load())
	}
}

func TestClient_PostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/v1/generate",
		Body:   []byte(`{"topic":"go"}`),
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("Status = %d, want 201", resp.Status)
	}
}

func TestClient_PerCallTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	start := time.Now()
	_, err := c.Do(context.Background(), Request{
		Path:       "/v1/search",
		Timeout:    20 * time.Millisecond,
		MaxRetries: intPtr(0),
	})

	if kind, _ := KindOf(err); kind != KindTimeout {
		t.Fatalf("Do() error = %v, want KindTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Call took %v, want well under the server delay", elapsed)
	}
}

func TestClient_InvalidRequest(t *testing.T) {
	c := newTestClient(t, "https://api.example.com", nil)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty path", Request{}},
		{"relative path", Request{Path: "v1/search"}},
		{"bad method", Request{Method: "FETCH", Path: "/v1/search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Do(context.Background(), tt.req)
			if kind, _ := KindOf(err); kind != KindConfiguration {
				t.Errorf("Do() error = %v, want KindConfiguration", err)
			}
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, Request{Path: "/v1/search"})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
}
