package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/content-architect/outbound/client"
	"github.com/content-architect/outbound/resilience"
)

func zeroRetries() *int {
	n := 0
	return &n
}

func newDependencyClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		Name:    "search-api",
		BaseURL: baseURL,
		Breaker: resilience.CircuitBreakerConfig{
			FailureThreshold: 1,
			ResetTimeout:     time.Hour,
		},
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return c
}

func TestDependencyChecker_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newDependencyClient(t, srv.URL)
	checker := NewDependencyChecker(c)

	if checker.Name() != "search-api" {
		t.Errorf("Name() = %q, want search-api", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if result.Details["breaker_state"] != "closed" {
		t.Errorf("breaker_state = %v, want closed", result.Details["breaker_state"])
	}
}

func TestDependencyChecker_OpenBreakerIsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newDependencyClient(t, srv.URL)
	_, _ = c.Do(context.Background(), client.Request{Path: "/v1/search", MaxRetries: zeroRetries()})

	result := NewDependencyChecker(c).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy after breaker opened", result.Status)
	}
	if result.Details["breaker_state"] != "open" {
		t.Errorf("breaker_state = %v, want open", result.Details["breaker_state"])
	}
}

func TestDependencyChecker_ExhaustedBudgetIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newDependencyClient(t, srv.URL)
	if _, err := c.Do(context.Background(), client.Request{Path: "/v1/search"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	result := NewDependencyChecker(c).Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded with zero budget", result.Status)
	}
	if result.Details["budget_remaining"] != 0 {
		t.Errorf("budget_remaining = %v, want 0", result.Details["budget_remaining"])
	}
}

func TestDependencyChecker_InRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newDependencyClient(t, srv.URL)

	reg := NewRegistry()
	reg.Register(NewDependencyChecker(c))

	status, results := reg.Summary(context.Background())
	if status != StatusHealthy {
		t.Errorf("Summary() status = %v, want healthy", status)
	}
	if _, ok := results["search-api"]; !ok {
		t.Errorf("Results missing the dependency entry: %v", results)
	}
}
