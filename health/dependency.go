package health

import (
	"context"
	"fmt"

	"github.com/content-architect/outbound/client"
	"github.com/content-architect/outbound/resilience"
)

// DependencyChecker reports the health of one remote dependency from its
// client's resilience state. No probe request is sent; the breaker and
// rate limiter already hold the freshest evidence about the dependency.
type DependencyChecker struct {
	client *client.Client
}

// NewDependencyChecker creates a checker for the given client.
func NewDependencyChecker(c *client.Client) *DependencyChecker {
	return &DependencyChecker{client: c}
}

// Name returns the dependency name.
func (d *DependencyChecker) Name() string {
	return d.client.Name()
}

// Check maps the resilience state to a health status: an open breaker is
// unhealthy, a probing breaker or exhausted budget is degraded.
func (d *DependencyChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	snap := d.client.Snapshot()

	details := map[string]any{
		"breaker_state":        snap.Breaker.State.String(),
		"consecutive_failures": snap.Breaker.ConsecutiveFailures,
		"budget_remaining":     snap.Limiter.Remaining,
		"queued_calls":         snap.Limiter.Queued,
	}
	if !snap.Limiter.ResetAt.IsZero() {
		details["budget_reset_at"] = snap.Limiter.ResetAt
	}

	switch snap.Breaker.State {
	case resilience.StateOpen:
		return Unhealthy(
			fmt.Sprintf("circuit breaker open after %d consecutive failures", snap.Breaker.ConsecutiveFailures),
			ErrCheckFailed,
		).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit breaker probing recovery").WithDetails(details)
	}

	if snap.Limiter.Remaining == 0 {
		return Degraded("rate limit budget exhausted").WithDetails(details)
	}

	return Healthy("dependency available").WithDetails(details)
}

var _ Checker = (*DependencyChecker)(nil)
