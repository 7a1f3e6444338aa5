// Package resilience provides the failure-handling building blocks for
// outbound calls to remote dependencies.
//
// Every external integration coordinates many independent, failure-prone,
// rate-limited services from a single process. The patterns here keep
// that safe: no cascading failures, no exceeded provider quotas, no
// silently dropped work.
//
// # Patterns
//
//   - Circuit Breaker: stops calls to a failing dependency for a cooldown
//     period, then cautiously probes recovery with a single call at a time.
//
//   - Rate Limiter: bounds calls per window against a dependency, parking
//     excess calls in a bounded FIFO queue that drains as budget
//     replenishes. Provider quota headers feed back into the budget.
//
//   - Retry: re-attempts transient failures with capped exponential
//     backoff and jitter.
//
//   - Bulkhead: caps concurrent in-flight calls to one dependency.
//
//   - Timeout: bounds each individual attempt.
//
// # Usage
//
// Each pattern can be used independently or composed through an Executor:
//
//	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    MaxRequests: 60,
//	    Window:      time.Minute,
//	})
//
//	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     30 * time.Second,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxRetries:   3,
//	    InitialDelay: 100 * time.Millisecond,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRateLimiter(limiter),
//	    resilience.WithCircuitBreaker(breaker),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(10*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callProvider(ctx)
//	})
//
// The executor enforces the layer order rate limiter -> bulkhead ->
// circuit breaker -> retry -> timeout, so queued calls never count
// toward breaker state and the breaker only sees the terminal outcome
// of a retried call.
package resilience
