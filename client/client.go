package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/content-architect/outbound/auth"
	"github.com/content-architect/outbound/clock"
	"github.com/content-architect/outbound/observe"
	"github.com/content-architect/outbound/resilience"
)

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 10 << 20

// Config configures a Client for one remote dependency.
type Config struct {
	// Name identifies the dependency in errors, logs, and metrics.
	Name string

	// BaseURL is the dependency's base URL, e.g. "https://api.example.com".
	BaseURL string

	// HTTPClient is the underlying transport. Default: http.DefaultClient
	// semantics with no client-level timeout (attempts are bounded by
	// CallTimeout instead).
	HTTPClient *http.Client

	// Credential authenticates outbound requests. Default: auth.None().
	Credential auth.Credential

	// CallTimeout bounds each transport attempt.
	// Default: 10 seconds
	CallTimeout time.Duration

	// MaxConcurrent caps in-flight calls to the dependency. Zero means
	// no cap.
	MaxConcurrent int

	// Retry configures the retry policy for transient failures.
	Retry resilience.RetryConfig

	// Breaker configures the circuit breaker. IsFailure defaults to
	// IsTransient so local rejections and caller mistakes never count
	// as dependency failures.
	Breaker resilience.CircuitBreakerConfig

	// Limiter configures the outbound rate limit budget.
	Limiter resilience.RateLimiterConfig

	// Logger receives structured call logs. Default: discard.
	Logger observe.Logger

	// Metrics receives call and attempt metrics. Default: discard.
	Metrics observe.Metrics

	// Clock is the time source. Default: the real clock.
	Clock clock.Clock
}

// Client issues resilient calls to a single remote dependency.
//
// The breaker, limiter, and bulkhead are per-client state shared by all
// calls; the retry policy and attempt timeout may be overridden per call.
type Client struct {
	name     string
	base     *url.URL
	http     *http.Client
	cred     auth.Credential
	timeout  time.Duration
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	limiter  *resilience.RateLimiter
	bulkhead *resilience.Bulkhead
	logger   observe.Logger
	metrics  observe.Metrics
	clock    clock.Clock
}

// New creates a client for one dependency.
func New(config Config) (*Client, error) {
	if config.Name == "" {
		return nil, errors.New("client: dependency name is required")
	}
	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", config.BaseURL)
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.Credential == nil {
		config.Credential = auth.None()
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = 10 * time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}

	if config.Retry.Clock == nil {
		config.Retry.Clock = config.Clock
	}
	if config.Breaker.Clock == nil {
		config.Breaker.Clock = config.Clock
	}
	if config.Breaker.IsFailure == nil {
		config.Breaker.IsFailure = IsTransient
	}
	if config.Limiter.Clock == nil {
		config.Limiter.Clock = config.Clock
	}

	c := &Client{
		name:    config.Name,
		base:    base,
		http:    config.HTTPClient,
		cred:    config.Credential,
		timeout: config.CallTimeout,
		retry:   config.Retry,
		breaker: resilience.NewCircuitBreaker(config.Breaker),
		limiter: resilience.NewRateLimiter(config.Limiter),
		logger:  config.Logger,
		metrics: config.Metrics,
		clock:   config.Clock,
	}
	if config.MaxConcurrent > 0 {
		c.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: config.MaxConcurrent,
			Clock:         config.Clock,
		})
	}
	return c, nil
}

// Name returns the dependency name.
func (c *Client) Name() string {
	return c.name
}

// Do executes the request through the full resilience composition and
// returns the response, or a classified *Error. Responses with an error
// status never produce a Response; they come back as KindUpstream or
// KindRateLimited errors.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, &Error{Kind: KindConfiguration, Dependency: c.name, Err: err}
	}

	meta := observe.CallMeta{
		Dependency: c.name,
		Operation:  req.Operation,
		Method:     req.method(),
		Path:       req.Path,
	}
	logger := c.logger.WithCall(meta)

	var resp *Response
	attempts := 0

	op := func(ctx context.Context) error {
		attempts++
		r, err := c.attempt(ctx, &req)
		c.metrics.RecordAttempt(ctx, meta, attempts, err)
		if err != nil {
			logger.Debug(ctx, "attempt failed",
				observe.Field{Key: "attempt", Value: attempts},
				observe.Field{Key: "error", Value: err.Error()},
			)
			return err
		}
		resp = r
		return nil
	}

	start := time.Now()
	err := c.executor(&req, logger).Execute(ctx, op)
	duration := time.Since(start)
	c.metrics.RecordCall(ctx, meta, duration, err)

	if err != nil {
		err = classify(c.name, err)
		logger.Error(ctx, "call failed",
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	logger.Info(ctx, "call completed",
		observe.Field{Key: "status", Value: resp.Status},
		observe.Field{Key: "attempts", Value: attempts},
		observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	)
	return resp, nil
}

// executor builds the per-call layer composition around the shared
// limiter, bulkhead, and breaker.
func (c *Client) executor(req *Request, logger observe.Logger) *resilience.Executor {
	opts := []resilience.ExecutorOption{
		resilience.WithRateLimiter(c.limiter),
	}
	if c.bulkhead != nil {
		opts = append(opts, resilience.WithBulkhead(c.bulkhead))
	}
	opts = append(opts, resilience.WithCircuitBreaker(c.breaker))

	retryCfg := c.retry
	if req.MaxRetries != nil {
		retryCfg.MaxRetries = *req.MaxRetries
	}
	// A per-call override of zero disables the retry layer outright.
	if req.MaxRetries == nil || *req.MaxRetries > 0 {
		retryCfg.RetryIf = IsTransient
		retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
			logger.Debug(context.Background(), "retrying",
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			)
		}
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(retryCfg)))
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	opts = append(opts, resilience.WithTimeout(timeout))

	return resilience.NewExecutor(opts...)
}

// attempt performs one transport round trip.
func (c *Client) attempt(ctx context.Context, req *Request) (*Response, error) {
	u := c.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method(), u.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Dependency: c.name, Err: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if err := c.cred.Apply(ctx, httpReq); err != nil {
		return nil, &Error{Kind: KindConfiguration, Dependency: c.name, Err: err}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: KindTransport, Dependency: c.name, Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Dependency: c.name, Err: err}
	}

	now := c.clock.Now()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(parseRetryAfter(httpResp.Header, now))
		return nil, &Error{
			Kind:       KindRateLimited,
			Dependency: c.name,
			Status:     httpResp.StatusCode,
		}
	}

	// Quota headers on non-429 responses feed the local budget.
	if fb := parseQuotaHeaders(httpResp.Header, now); fb.remaining >= 0 || fb.resetIn > 0 {
		c.limiter.Observe(fb.remaining, fb.resetIn)
	}

	if httpResp.StatusCode >= 400 {
		return nil, &Error{
			Kind:       KindUpstream,
			Dependency: c.name,
			Status:     httpResp.StatusCode,
		}
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   data,
	}, nil
}

// Snapshot reports the client's current resilience state for health
// checks and dashboards.
type Snapshot struct {
	Dependency string
	Breaker    resilience.CircuitBreakerMetrics
	Limiter    resilience.RateLimiterMetrics
}

// Snapshot returns the current resilience state.
func (c *Client) Snapshot() Snapshot {
	return Snapshot{
		Dependency: c.name,
		Breaker:    c.breaker.Metrics(),
		Limiter:    c.limiter.Metrics(),
	}
}
