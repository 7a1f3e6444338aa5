package health

import (
	"context"
	"time"
)

// Status grades a dependency's availability.
type Status int

const (
	// StatusHealthy means calls to the dependency are expected to succeed.
	StatusHealthy Status = iota

	// StatusDegraded means calls still go through but at reduced capacity,
	// such as an exhausted rate budget or a breaker probing recovery.
	StatusDegraded

	// StatusUnhealthy means calls are failing or being short-circuited.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	}
	return "unknown"
}

// Result is one dependency's health at a point in time.
type Result struct {
	Status  Status
	Message string

	// Details carries resilience state: breaker state, remaining budget,
	// queue depth.
	Details map[string]any

	// Err is set when the status is unhealthy.
	Err error

	// Checked is when the reading was taken; Elapsed is how long it took.
	Checked time.Time
	Elapsed time.Duration
}

// Healthy builds a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Checked: time.Now()}
}

// Degraded builds a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Checked: time.Now()}
}

// Unhealthy builds an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Err: err, Checked: time.Now()}
}

// WithDetails attaches detail fields to the result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker reports the health of one dependency.
type Checker interface {
	// Name is the dependency name results are filed under.
	Name() string

	// Check takes a health reading. It must honor ctx cancellation.
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc wraps fn as a Checker for the named dependency.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the dependency name.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check runs the wrapped function.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
