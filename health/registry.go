package health

import (
	"context"
	"sync"
	"time"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Timeout bounds one CheckAll sweep across every dependency.
	// Default: 10 seconds
	Timeout time.Duration
}

// Registry holds the health checkers for the remote dependencies a
// process calls, keyed by dependency name.
type Registry struct {
	config RegistryConfig

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewRegistry creates a dependency health registry.
func NewRegistry(config ...RegistryConfig) *Registry {
	cfg := RegistryConfig{Timeout: 10 * time.Second}
	if len(config) > 0 && config[0].Timeout > 0 {
		cfg = config[0]
	}
	return &Registry{
		config:   cfg,
		checkers: make(map[string]Checker),
	}
}

// Register files a checker under its dependency name, replacing any
// earlier checker for the same dependency.
func (g *Registry) Register(c Checker) {
	g.mu.Lock()
	defer g.mu.Unlock()

	name := c.Name()
	if _, exists := g.checkers[name]; !exists {
		g.order = append(g.order, name)
	}
	g.checkers[name] = c
}

// RegisterFunc files fn as the checker for the named dependency.
func (g *Registry) RegisterFunc(name string, fn func(context.Context) Result) {
	g.Register(NewCheckerFunc(name, fn))
}

// Names returns the registered dependency names in registration order.
func (g *Registry) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Check takes a reading of one dependency.
func (g *Registry) Check(ctx context.Context, name string) (Result, error) {
	g.mu.RLock()
	c, ok := g.checkers[name]
	g.mu.RUnlock()

	if !ok {
		return Result{}, ErrUnknownDependency
	}
	return g.run(ctx, c), nil
}

// CheckAll sweeps every dependency concurrently and returns the results
// keyed by dependency name. The sweep is bounded by the configured
// timeout; checkers that do not answer in time come back unhealthy with
// ErrCheckTimeout.
func (g *Registry) CheckAll(ctx context.Context) map[string]Result {
	g.mu.RLock()
	checkers := make([]Checker, 0, len(g.checkers))
	for _, name := range g.order {
		checkers = append(checkers, g.checkers[name])
	}
	g.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			r := g.run(ctx, c)
			mu.Lock()
			results[c.Name()] = r
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	return results
}

// Summary sweeps every dependency and folds the results into one overall
// status.
func (g *Registry) Summary(ctx context.Context) (Status, map[string]Result) {
	results := g.CheckAll(ctx)
	return Overall(results), results
}

// run executes one checker on its own goroutine so a stuck checker
// cannot hang the sweep past the context deadline.
func (g *Registry) run(ctx context.Context, c Checker) Result {
	start := time.Now()
	ch := make(chan Result, 1)

	go func() {
		r := c.Check(ctx)
		r.Elapsed = time.Since(start)
		if r.Checked.IsZero() {
			r.Checked = start
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		return r
	case <-ctx.Done():
		return Result{
			Status:  StatusUnhealthy,
			Message: "health check timed out",
			Err:     ErrCheckTimeout,
			Checked: start,
			Elapsed: time.Since(start),
		}
	}
}

// Overall folds per-dependency results into one status: any unhealthy
// dependency wins, then any degraded one, otherwise healthy.
func Overall(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}
