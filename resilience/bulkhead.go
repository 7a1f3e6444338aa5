package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/content-architect/outbound/clock"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of in-flight calls against
	// the dependency.
	// Default: 10
	MaxConcurrent int

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration

	// Clock is the time source for the wait deadline.
	// Default: the real clock.
	Clock clock.Clock
}

// Bulkhead caps concurrent calls to one remote dependency, independent
// of the per-window rate budget.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire claims a slot, waiting up to MaxWait when none is free.
// Returns ErrBulkheadFull when no slot opens in time.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		b.noteAcquired()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.noteRejected()
		return ErrBulkheadFull
	}

	select {
	case b.sem <- struct{}{}:
		b.noteAcquired()
		return nil
	case <-b.config.Clock.After(b.config.MaxWait):
		b.noteRejected()
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire.
	}
}

func (b *Bulkhead) noteAcquired() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) noteRejected() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// Execute runs the operation within the bulkhead.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// Metrics returns current bulkhead metrics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}
