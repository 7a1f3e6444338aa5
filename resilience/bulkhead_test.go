package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_Defaults(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})

	if got := b.Metrics().MaxConcurrent; got != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", got)
	}
}

func TestBulkhead_SlotAccounting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})

	for i := 0; i < 2; i++ {
		if err := b.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire() #%d error = %v", i+1, err)
		}
	}

	// No free slot and no wait budget: immediate rejection.
	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("Acquire() on full bulkhead error = %v, want ErrBulkheadFull", err)
	}

	b.Release()

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() after Release() error = %v", err)
	}
}

func TestBulkhead_WaitsForReleasedSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       time.Second,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Release()
	}()

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() while waiting for a slot error = %v", err)
	}
}

func TestBulkhead_WaitBudgetExhausted(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       10 * time.Millisecond,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Acquire() past wait budget error = %v, want ErrBulkheadFull", err)
	}
}

func TestBulkhead_AcquireHonorsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       time.Second,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
}

func TestBulkhead_Execute(t *testing.T) {
	t.Run("runs the operation", func(t *testing.T) {
		b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

		var calls int
		err := b.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("operation ran %d times, want 1", calls)
		}
	})

	t.Run("rejects when full", func(t *testing.T) {
		b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

		if err := b.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}

		var calls int
		err := b.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		if !errors.Is(err, ErrBulkheadFull) {
			t.Fatalf("Execute() error = %v, want ErrBulkheadFull", err)
		}
		if calls != 0 {
			t.Error("operation ran on a full bulkhead")
		}
	})

	t.Run("propagates operation errors", func(t *testing.T) {
		b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

		err := b.Execute(context.Background(), func(ctx context.Context) error {
			return errRemote
		})
		if !errors.Is(err, errRemote) {
			t.Fatalf("Execute() error = %v, want errRemote", err)
		}

		// The slot must come back even on failure.
		if got := b.Metrics().Active; got != 0 {
			t.Errorf("Active after failed Execute() = %d, want 0", got)
		}
	})
}

func TestBulkhead_CapsConcurrency(t *testing.T) {
	const limit = 5

	b := NewBulkhead(BulkheadConfig{MaxConcurrent: limit})

	var (
		wg      sync.WaitGroup
		active  int32
		peak    int32
		started = make(chan struct{})
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-started

			err := b.Execute(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				defer atomic.AddInt32(&active, -1)

				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}

				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil && !errors.Is(err, ErrBulkheadFull) {
				t.Errorf("Execute() error = %v", err)
			}
		}()
	}

	close(started)
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > limit {
		t.Errorf("peak concurrency = %d, want <= %d", got, limit)
	}
}

func TestBulkhead_Metrics(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 3})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	m := b.Metrics()
	if m.Active != 2 {
		t.Errorf("Active = %d, want 2", m.Active)
	}
	if m.MaxActive != 2 {
		t.Errorf("MaxActive = %d, want 2", m.MaxActive)
	}
	if m.Available != 1 {
		t.Errorf("Available = %d, want 1", m.Available)
	}
	if m.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", m.MaxConcurrent)
	}
}

func TestBulkhead_MetricsCountRejections(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("Acquire() error = %v, want ErrBulkheadFull", err)
	}

	if got := b.Metrics().Rejected; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
}
