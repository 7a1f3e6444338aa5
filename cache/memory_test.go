package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/content-architect/outbound/clock"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache hit")
	}

	if err := m.Set(ctx, "k", []byte("v"), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("Get() missed a stored key")
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("Get() hit after Delete()")
	}

	// Deleting again is fine.
	if err := m.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestMemory_ExpiryOnFakeClock(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	m := NewMemoryCacheWithClock(fake)
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, ok := m.Get(ctx, "k"); !ok {
		t.Fatal("Get() missed before expiry")
	}

	fake.Advance(time.Minute + time.Second)

	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("Get() hit past expiry")
	}
	// The expired entry is swept on read.
	if n := m.Len(); n != 0 {
		t.Errorf("Len() after expired read = %d, want 0", n)
	}
}

func TestMemory_ZeroTTLStoresNothing(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("Get() hit after zero-TTL Set()")
	}
	if n := m.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("first"), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set(ctx, "k", []byte("second"), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("Get() missed after overwrite")
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
	if n := m.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestMemory_NilValueIsAHit(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	if err := m.Set(ctx, "k", nil, 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := m.Get(ctx, "k")
	if !ok {
		t.Error("Get() missed a stored nil value")
	}
	if got != nil {
		t.Errorf("Get() = %q, want nil", got)
	}
}

func TestMemory_IgnoresContextState(t *testing.T) {
	// The in-process cache never blocks, so a cancelled context does not
	// affect it.
	m := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Set(ctx, "k", []byte("v"), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Error("Get() missed with cancelled context")
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch j % 3 {
				case 0:
					_ = m.Set(ctx, "shared", []byte("v"), time.Minute)
				case 1:
					_, _ = m.Get(ctx, "shared")
				case 2:
					_ = m.Delete(ctx, "shared")
				}
			}
		}()
	}
	wg.Wait()
}
