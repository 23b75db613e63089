package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryCacheSetAndGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	if _, ok, err := c.Get(context.Background(), "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheExpiresEntries(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2022, 12, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Second)
	now = now.Add(time.Second)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2022, 12, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	now = now.Add(24 * time.Hour)

	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("expected entry without ttl to persist")
	}
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	src := []byte("original")
	_ = c.Set(ctx, "k", src, 0)
	src[0] = 'X'

	got, _, _ := c.Get(ctx, "k")
	got[1] = 'Y'

	again, _, _ := c.Get(ctx, "k")
	if string(again) != "original" {
		t.Fatalf("expected cache to remain unchanged, got %q", again)
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", []byte("v"), time.Minute)
			_, _, _ = c.Get(ctx, "shared")
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Fatalf("expected single entry, got %d", c.Len())
	}
}

func TestMemoryCacheCloseDropsEntries(t *testing.T) {
	c := NewMemoryCache()
	_ = c.Set(context.Background(), "k", []byte("v"), 0)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after close, got %d", c.Len())
	}
}
