package engine

import (
	"sync"
	"testing"

	"lukechampine.com/frand"
)

func TestEvalCacheRoundTrip(t *testing.T) {
	c := NewEvalCache(1)
	if c.Capacity() != 65536 {
		t.Fatalf("Capacity = %d, want 65536", c.Capacity())
	}

	for _, score := range []int16{0, 1, -1, 123, -32768, 32767} {
		hash := frand.Uint64n(1<<63) | 1
		c.Add(hash, score)
		got, ok := c.TryGetScore(hash)
		if !ok || got != score {
			t.Errorf("TryGetScore = (%d, %v), want (%d, true)", got, ok, score)
		}
	}
}

func TestEvalCacheCollisionOverwrites(t *testing.T) {
	c := NewEvalCache(1)
	h1 := uint64(0xdeadbeef)
	h2 := h1 + c.Capacity()

	c.Add(h1, 10)
	c.Add(h2, 20)

	if _, ok := c.TryGetScore(h1); ok {
		t.Error("overwritten hash still hits")
	}
	if got, ok := c.TryGetScore(h2); !ok || got != 20 {
		t.Errorf("TryGetScore(h2) = (%d, %v), want (20, true)", got, ok)
	}
}

func TestEvalCacheMiss(t *testing.T) {
	c := NewEvalCache(1)
	if _, ok := c.TryGetScore(42); ok {
		t.Error("empty cache hit")
	}

	// an all-zero slot verifies hash 0
	if got, ok := c.TryGetScore(0); !ok || got != 0 {
		t.Errorf("TryGetScore(0) on empty slot = (%d, %v), want (0, true)", got, ok)
	}
}

func TestEvalCacheResizeAndClear(t *testing.T) {
	c := NewEvalCache(0)
	if c.SizeMB() != 1 {
		t.Errorf("SizeMB for 0 = %d, want 1", c.SizeMB())
	}
	if got := clamp(5000, 1, MaxEvalCacheMB); got != MaxEvalCacheMB {
		t.Errorf("clamp = %d, want %d", got, MaxEvalCacheMB)
	}

	c.Add(7, 99)
	c.Resize(2)
	if c.Capacity() != 2*65536 {
		t.Errorf("Capacity after resize = %d", c.Capacity())
	}
	if _, ok := c.TryGetScore(7); ok {
		t.Error("resize kept an entry")
	}

	c.Add(7, 99)
	c.Clear()
	if _, ok := c.TryGetScore(7); ok {
		t.Error("Clear kept an entry")
	}
}

func TestEvalCacheConcurrent(t *testing.T) {
	c := NewEvalCache(1)
	hashes := make([]uint64, 64)
	for i := range hashes {
		// all land in a handful of slots
		hashes[i] = frand.Uint64n(1<<40)*c.Capacity() + uint64(i%4)
	}
	scoreOf := func(h uint64) int16 { return int16(h >> 16) }

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 5000; n++ {
				h := hashes[frand.Intn(len(hashes))]
				if n%2 == 0 {
					c.Add(h, scoreOf(h))
					continue
				}
				if got, ok := c.TryGetScore(h); ok && got != scoreOf(h) {
					t.Errorf("hash %x returned %d, want %d", h, got, scoreOf(h))
					return
				}
			}
		}()
	}
	wg.Wait()
}
