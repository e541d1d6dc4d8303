package engine

import "sync/atomic"

const (
	// DefaultEvalCacheMB is the eval cache size used when none is configured.
	DefaultEvalCacheMB = 25
	// MaxEvalCacheMB caps the eval cache size.
	MaxEvalCacheMB = 1024

	evalEntrySize = 16
	mib           = 1 << 20
)

// evalEntry stores hash^data next to data so a reader can tell whether
// both words came from the same write.
type evalEntry struct {
	hash atomic.Uint64
	data atomic.Uint64
}

// EvalCache memoizes static evaluations by position hash. It is shared by
// every search worker without locks: each word is accessed atomically, but
// the pair is not, so a reader can observe one word from one write and the
// other word from another. Such torn entries fail the XOR check and read
// as misses. A torn entry can still pass by coincidence, so a hit is only
// ever a hint.
type EvalCache struct {
	entries  []evalEntry
	capacity uint64
	sizeMB   int
}

// NewEvalCache allocates a cache of mb megabytes, clamped to
// [1, MaxEvalCacheMB].
func NewEvalCache(mb int) *EvalCache {
	c := &EvalCache{}
	c.Resize(mb)
	return c
}

// Resize reallocates the cache, discarding every entry. It must not run
// concurrently with Add or TryGetScore.
func (c *EvalCache) Resize(mb int) {
	mb = clamp(mb, 1, MaxEvalCacheMB)
	c.capacity = uint64(mb) * mib / evalEntrySize
	c.entries = make([]evalEntry, c.capacity)
	c.sizeMB = mb
}

// Capacity returns the number of slots.
func (c *EvalCache) Capacity() uint64 {
	return c.capacity
}

// SizeMB returns the configured size.
func (c *EvalCache) SizeMB() int {
	return c.sizeMB
}

// Add stores score for hash, replacing whatever occupied the slot.
func (c *EvalCache) Add(hash uint64, score int16) {
	e := &c.entries[hash%c.capacity]
	data := uint64(uint16(score))
	e.hash.Store(hash ^ data)
	e.data.Store(data)
}

// TryGetScore returns the cached score for hash.
func (c *EvalCache) TryGetScore(hash uint64) (int16, bool) {
	e := &c.entries[hash%c.capacity]
	data := e.data.Load()
	if e.hash.Load()^data != hash {
		return 0, false
	}
	return int16(uint16(data)), true
}

// Clear empties the cache. It must not run concurrently with Add.
func (c *EvalCache) Clear() {
	for i := range c.entries {
		c.entries[i].hash.Store(0)
		c.entries[i].data.Store(0)
	}
}
