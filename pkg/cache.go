// Package pixelcache implements the pixel-pipeline cache: a small,
// fixed-capacity associative store keyed by pipeline-state fingerprints,
// holding large raw float buffers plus per-entry metadata. A cache is owned
// by exactly one darkroom pipe; all operations on it are single-threaded
// cooperative (§5) — the package adds no internal locking of its own.
//
// © 2025 pixelcache authors. MIT License.
package pixelcache

import (
	"go.uber.org/zap"

	"github.com/voskan/pixelcache/internal/buffer"
	"github.com/voskan/pixelcache/internal/evict"
)

// entry is one slot of the fixed-size cache array (§3). occupied replaces
// the traditional "unlikely to collide" sentinel-hash approach: it makes
// "is this slot live" trivially correct rather than merely improbable
// (§9 Design Notes, §11 Open Question Decisions).
type entry struct {
	data      *buffer.Buffer
	dsc       Descriptor
	basicHash uint64
	hash      uint64
	used      int
	occupied  bool
}

// Cache is the fixed-capacity, weight-aged pixel buffer store described by
// §3-§5. It is constructed with New and must not be copied after first use.
type Cache struct {
	entries []entry
	policy  *evict.Policy

	queries uint64
	misses  uint64

	cfg     *config
	metrics metricsSink
}

// New constructs a Cache with `entries` slots, each pre-allocated to at
// least `initialSize` bytes (§6 init). An entries value below 1 is treated
// as 1. Construction
// fails only if the initial allocations cannot be satisfied (§4.6).
func New(entries int, initialSize int64, opts ...Option) (*Cache, error) {
	if entries <= 0 {
		entries = 1
	}

	cfg := defaultConfig()
	applyOptions(cfg, opts)

	c := &Cache{
		entries: make([]entry, entries),
		policy:  evict.New(entries),
		cfg:     cfg,
		metrics: newMetricsSink(cfg.registry),
	}

	for i := range c.entries {
		buf, err := buffer.New(initialSize)
		if err != nil {
			cfg.logger.Error("pixelcache: initial allocation failed",
				zap.String("cache", cfg.name), zap.Int("entry", i), zap.Error(err))
			return nil, wrapAllocErr(err)
		}
		c.entries[i].data = buf
	}
	return c, nil
}

// Name returns the cache's diagnostic name, set via WithName (default
// "default").
func (c *Cache) Name() string { return c.cfg.name }

// Queries returns the total number of Get/GetImportant/GetWeighted calls
// made so far (§3: "monotonically increasing instrumentation counters").
func (c *Cache) Queries() uint64 { return c.queries }

// Misses returns the total number of those calls that did not find a
// matching entry.
func (c *Cache) Misses() uint64 { return c.misses }

// Entries returns the cache's fixed capacity N.
func (c *Cache) Entries() int { return len(c.entries) }

// Cleanup releases the cache's buffers. It is idempotent: calling it more
// than once, or on a zero Cache, is a no-op.
func (c *Cache) Cleanup() {
	for i := range c.entries {
		c.entries[i] = entry{}
	}
}

// Get looks up (basicHash, hash) and returns a buffer of at least `size`
// bytes, allocating/evicting on a miss. The hit flag tells the caller
// whether it must recompute the contents; the cache never fails to
// produce *a* usable buffer, only to produce one with valid data (§4.2).
func (c *Cache) Get(basicHash, hash uint64, size int64) (*buffer.Buffer, *Descriptor, bool, error) {
	return c.get(basicHash, hash, size, 0)
}

// GetImportant behaves like Get but pins the returned entry with a strong
// bias (§4.3) so it survives several rounds of aging before becoming a
// victim candidate again.
func (c *Cache) GetImportant(basicHash, hash uint64, size int64) (*buffer.Buffer, *Descriptor, bool, error) {
	return c.get(basicHash, hash, size, c.policy.ImportantBias())
}

// GetWeighted behaves like Get but sets the returned entry's weight to the
// caller-supplied value, typically negative to pin it with custom
// priority (§4.3).
func (c *Cache) GetWeighted(basicHash, hash uint64, size int64, weight int) (*buffer.Buffer, *Descriptor, bool, error) {
	return c.get(basicHash, hash, size, weight)
}

func (c *Cache) get(basicHash, hash uint64, size int64, bias int) (*buffer.Buffer, *Descriptor, bool, error) {
	c.queries++
	c.metrics.incQuery(c.cfg.name)

	if idx, ok := c.findByHash(hash); ok {
		if grew, err := c.entries[idx].data.Grow(size); err != nil {
			return nil, nil, false, wrapAllocErr(err)
		} else if grew {
			c.logGrowth(idx, c.entries[idx].data.Size())
			c.updateResidentBytes()
		}
		c.touch(idx, bias)
		return c.entries[idx].data, &c.entries[idx].dsc, true, nil
	}

	c.misses++
	c.metrics.incMiss(c.cfg.name)

	victim := c.victim()
	if c.entries[victim].occupied {
		c.metrics.incEvict(c.cfg.name)
	}

	if grew, err := c.entries[victim].data.Grow(size); err != nil {
		return nil, nil, false, wrapAllocErr(err)
	} else if grew {
		c.logGrowth(victim, c.entries[victim].data.Size())
	}

	c.entries[victim].basicHash = basicHash
	c.entries[victim].hash = hash
	c.entries[victim].occupied = true
	c.touch(victim, bias)

	c.updateResidentBytes()
	return c.entries[victim].data, &c.entries[victim].dsc, false, nil
}

// Available is a non-destructive probe: it reports whether some entry
// currently holds `hash`, without touching any entry's weight and without
// counting as a query (§4.2).
func (c *Cache) Available(hash uint64) bool {
	_, ok := c.findByHash(hash)
	return ok
}

// Flush resets every entry to empty: hash/basicHash cleared, used reset to
// 0. Buffers are zeroed in place, never freed (§4.4, §3 Lifecycle).
func (c *Cache) Flush() {
	for i := range c.entries {
		c.clearEntry(i)
	}
	c.updateResidentBytes()
}

// FlushAllBut resets every entry whose basicHash differs from the given
// value, leaving entries that still belong to the preserved logical
// intermediate untouched (§4.4).
func (c *Cache) FlushAllBut(basicHash uint64) {
	for i := range c.entries {
		if c.entries[i].occupied && c.entries[i].basicHash == basicHash {
			continue
		}
		c.clearEntry(i)
	}
	c.updateResidentBytes()
}

// Invalidate locates the entry whose buffer is `data` and flushes it. A
// pointer that belongs to no entry is silently ignored (§4.4, §4.6).
func (c *Cache) Invalidate(data *buffer.Buffer) {
	if idx, ok := c.findByData(data); ok {
		c.clearEntry(idx)
		c.updateResidentBytes()
	}
}

// Reweight locates the entry whose buffer is `data` and re-pins it with the
// policy's PinBias (-entries), a lighter pin than GetImportant's. A pointer
// that belongs to no entry is silently ignored.
func (c *Cache) Reweight(data *buffer.Buffer) {
	if idx, ok := c.findByData(data); ok {
		c.touch(idx, c.policy.PinBias())
	}
}

func (c *Cache) clearEntry(idx int) {
	e := &c.entries[idx]
	e.occupied = false
	e.basicHash = 0
	e.hash = 0
	e.used = 0
	e.dsc = Descriptor{}
	e.data.Zero()
}

func (c *Cache) findByHash(hash uint64) (int, bool) {
	for i := range c.entries {
		if c.entries[i].occupied && c.entries[i].hash == hash {
			return i, true
		}
	}
	return 0, false
}

func (c *Cache) findByData(data *buffer.Buffer) (int, bool) {
	for i := range c.entries {
		if c.entries[i].data == data {
			return i, true
		}
	}
	return 0, false
}

// weights projects the entry array's `used` fields into the flat slice the
// eviction policy operates over. This allocates; for the very small N this
// cache is designed for (§3: typically 2-8) that cost is negligible next
// to the multi-megabyte buffers each entry owns. internal/evict only ever
// sees this slice, never the entries or buffers themselves.
func (c *Cache) weights() []int {
	w := make([]int, len(c.entries))
	for i := range c.entries {
		w[i] = c.entries[i].used
	}
	return w
}

// touch ages every entry except idx, which is set to bias, then writes the
// result back onto the entries (§4.2 steps 2/4, §4.3).
func (c *Cache) touch(idx, bias int) {
	w := c.weights()
	c.policy.Touch(w, idx, bias)
	for i := range c.entries {
		c.entries[i].used = w[i]
	}
}

// victim asks the policy which entry to reuse on a miss, without mutating
// any weight (the touch that follows handles that).
func (c *Cache) victim() int {
	return c.policy.Victim(c.weights())
}

func (c *Cache) logGrowth(idx int, newSize int64) {
	if newSize < c.cfg.growthLogThreshold {
		return
	}
	c.cfg.logger.Info("pixelcache: entry grown",
		zap.String("cache", c.cfg.name), zap.Int("entry", idx), zap.Int64("bytes", newSize))
}

func (c *Cache) updateResidentBytes() {
	var total int64
	for i := range c.entries {
		total += c.entries[i].data.Size()
	}
	c.metrics.setResidentBytes(c.cfg.name, total)
}
