package pixelcache

// print.go implements the cache's debug dump (§6 print): a JSON-able
// Snapshot plus a human-readable Print(), matching the instrumentation
// share of the component budget (§2 item 5). cmd/pixelcache-inspect polls
// this JSON shape over HTTP; the cache exposes it directly so a host can
// serve it verbatim at /debug/pixelcache/snapshot.
//
// © 2025 pixelcache authors. MIT License.

import (
	"fmt"
	"strings"
)

// EntrySnapshot is one row of a Cache's debug dump.
type EntrySnapshot struct {
	Index     int    `json:"index"`
	Occupied  bool   `json:"occupied"`
	BasicHash uint64 `json:"basic_hash"`
	Hash      uint64 `json:"hash"`
	Used      int    `json:"used"`
	SizeBytes int64  `json:"size_bytes"`
}

// Snapshot is the full diagnostic view of a Cache at a point in time.
type Snapshot struct {
	Name          string          `json:"name"`
	Queries       uint64          `json:"queries"`
	Misses        uint64          `json:"misses"`
	ResidentBytes int64           `json:"resident_bytes"`
	Entries       []EntrySnapshot `json:"entries"`
}

// Snapshot captures the cache's current state without mutating it: not a
// query, no weight changes, same as Available (§4.2).
func (c *Cache) Snapshot() Snapshot {
	snap := Snapshot{
		Name:    c.cfg.name,
		Queries: c.queries,
		Misses:  c.misses,
		Entries: make([]EntrySnapshot, len(c.entries)),
	}
	for i := range c.entries {
		e := &c.entries[i]
		snap.Entries[i] = EntrySnapshot{
			Index:     i,
			Occupied:  e.occupied,
			BasicHash: e.basicHash,
			Hash:      e.hash,
			Used:      e.used,
			SizeBytes: e.data.Size(),
		}
		snap.ResidentBytes += e.data.Size()
	}
	return snap
}

// Print renders a human-readable dump of the cache: one summary line plus
// one line per entry.
func (c *Cache) Print() string {
	snap := c.Snapshot()
	var sb strings.Builder
	fmt.Fprintf(&sb, "pixelcache %q: queries=%d misses=%d resident=%dB\n",
		snap.Name, snap.Queries, snap.Misses, snap.ResidentBytes)
	for _, e := range snap.Entries {
		if !e.Occupied {
			fmt.Fprintf(&sb, "  [%d] empty used=%d size=%dB\n", e.Index, e.Used, e.SizeBytes)
			continue
		}
		fmt.Fprintf(&sb, "  [%d] basic=%#016x hash=%#016x used=%d size=%dB\n",
			e.Index, e.BasicHash, e.Hash, e.Used, e.SizeBytes)
	}
	return sb.String()
}
