// Package evict implements the weight/age replacement policy pixelcache
// uses to choose which of its (very few, very large) entries to reuse.
//
// This began as an adaptation of a CLOCK-Pro supervisor: a circular
// list of hot/cold/test metadata nodes walked by a rotating hand. That
// machinery exists to amortize eviction decisions over thousands of small
// entries. pixelcache entries number in the single digits (N is typically
// 2-8, §3), so the whole cache fits in one O(N) scan; a linked ring buys
// nothing here and would make the required "victim = max weight, ties at
// lowest index" behaviour (§4.3, tested by P3/P4) harder to reason about
// than a direct scan over a weight slice. What survives from clockpro.go
// is the separation of *policy* (this package) from *storage* (pkg.Cache):
// the policy only ever sees a slice of integer weights, never the entries
// or buffers themselves.
//
// © 2025 pixelcache authors. MIT License.
package evict

// Policy computes eviction victims and weight transitions for a cache of a
// fixed entry count. It holds no per-entry state itself — the caller owns
// the weight slice — which keeps it trivially testable in isolation from
// pkg.Cache (see evict_test.go).
type Policy struct {
	entries int
}

// New returns a Policy tuned for a cache with the given entry count.
func New(entries int) *Policy {
	return &Policy{entries: entries}
}

// ImportantBias is the `used` value assigned by get_important: a pin strong
// enough to resist at least entries-1 rounds of aging (§4.3, §8 P4). The
// exact constant is not itself part of the contract — only the survival
// guarantee is (§9 Open Question) — but this reimplementation keeps the
// source's `-entries*2` for parity.
func (p *Policy) ImportantBias() int { return -p.entries * 2 }

// PinBias is the lighter pin applied by reweight() to an already-resident
// entry (§4.3: "-cache.entries").
func (p *Policy) PinBias() int { return -p.entries }

// Touch ages every weight except the one at idx, which is set to bias. This
// is the single mutating operation every non-probe cache call performs
// (§4.2 steps 2/4, §4.3): hits and allocations both "touch" exactly one
// slot and age all the others.
func (p *Policy) Touch(weights []int, idx int, bias int) {
	for i := range weights {
		if i == idx {
			weights[i] = bias
			continue
		}
		weights[i]++
	}
}

// Victim returns the index of the slot with the maximum weight, ties
// broken at the lowest index (§4.3, required deterministic by P3/P4). The
// maximum weight is always the least-recently-touched, least-pinned slot:
// pinned slots start deeply negative and age back up over many rounds,
// guaranteeing they eventually become eligible again (§4.3 forward
// progress guarantee).
func (p *Policy) Victim(weights []int) int {
	victim := 0
	for i := 1; i < len(weights); i++ {
		if weights[i] > weights[victim] {
			victim = i
		}
	}
	return victim
}
