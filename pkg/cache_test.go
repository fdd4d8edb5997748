package pixelcache

import "testing"

const testSize = 64

// mustGet fails the test on allocation error; every test in this file uses
// small fixed sizes, so ErrAllocFailed would indicate a real bug.
func mustGet(t *testing.T, c *Cache, basic, hash uint64, size int64) (data []byte, dsc *Descriptor, hit bool) {
	t.Helper()
	buf, d, hit, err := c.Get(basic, hash, size)
	if err != nil {
		t.Fatalf("Get(%d,%d,%d): unexpected error %v", basic, hash, size, err)
	}
	return buf.Bytes(), d, hit
}

func TestBasicReuse(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a1, _, hit1 := mustGet(t, c, 1, 10, testSize)
	if hit1 {
		t.Fatalf("first Get for a fresh hash must miss")
	}
	a2, _, hit2 := mustGet(t, c, 1, 10, testSize)
	if !hit2 {
		t.Fatalf("second Get for the same hash must hit")
	}
	if &a1[0] != &a2[0] {
		t.Fatalf("hit must return the same backing buffer as the miss that created it")
	}
	if c.Queries() != 2 || c.Misses() != 1 {
		t.Fatalf("queries=%d misses=%d, want 2/1", c.Queries(), c.Misses())
	}
}

func TestLRUEviction(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustGet(t, c, 0, 10, testSize)
	mustGet(t, c, 0, 20, testSize)
	mustGet(t, c, 0, 30, testSize)

	_, _, hit := mustGet(t, c, 0, 40, testSize)
	if hit {
		t.Fatalf("40 must be a fresh miss")
	}
	if c.Available(10) {
		t.Fatalf("oldest entry (10) should have been evicted")
	}
	if !c.Available(20) {
		t.Fatalf("20 should still be resident")
	}
	if !c.Available(30) {
		t.Fatalf("30 should still be resident")
	}
}

func TestHitRefreshesAge(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustGet(t, c, 0, 10, testSize)
	mustGet(t, c, 0, 20, testSize)
	mustGet(t, c, 0, 30, testSize)

	// Touch 10 again before inserting a fresh hash: this should make 20 the
	// least-recently-used entry instead of 10.
	_, _, hit := mustGet(t, c, 0, 10, testSize)
	if !hit {
		t.Fatalf("10 should still be resident before the refresh")
	}

	mustGet(t, c, 0, 40, testSize)

	if !c.Available(10) {
		t.Fatalf("10 was refreshed and must survive")
	}
	if c.Available(20) {
		t.Fatalf("20 must be the one evicted, not 10")
	}
	if !c.Available(30) {
		t.Fatalf("30 must still be resident")
	}
}

func TestPinning(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, hit, err := c.GetImportant(0, 10, testSize); err != nil {
		t.Fatalf("GetImportant: %v", err)
	} else if hit {
		t.Fatalf("10 must be a fresh miss")
	}

	mustGet(t, c, 0, 20, testSize)
	mustGet(t, c, 0, 30, testSize)
	mustGet(t, c, 0, 40, testSize)

	if !c.Available(10) {
		t.Fatalf("pinned entry 10 must survive eviction pressure")
	}
	if c.Available(20) {
		t.Fatalf("20 (not pinned) must be the victim, not 10")
	}
}

func TestPinEventuallyAgesOut(t *testing.T) {
	// P4: an important pin survives at least entries-1 fresh Get calls, but
	// not forever — it must eventually become a victim again so the cache
	// makes forward progress.
	const n = 3
	c, err := New(n, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, _, err := c.GetImportant(0, 10, testSize); err != nil {
		t.Fatalf("GetImportant: %v", err)
	}

	survivedRounds := 0
	for h := uint64(100); h < 100+50; h++ {
		mustGet(t, c, 0, h, testSize)
		if c.Available(10) {
			survivedRounds++
		} else {
			break
		}
	}
	if survivedRounds < n-1 {
		t.Fatalf("pinned entry must survive at least %d rounds, survived %d", n-1, survivedRounds)
	}
	if c.Available(10) {
		t.Fatalf("pinned entry never aged out within 50 fresh Gets")
	}
}

func TestAvailableDoesNotDisturbState(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustGet(t, c, 0, 10, testSize)
	mustGet(t, c, 0, 20, testSize)
	mustGet(t, c, 0, 30, testSize)

	queriesBefore := c.Queries()
	for i := 0; i < 5; i++ {
		c.Available(10)
		c.Available(999)
	}
	if c.Queries() != queriesBefore {
		t.Fatalf("Available must not increment the query counter")
	}

	// The next Get(40) must still evict 10 (the oldest), exactly as if the
	// Available probes above never happened.
	mustGet(t, c, 0, 40, testSize)
	if c.Available(10) {
		t.Fatalf("Available probes must not have changed the eviction outcome")
	}
	if !c.Available(20) || !c.Available(30) {
		t.Fatalf("20 and 30 must remain resident")
	}
}

func TestFlushAllBut(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustGet(t, c, 1, 10, testSize)
	mustGet(t, c, 2, 20, testSize)
	mustGet(t, c, 1, 30, testSize)

	c.FlushAllBut(1)

	if !c.Available(10) {
		t.Fatalf("basicHash=1 entry (10) must survive")
	}
	if c.Available(20) {
		t.Fatalf("basicHash=2 entry (20) must be flushed")
	}
	if !c.Available(30) {
		t.Fatalf("basicHash=1 entry (30) must survive")
	}
}

func TestInvalidateByPointer(t *testing.T) {
	c, err := New(3, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf, _, _, err := c.Get(0, 10, testSize)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	c.Invalidate(buf)

	if c.Available(10) {
		t.Fatalf("invalidated entry must no longer be available under its old hash")
	}

	_, _, hit := mustGet(t, c, 0, 10, testSize)
	if hit {
		t.Fatalf("re-requesting an invalidated hash must miss")
	}
}

func TestInvalidateUnknownPointerIsNoop(t *testing.T) {
	c, err := New(2, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mustGet(t, c, 0, 10, testSize)
	c.Invalidate(nil) // must not panic
	if !c.Available(10) {
		t.Fatalf("Invalidate(nil) must not disturb unrelated entries")
	}
}

func TestReweightUnknownPointerIsNoop(t *testing.T) {
	c, err := New(2, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Reweight(nil) // must not panic
}

// TestExactlyOneZeroWeightAfterPlainGet checks invariant I4: after every Get, exactly
// one entry has used == 0 (unless it was pinned to a non-zero bias).
func TestExactlyOneZeroWeightAfterPlainGet(t *testing.T) {
	c, err := New(4, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for h := uint64(1); h <= 6; h++ {
		mustGet(t, c, 0, h, testSize)
		snap := c.Snapshot()
		zeros := 0
		for _, e := range snap.Entries {
			if e.Used == 0 {
				zeros++
			}
		}
		if zeros != 1 {
			t.Fatalf("after Get(%d): expected exactly one used==0 entry, got %d", h, zeros)
		}
	}
}

func TestGrowsBufferOnLargerRequest(t *testing.T) {
	c, err := New(2, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf, _, _, err := c.Get(0, 1, 16)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if buf.Size() < 16 {
		t.Fatalf("buffer should be at least 16 bytes, got %d", buf.Size())
	}

	bigger, _, hit, err := c.Get(0, 1, 4096)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatalf("same hash must still be a hit even though the size grew")
	}
	if bigger.Size() < 4096 {
		t.Fatalf("buffer must have grown to at least 4096 bytes, got %d", bigger.Size())
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	c, err := New(2, testSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Cleanup()
	c.Cleanup() // must not panic
}
