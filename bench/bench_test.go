// Package bench provides reproducible micro-benchmarks for pixelcache.
// Run via:  go test ./bench -bench=. -benchmem
//
// We measure:
//   1. Get (hit path)     – repeated lookups of an already-resident entry
//   2. Get (miss/evict)   – a stream of fresh hashes, large enough to force
//                            continuous eviction on a small cache
//   3. GetImportant        – pinned-entry hit path
//   4. FullHashPair         – the fingerprint mixer in isolation, since it
//                            runs on every module boundary of every recompute
//
// © 2025 pixelcache authors. MIT License.
package bench

import (
	"testing"

	"github.com/voskan/pixelcache/internal/fingerprint"
	"github.com/voskan/pixelcache/internal/pipeline"
	cache "github.com/voskan/pixelcache/pkg"
)

const entrySize = 4 << 20 // 4 MiB, a realistic preview tile

func benchModules() []pipeline.Module {
	return []pipeline.Module{
		{OpName: "demosaic", Instance: 0, Version: 1, Enabled: true, ParamBlob: []byte{1, 2, 3, 4}},
		{OpName: "whitebalance", Instance: 0, Version: 1, Enabled: true, ParamBlob: []byte{5, 6}},
		{OpName: "exposure", Instance: 0, Version: 1, Enabled: true, ParamBlob: []byte{7}},
		{OpName: "sharpen", Instance: 0, Version: 1, Enabled: true, ParamBlob: []byte{8, 9}},
	}
}

func newBenchCache(entries int) *cache.Cache {
	c, err := cache.New(entries, entrySize)
	if err != nil {
		panic(err)
	}
	return c
}

func BenchmarkGetHit(b *testing.B) {
	c := newBenchCache(4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = c.Get(1, 42, entrySize)
	}
}

func BenchmarkGetMissEvictChurn(b *testing.B) {
	c := newBenchCache(4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = c.Get(1, uint64(i), entrySize)
	}
}

func BenchmarkGetImportantHit(b *testing.B) {
	c := newBenchCache(4)
	_, _, _, _ = c.GetImportant(1, 42, entrySize)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = c.GetImportant(1, 42, entrySize)
	}
}

func BenchmarkFullHashPair(b *testing.B) {
	pipe := pipeline.NewInMemoryPipe(pipeline.Preview, benchModules())
	roi := pipeline.ROI{Width: 1920, Height: 1080, Scale: 1.0}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fingerprint.FullHashPair(1, roi, pipe, len(benchModules()))
	}
}

func BenchmarkAvailableProbe(b *testing.B) {
	c := newBenchCache(4)
	_, _, _, _ = c.Get(1, 42, entrySize)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Available(42)
	}
}
