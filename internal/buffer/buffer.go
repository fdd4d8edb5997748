// Package buffer owns the large raw pixel buffers held by pixelcache
// entries. It began life as a thin wrapper around Go's experimental `arena`
// allocator; that model fit a cache whose entries are born and freed in
// bulk. pixelcache entries are never freed individually — invariant I1 forbids
// creating or destroying an entry after construction — but they *do* grow,
// sometimes repeatedly, as the darkroom viewport is resized or zoomed. A
// bump allocator that can only free-everything-at-once cannot express that,
// so the backing store here is a plain growable byte slice instead.
//
// © 2025 pixelcache authors. MIT License.
package buffer

import (
	"errors"

	"github.com/voskan/pixelcache/internal/unsafehelpers"
)

// ErrAllocFailed is returned by Grow when the requested size cannot be
// satisfied: either it exceeds maxSize (a sanity backstop no real preview
// buffer should ever approach) or the runtime allocator itself panics,
// which Grow recovers from and turns into this error rather than letting
// the panic unwind into cache code (§4.6: reallocation failure must be
// reported to the caller, not crash the process).
var ErrAllocFailed = errors.New("buffer: allocation failed")

// maxSize is a defensive upper bound of 1 TiB, far above a single-channel
// float32 buffer for a 1-gigapixel image (4 GiB). Nothing a real darkroom
// pipe requests should come close; it exists so a corrupted size
// computation fails loudly instead of attempting a multi-terabyte
// allocation.
const maxSize = int64(1) << 40

// elementStride is the alignment unit buffer growth rounds up to: pixelcache
// entries store packed float32 channels, so 4-byte alignment keeps every
// grown allocation usable as a []float32 view without a copy.
const elementStride = 4

// Buffer is the owning handle a Cache entry keeps for one logical pixel
// buffer. It is reused in place across lookups (§3 I1/I2): Grow
// only reallocates when the requested size exceeds the current capacity,
// and never shrinks, so a buffer that once served a large preview does not
// repeatedly pay allocation cost as the user zooms back out.
type Buffer struct {
	data []byte
}

// New allocates a Buffer with at least `size` bytes of backing storage.
// Returns ErrAllocFailed if the initial allocation cannot be satisfied.
func New(size int64) (*Buffer, error) {
	b := &Buffer{}
	if _, err := b.Grow(size); err != nil {
		return nil, err
	}
	return b, nil
}

// Grow ensures the buffer holds at least `size` bytes, reallocating if
// necessary. It reports whether a reallocation actually happened, which
// callers use to decide whether a growth event is worth logging. On
// failure the buffer is left exactly as it was before the call.
func (b *Buffer) Grow(size int64) (grew bool, err error) {
	if size < 0 {
		size = 0
	}
	if size > maxSize {
		return false, ErrAllocFailed
	}
	aligned := int64(unsafehelpers.AlignUp(uintptr(size), elementStride))
	if int64(len(b.data)) >= aligned {
		return false, nil
	}
	if allocErr := b.tryAlloc(aligned); allocErr != nil {
		return false, allocErr
	}
	return true, nil
}

// tryAlloc recovers from the allocator panicking on an unsatisfiable
// request (e.g. out of memory) and reports it as ErrAllocFailed instead.
func (b *Buffer) tryAlloc(n int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrAllocFailed
		}
	}()
	b.data = make([]byte, n)
	return nil
}

// Bytes returns the full backing slice. Its length is always >= the size
// last requested via Grow/New; callers that need an exact-size view should
// reslice themselves.
func (b *Buffer) Bytes() []byte { return b.data }

// Size reports the number of bytes currently backing the buffer.
func (b *Buffer) Size() int64 { return int64(len(b.data)) }

// Zero clears the buffer without releasing its backing storage, mirroring
// flush()'s "zeroed, not freed" contract (§3 Lifecycle).
func (b *Buffer) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}
