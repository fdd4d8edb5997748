// Package unsafehelpers centralises the unavoidable usage of the `unsafe`
// standard-library package so that the rest of pixelcache stays clean and
// easier to audit. Every helper is documented with clear pre-/post-
// conditions.
//
// DISCLAIMER: these helpers deliberately break the Go memory-safety model
// for the sake of zero-allocation conversions. Use ONLY inside this
// repository; they are not part of the public API and may change without
// notice. Misuse will lead to subtle data races or garbage-collector
// corruption.
//
// © 2025 pixelcache authors. MIT License.

package unsafehelpers

import "unsafe"

// StringToBytes re-interprets string data as a byte slice using unsafe.Pointer.
// The slice MUST remain read-only; writing to it will mutate immutable string storage and crash in future versions of Go.
//
// Used by internal/fingerprint to feed a module's op-name straight into the
// hash mixer without an intermediate []byte allocation per module per hash.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	strHdr := (*[2]uintptr)(unsafe.Pointer(&s))
	return unsafe.Slice((*byte)(unsafe.Pointer(strHdr[0])), strHdr[1])
}

// AlignUp rounds x up to the nearest multiple of align (which must be a power
// of two). Used by internal/buffer to round entry growth up to the float32
// element stride.
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}
