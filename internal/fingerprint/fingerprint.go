// Package fingerprint derives the two 64-bit identifiers pixelcache keys on:
// a "basic hash" of a logical pipe intermediate (module stack + parameters,
// independent of viewport) and a "full hash" of a concrete buffer (basic
// hash folded with the active region of interest). Both are pure functions
// of their inputs — no global state, no I/O, no side effects — so identical
// inputs always yield identical outputs, in any process, at any time.
//
// The mixer is github.com/cespare/xxhash/v2: a 64-bit non-cryptographic
// hash that is more than collision-resistant enough for the realistic
// parameter-edit traffic a darkroom pipe produces, and fast enough to run
// on every module boundary of every pipe recompute.
//
// © 2025 pixelcache authors. MIT License.
package fingerprint

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/voskan/pixelcache/internal/pipeline"
	"github.com/voskan/pixelcache/internal/unsafehelpers"
)

// BasicHash combines the image identifier, the pipe's kind tag, and, in
// forward order, every *enabled* module strictly before position k, into a
// single 64-bit identifier of the logical intermediate produced at that
// point in the pipe (§4.1).
func BasicHash(imgID int32, pipe pipeline.Pipe, k int) uint64 {
	d := xxhash.New()
	writePrefix(d, imgID, pipe, k)
	return d.Sum64()
}

// Hash computes the full hash: BasicHash further combined with the four
// integer ROI fields and its scale. This identifies one concrete pixel
// buffer, not just the logical intermediate.
func Hash(imgID int32, roi pipeline.ROI, pipe pipeline.Pipe, k int) uint64 {
	d := xxhash.New()
	writePrefix(d, imgID, pipe, k)
	writeROI(d, roi)
	return d.Sum64()
}

// FullHashPair returns both the basic hash and the full hash in a single
// pass, reading the digest mid-stream to avoid recomputing the module-stack
// prefix twice (§4.1 fullhash_pair).
func FullHashPair(imgID int32, roi pipeline.ROI, pipe pipeline.Pipe, k int) (basic, full uint64) {
	d := xxhash.New()
	writePrefix(d, imgID, pipe, k)
	basic = d.Sum64()
	writeROI(d, roi)
	full = d.Sum64()
	return basic, full
}

// BasicHashPrior returns the basic hash at the position one past the last
// enabled module strictly before modulePos in the pipe's current ordering.
// If no such module exists, it returns the "input" hash (basic hash at
// k=0) — there is nothing upstream to key on, so the identity of the raw
// input image is the best available fingerprint.
func BasicHashPrior(imgID int32, pipe pipeline.Pipe, modulePos int) uint64 {
	mods := pipe.Modules()
	if modulePos > len(mods) {
		modulePos = len(mods)
	}
	for i := modulePos - 1; i >= 0; i-- {
		if mods[i].Enabled {
			return BasicHash(imgID, pipe, i+1)
		}
	}
	return BasicHash(imgID, pipe, 0)
}

/* -------------------------------------------------------------------------
   Serialization helpers
   ------------------------------------------------------------------------- */

func writePrefix(d *xxhash.Digest, imgID int32, pipe pipeline.Pipe, k int) {
	var hdr [5]byte
	binary.LittleEndian.PutUint32(hdr[:4], uint32(imgID))
	hdr[4] = byte(pipe.Kind())
	d.Write(hdr[:])

	mods := pipe.Modules()
	limit := k
	if limit > len(mods) {
		limit = len(mods)
	}
	if limit < 0 {
		limit = 0
	}
	for i := 0; i < limit; i++ {
		m := mods[i]
		if !m.Enabled {
			continue
		}
		writeModule(d, m)
	}
}

func writeModule(d *xxhash.Digest, m pipeline.Module) {
	var lenBuf [4]byte

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(m.OpName)))
	d.Write(lenBuf[:])
	d.Write(unsafehelpers.StringToBytes(m.OpName))

	var ids [8]byte
	binary.LittleEndian.PutUint32(ids[0:4], uint32(m.Instance))
	binary.LittleEndian.PutUint32(ids[4:8], uint32(m.Version))
	d.Write(ids[:])

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(m.ParamBlob)))
	d.Write(lenBuf[:])
	d.Write(m.ParamBlob)

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(m.BlendBlob)))
	d.Write(lenBuf[:])
	d.Write(m.BlendBlob)

	if m.Enabled {
		d.Write([]byte{1})
	} else {
		d.Write([]byte{0})
	}
}

func writeROI(d *xxhash.Digest, roi pipeline.ROI) {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(roi.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(roi.Y))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(roi.Width))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(roi.Height))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(roi.Scale))
	d.Write(buf[:])
}
