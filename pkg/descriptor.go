package pixelcache

// ElementType names the scalar type packed into a buffer's channels.
type ElementType uint8

const (
	ElementFloat32 ElementType = iota
	ElementUint16
	ElementUint8
)

// Descriptor carries the metadata a pixel buffer needs to be interpreted,
// independent of the raw bytes themselves: channel count, element type,
// the raw sensor's color filter array pattern, and the black/white point
// used to normalize raw samples. It is a small value type, copied in and
// out of the cache by value (§3: "opaque value type, copied by the
// cache").
type Descriptor struct {
	Channels    int
	ElementType ElementType
	FiltersCFA  uint32
	BlackLevel  float32
	WhiteLevel  float32
}
