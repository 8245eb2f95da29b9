package compress

// ZstdCompressor reads and writes Zstandard frames.
//
// The default build uses the pure-Go klauspost/compress/zstd implementation.
// Building with both cgo and the gozstd tag switches to valyala/gozstd, which
// decodes large archives noticeably faster.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
