package format

import "strings"

// CompressionType identifies how a MUX2 source file is stored on disk.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain mux2 file.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard-compressed file.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2 block-compressed file.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 block-compressed file.
)

// Suffix is the canonical file name suffix of a MUX2 source.
const Suffix = "mux2"

var compressionSuffixes = []struct {
	suffix string
	typ    CompressionType
}{
	{".zst", CompressionZstd},
	{".zstd", CompressionZstd},
	{".s2", CompressionS2},
	{".lz4", CompressionLZ4},
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// DetectCompression returns the compression implied by the path suffix and the
// path with that suffix removed.
//
// Paths without a known compression suffix are returned unchanged with
// CompressionNone.
func DetectCompression(path string) (CompressionType, string) {
	lower := strings.ToLower(path)
	for _, s := range compressionSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.typ, path[:len(path)-len(s.suffix)]
		}
	}

	return CompressionNone, path
}

// HasMuxSuffix reports whether the path, once any compression suffix is
// stripped, ends in "mux2".
func HasMuxSuffix(path string) bool {
	_, base := DetectCompression(path)

	return strings.HasSuffix(base, Suffix)
}
