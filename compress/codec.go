package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/format"
)

// Compressor compresses a complete MUX2 file image.
//
// The returned slice is newly allocated and owned by the caller unless the
// codec documents otherwise (NoOpCompressor returns its input).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor wraps a compressed stream into a reader of the original bytes.
//
// The caller must Close the returned reader; closing it does not close r.
type Decompressor interface {
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// ForPath returns the codec implied by the path suffix.
func ForPath(path string) (Codec, format.CompressionType) {
	typ, _ := format.DetectCompression(path)

	return builtinCodecs[typ], typ
}
