//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// Compress compresses the input data using Zstandard compression.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// NewReader returns a streaming Zstandard decoder over r.
func (c ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{zr: gozstd.NewReader(r)}, nil
}

type gozstdReader struct {
	zr *gozstd.Reader
}

func (g *gozstdReader) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gozstdReader) Close() error {
	g.zr.Release()
	return nil
}
