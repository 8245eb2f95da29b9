package mux2

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/arloliu/tidemux/compress"
	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/format"
	"github.com/arloliu/tidemux/section"
)

// Source is one MUX2 file and the weight its values are combined with.
//
// Weights may be any finite value and need not sum to one.
type Source struct {
	Path   string
	Weight float64
}

func (s Source) validate() error {
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
		return fmt.Errorf("%w: %s has weight %v", errs.ErrInvalidWeight, s.Path, s.Weight)
	}

	return nil
}

// sourceFile is an open source positioned at the start of its decompressed
// byte stream.
type sourceFile struct {
	f          *os.File
	rc         io.ReadCloser
	compressed bool
}

func openSource(path string) (*sourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrFileOpen, path, err)
	}

	codec, typ := compress.ForPath(path)
	rc, err := codec.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &sourceFile{f: f, rc: rc, compressed: typ != format.CompressionNone}, nil
}

func (s *sourceFile) Read(p []byte) (int, error) {
	return s.rc.Read(p)
}

func (s *sourceFile) Close() error {
	return errors.Join(s.rc.Close(), s.f.Close())
}

// dataBytes returns the number of bytes stored past offset, or -1 when the
// source is compressed.
func (s *sourceFile) dataBytes(offset int64) (int64, error) {
	if s.compressed {
		return -1, nil
	}

	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}

	return max(fi.Size()-offset, 0), nil
}

// skipTo moves to offset bytes from the start of the decompressed stream.
// It must be called before any read.
func (s *sourceFile) skipTo(offset int64) error {
	if !s.compressed {
		_, err := s.f.Seek(offset, io.SeekStart)
		return err
	}

	n, err := io.CopyN(io.Discard, s.rc, offset)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: stream ends at byte %d before the data block", errs.ErrCorruptHeader, n)
	}

	return err
}

// ReadHeader reads the header area of a single MUX2 file.
func ReadHeader(path string, engine endian.EndianEngine) (*section.Header, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	h, err := section.ReadHeader(bufio.NewReader(src), engine)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return h, nil
}

// loadBlock reads n float32 slots of the data block at offset into buf.
//
// buf must hold at least n*ValueSize bytes; the returned block aliases it.
func loadBlock(path string, offset, n int64, buf []byte, engine endian.EndianEngine) (section.Block, error) {
	src, err := openSource(path)
	if err != nil {
		return section.Block{}, err
	}
	defer src.Close()

	if err := src.skipTo(offset); err != nil {
		return section.Block{}, fmt.Errorf("%s: %w", path, err)
	}

	size := n * section.ValueSize
	got, err := io.ReadFull(src, buf[:size])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return section.Block{}, fmt.Errorf("%w: %s holds %d of %d data block bytes", errs.ErrCorruptDataBlock, path, got, size)
		}

		return section.Block{}, fmt.Errorf("%s: reading data block: %w", path, err)
	}

	return section.NewBlock(buf[:size], engine), nil
}
