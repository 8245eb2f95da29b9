// Package urs reads legacy URS point files.
//
// A URS file holds one quantity (height, east or north velocity) for a list
// of points:
//
//	int32   point count
//	int32   step count
//	float32 sampling interval, seconds
//	point count × (lon, lat, depth) float32
//	step count × point count float32, one slice per step
//
// All values are little-endian unless NewReader is given another engine.
package urs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"

	"github.com/arloliu/tidemux/compress"
	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
)

const (
	headerSize = 12
	pointSize  = 12
	valueSize  = 4
)

// Point is the location of one URS point. Depth is the distance from the sea
// surface to the sea bottom in meters.
type Point struct {
	Lon   float32
	Lat   float32
	Depth float32
}

// Reader streams the time slices of a URS file.
//
// The slices can be iterated only once.
type Reader struct {
	r        io.Reader
	closer   io.Closer
	engine   endian.EndianEngine
	points   []Point
	steps    int
	dt       float32
	iterated bool
	err      error
}

// Open opens the URS file at path. Compressed files are detected by suffix.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrFileOpen, path, err)
	}

	codec, _ := compress.ForPath(path)
	rc, err := codec.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r, err := NewReader(bufio.NewReader(rc), endian.GetLittleEndianEngine())
	if err != nil {
		_ = multiCloser{rc, f}.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = multiCloser{rc, f}

	return r, nil
}

// NewReader reads the header and point table from r.
//
// Returns:
//   - *Reader: Positioned at the first time slice
//   - error: ErrBadURSHeader if a count or the interval is negative, or the
//     header is short
func NewReader(r io.Reader, engine endian.EndianEngine) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", errs.ErrBadURSHeader, err)
	}

	points := int32(engine.Uint32(hdr[0:4])) //nolint:gosec
	steps := int32(engine.Uint32(hdr[4:8]))  //nolint:gosec
	dt := math.Float32frombits(engine.Uint32(hdr[8:12]))

	if points < 0 || steps < 0 || dt < 0 {
		return nil, fmt.Errorf("%w: %d points, %d steps, interval %v", errs.ErrBadURSHeader, points, steps, dt)
	}

	ur := &Reader{
		r:      r,
		engine: engine,
		points: make([]Point, 0, min(int(points), 1<<16)),
		steps:  int(steps),
		dt:     dt,
	}

	var rec [pointSize]byte
	for i := range int(points) {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: reading point %d: %w", errs.ErrBadURSHeader, i, err)
		}
		ur.points = append(ur.points, Point{
			Lon:   math.Float32frombits(engine.Uint32(rec[0:4])),
			Lat:   math.Float32frombits(engine.Uint32(rec[4:8])),
			Depth: math.Float32frombits(engine.Uint32(rec[8:12])),
		})
	}

	return ur, nil
}

// Points returns the point table.
func (r *Reader) Points() []Point {
	return r.points
}

// Steps returns the number of time slices.
func (r *Reader) Steps() int {
	return r.steps
}

// TimeStep returns the sampling interval in seconds.
func (r *Reader) TimeStep() float32 {
	return r.dt
}

// Slices returns the sequence of (step, values) pairs, one value per point.
//
// Each yielded slice is newly allocated. A read failure stops the sequence;
// check Err afterwards.
//
// Returns:
//   - iter.Seq2[int, []float32]: The time slices in file order
//   - error: ErrAlreadyIterated if Slices was called before
//
// Example:
//
//	slices, err := r.Slices()
//	if err != nil {
//	    return err
//	}
//	for step, values := range slices {
//	    fmt.Println(step, values)
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
func (r *Reader) Slices() (iter.Seq2[int, []float32], error) {
	if r.iterated {
		return nil, errs.ErrAlreadyIterated
	}
	r.iterated = true

	return func(yield func(int, []float32) bool) {
		buf := make([]byte, len(r.points)*valueSize)
		for step := range r.steps {
			if _, err := io.ReadFull(r.r, buf); err != nil {
				r.err = fmt.Errorf("%w: step %d of %d: %w", errs.ErrTruncatedURSData, step, r.steps, err)
				return
			}

			values := make([]float32, len(r.points))
			for i := range values {
				values[i] = math.Float32frombits(r.engine.Uint32(buf[i*valueSize:]))
			}

			if !yield(step, values) {
				return
			}
		}
	}, nil
}

// Err returns the error that stopped the slice sequence, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	err := r.closer.Close()
	r.closer = nil

	return err
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var err error
	for _, c := range m {
		err = errors.Join(err, c.Close())
	}

	return err
}
