// Package muxtest builds MUX2 files for tests.
package muxtest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/tidemux/compress"
	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/section"
)

// DefaultDt is the sampling interval given to stations built with NewStation.
const DefaultDt float32 = 0.5

// Station is one station of a fixture file together with its recorded values.
type Station struct {
	Meta   section.StationMeta
	Window section.Window
	// Values holds one value per step of Window, First first.
	Values []float32
}

// NewStation returns a station with nt declared steps recording values over
// [first, last]. Pass first = last = -1 and no values for a station that never
// recorded; such a station is also placed outside every grid.
func NewStation(nt int32, first, last int32, values ...float32) Station {
	grid := int32(1)
	if first == section.NeverRecorded {
		grid = section.NeverActiveGrid
	}

	return Station{
		Meta: section.StationMeta{
			Grid: grid,
			Dt:   DefaultDt,
			Nt:   nt,
		},
		Window: section.Window{First: first, Last: last},
		Values: values,
	}
}

// At sets the station location and elevation.
func (s Station) At(lat, lon, z float32) Station {
	s.Meta.GeoLat = lat
	s.Meta.GeoLon = lon
	s.Meta.Z = z

	return s
}

// InGrid overrides the grid id.
func (s Station) InGrid(grid int32) Station {
	s.Meta.Grid = grid

	return s
}

// File is a fixture MUX2 file.
type File struct {
	Stations []Station
	// Engine is the byte order; nil selects little-endian.
	Engine endian.EndianEngine
}

// NewFile returns a little-endian file holding stations.
func NewFile(stations ...Station) *File {
	return &File{Stations: stations}
}

func (f *File) engine() endian.EndianEngine {
	if f.Engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return f.Engine
}

// Header returns the header area of the file.
func (f *File) Header() *section.Header {
	h := &section.Header{
		Stations: make([]section.StationMeta, len(f.Stations)),
		Windows:  make([]section.Window, len(f.Stations)),
	}
	for i, s := range f.Stations {
		h.Stations[i] = s.Meta
		h.Windows[i] = s.Window
	}

	return h
}

// Block returns the interleaved data block bytes.
//
// It panics if a station's Values do not cover its window exactly.
func (f *File) Block() []byte {
	engine := f.engine()
	h := f.Header()

	for i, s := range f.Stations {
		if int64(len(s.Values)) != s.Window.Span() {
			panic(fmt.Sprintf("muxtest: station %d has %d values for a window of %d steps", i, len(s.Values), s.Window.Span()))
		}
	}

	buf := make([]byte, 0, h.BlockLen()*section.ValueSize)
	lastStep := section.LastStep(h.Windows)
	for step := int32(1); step <= lastStep; step++ {
		buf = engine.AppendUint32(buf, math.Float32bits(float32(step-1)*DefaultDt))
		for _, s := range f.Stations {
			if s.Window.Active(step) {
				buf = engine.AppendUint32(buf, math.Float32bits(s.Values[step-s.Window.First]))
			}
		}
	}

	return buf
}

// Bytes returns the complete file image.
func (f *File) Bytes() []byte {
	return append(f.Header().Append(nil, f.engine()), f.Block()...)
}

// Write stores the file as dir/name and returns its path, compressing it with
// the codec implied by the name suffix.
func (f *File) Write(tb testing.TB, dir, name string) string {
	tb.Helper()

	return WriteBytes(tb, dir, name, f.Bytes())
}

// WriteBytes stores data as dir/name, compressing it with the codec implied by
// the name suffix, and returns the path.
func WriteBytes(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	codec, _ := compress.ForPath(name)
	out, err := codec.Compress(data)
	if err != nil {
		tb.Fatalf("muxtest: compress %s: %v", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out, 0o600); err != nil {
		tb.Fatalf("muxtest: write %s: %v", path, err)
	}

	return path
}
