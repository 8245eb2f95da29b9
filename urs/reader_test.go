package urs

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/muxtest"
	"github.com/stretchr/testify/require"
)

func encode(engine endian.EndianEngine, points, steps int32, dt float32, values ...float32) []byte {
	buf := engine.AppendUint32(nil, uint32(points)) //nolint:gosec
	buf = engine.AppendUint32(buf, uint32(steps))    //nolint:gosec
	buf = engine.AppendUint32(buf, math.Float32bits(dt))
	for _, v := range values {
		buf = engine.AppendUint32(buf, math.Float32bits(v))
	}

	return buf
}

// two points, three steps
func sample() []byte {
	return encode(endian.GetLittleEndianEngine(), 2, 3, 0.5,
		150.5, -34, 100, // point 0
		151, -35, 200, // point 1
		1, 2,
		3, 4,
		5, 6,
	)
}

func collect(t *testing.T, r *Reader) [][]float32 {
	t.Helper()

	slices, err := r.Slices()
	require.NoError(t, err)

	var out [][]float32
	for step, values := range slices {
		require.Equal(t, len(out), step)
		out = append(out, values)
	}

	return out
}

func TestNewReader(t *testing.T) {
	r, err := NewReader(bytes.NewReader(sample()), endian.GetLittleEndianEngine())
	require.NoError(t, err)

	require.Equal(t, 3, r.Steps())
	require.Equal(t, float32(0.5), r.TimeStep())
	require.Equal(t, []Point{{Lon: 150.5, Lat: -34, Depth: 100}, {Lon: 151, Lat: -35, Depth: 200}}, r.Points())

	require.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 6}}, collect(t, r))
	require.NoError(t, r.Err())
	require.NoError(t, r.Close())
}

func TestReader_IterateOnce(t *testing.T) {
	r, err := NewReader(bytes.NewReader(sample()), endian.GetLittleEndianEngine())
	require.NoError(t, err)

	_ = collect(t, r)

	_, err = r.Slices()
	require.ErrorIs(t, err, errs.ErrAlreadyIterated)
}

func TestReader_EarlyBreak(t *testing.T) {
	r, err := NewReader(bytes.NewReader(sample()), endian.GetLittleEndianEngine())
	require.NoError(t, err)

	slices, err := r.Slices()
	require.NoError(t, err)

	for step := range slices {
		if step == 1 {
			break
		}
	}
	require.NoError(t, r.Err())
}

func TestReader_Truncated(t *testing.T) {
	data := sample()
	r, err := NewReader(bytes.NewReader(data[:len(data)-2]), endian.GetLittleEndianEngine())
	require.NoError(t, err)

	require.Equal(t, [][]float32{{1, 2}, {3, 4}}, collect(t, r))
	require.ErrorIs(t, r.Err(), errs.ErrTruncatedURSData)
}

func TestNewReader_BadHeader(t *testing.T) {
	le := endian.GetLittleEndianEngine()

	tests := []struct {
		name string
		data []byte
	}{
		{"NegativePoints", encode(le, -1, 3, 0.5)},
		{"NegativeSteps", encode(le, 2, -3, 0.5)},
		{"NegativeInterval", encode(le, 2, 3, -0.5)},
		{"ShortHeader", encode(le, 2, 3, 0.5)[:10]},
		{"ShortPointTable", encode(le, 2, 3, 0.5, 1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data), le)
			require.ErrorIs(t, err, errs.ErrBadURSHeader)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"z-mux", "z-mux.zst", "z-mux.s2"} {
		t.Run(name, func(t *testing.T) {
			r, err := Open(muxtest.WriteBytes(t, dir, name, sample()))
			require.NoError(t, err)
			defer r.Close()

			require.Len(t, r.Points(), 2)
			require.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 6}}, collect(t, r))
			require.NoError(t, r.Err())
		})
	}

	_, err := Open(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, errs.ErrFileOpen)

	_, err = Open(muxtest.WriteBytes(t, dir, "bad", encode(endian.GetLittleEndianEngine(), -1, 0, 0)))
	require.ErrorIs(t, err, errs.ErrBadURSHeader)
}
