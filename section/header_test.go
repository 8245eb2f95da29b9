package section

import (
	"bytes"
	"testing"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/hash"
	"github.com/stretchr/testify/require"
)

func testHeader() *Header {
	a := testStation()
	b := testStation()
	b.GeoLat = -21
	b.Grid = NeverActiveGrid

	return &Header{
		Stations: []StationMeta{a, b},
		Windows:  []Window{{First: 1, Last: 3}, {First: NeverRecorded, Last: NeverRecorded}},
	}
}

func TestReadHeader(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			original := testHeader()
			data := original.Append(nil, engine)
			require.Len(t, data, int(BlockOffset(2)))

			// Trailing block bytes must not be consumed.
			r := bytes.NewReader(append(data, 1, 2, 3, 4))
			parsed, err := ReadHeader(r, engine)
			require.NoError(t, err)
			require.Equal(t, original.Stations, parsed.Stations)
			require.Equal(t, original.Windows, parsed.Windows)
			require.Equal(t, 2, parsed.Count())
			require.Equal(t, int64(6), parsed.BlockLen())
			require.Equal(t, BlockOffset(2), parsed.BlockOffset())
			require.Equal(t, 4, r.Len())

			table := data[CountSize : CountSize+2*StationRecordSize]
			require.Equal(t, hash.Fingerprint(table), parsed.Fingerprint)
		})
	}
}

func TestReadHeader_Errors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := testHeader().Append(nil, engine)

	t.Run("Empty", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader(nil), engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("NegativeCount", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader(engine.AppendUint32(nil, 0xFFFFFFFE)), engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("TruncatedStationTable", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader(data[:CountSize+StationRecordSize+10]), engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("NegativeSeriesLength", func(t *testing.T) {
		h := testHeader()
		h.Stations[1].Nt = -3

		_, err := ReadHeader(bytes.NewReader(h.Append(nil, engine)), engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
		require.ErrorContains(t, err, "station 1 declares -3 steps")
	})

	t.Run("TruncatedWindows", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader(data[:len(data)-2]), engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})
}

func TestReadHeader_ZeroStations(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	h, err := ReadHeader(bytes.NewReader(engine.AppendUint32(nil, 0)), engine)
	require.NoError(t, err)
	require.Zero(t, h.Count())
	require.Zero(t, h.BlockLen())
}
