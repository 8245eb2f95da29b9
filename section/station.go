package section

import (
	"fmt"
	"math"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
)

// StationMeta is the fixed-size per-station record of a MUX2 file.
//
// The field order and widths follow the legacy tide gauge record byte for
// byte. Only Dt, Nt, Grid and the location fields are used by the merge; the
// rest are carried so a record can be re-serialised unchanged.
type StationMeta struct {
	GeoLat    float32 // byte offset 0-3, degrees
	GeoLon    float32 // byte offset 4-7, degrees
	McoLat    float32 // byte offset 8-11, mercator
	McoLon    float32 // byte offset 12-15, mercator
	Grid      int32   // byte offset 16-19, -1 if outside every grid
	ILon      int32   // byte offset 20-23, nearest grid point
	ILat      int32   // byte offset 24-27
	Z         float32 // byte offset 28-31, water depth / elevation
	CenterLat float32 // byte offset 32-35
	CenterLon float32 // byte offset 36-39
	Offset    float32 // byte offset 40-43
	Az        float32 // byte offset 44-47
	Baz       float32 // byte offset 48-51
	Dt        float32 // byte offset 52-55, sampling interval in seconds
	Nt        int32   // byte offset 56-59, declared series length

	ID [StationIDSize]byte // byte offset 60-75
}

// NeverActive reports whether the station lies outside every computational grid.
func (m *StationMeta) NeverActive() bool {
	return m.Grid == NeverActiveGrid
}

// Parse decodes a station record.
//
// Parameters:
//   - data: Exactly StationRecordSize bytes
//   - engine: Byte order of the file
//
// Returns:
//   - error: ErrCorruptHeader if data has the wrong size
func (m *StationMeta) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != StationRecordSize {
		return fmt.Errorf("%w: station record is %d bytes, want %d", errs.ErrCorruptHeader, len(data), StationRecordSize)
	}

	f32 := func(off int) float32 { return math.Float32frombits(engine.Uint32(data[off : off+4])) }
	i32 := func(off int) int32 { return int32(engine.Uint32(data[off : off+4])) } //nolint:gosec

	m.GeoLat = f32(0)
	m.GeoLon = f32(4)
	m.McoLat = f32(8)
	m.McoLon = f32(12)
	m.Grid = i32(16)
	m.ILon = i32(20)
	m.ILat = i32(24)
	m.Z = f32(28)
	m.CenterLat = f32(32)
	m.CenterLon = f32(36)
	m.Offset = f32(40)
	m.Az = f32(44)
	m.Baz = f32(48)
	m.Dt = f32(52)
	m.Nt = i32(56)
	copy(m.ID[:], data[60:StationRecordSize])

	return nil
}

// Append serialises the record onto buf.
func (m *StationMeta) Append(buf []byte, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint32(buf, math.Float32bits(m.GeoLat))
	buf = engine.AppendUint32(buf, math.Float32bits(m.GeoLon))
	buf = engine.AppendUint32(buf, math.Float32bits(m.McoLat))
	buf = engine.AppendUint32(buf, math.Float32bits(m.McoLon))
	buf = engine.AppendUint32(buf, uint32(m.Grid)) //nolint:gosec
	buf = engine.AppendUint32(buf, uint32(m.ILon)) //nolint:gosec
	buf = engine.AppendUint32(buf, uint32(m.ILat)) //nolint:gosec
	buf = engine.AppendUint32(buf, math.Float32bits(m.Z))
	buf = engine.AppendUint32(buf, math.Float32bits(m.CenterLat))
	buf = engine.AppendUint32(buf, math.Float32bits(m.CenterLon))
	buf = engine.AppendUint32(buf, math.Float32bits(m.Offset))
	buf = engine.AppendUint32(buf, math.Float32bits(m.Az))
	buf = engine.AppendUint32(buf, math.Float32bits(m.Baz))
	buf = engine.AppendUint32(buf, math.Float32bits(m.Dt))
	buf = engine.AppendUint32(buf, uint32(m.Nt)) //nolint:gosec

	return append(buf, m.ID[:]...)
}

// Bytes serialises the record into a new slice.
func (m *StationMeta) Bytes(engine endian.EndianEngine) []byte {
	return m.Append(make([]byte, 0, StationRecordSize), engine)
}

// ParseStationMeta decodes a station record from the start of data.
func ParseStationMeta(data []byte, engine endian.EndianEngine) (StationMeta, error) {
	if len(data) < StationRecordSize {
		return StationMeta{}, fmt.Errorf("%w: station record is %d bytes, want %d", errs.ErrCorruptHeader, len(data), StationRecordSize)
	}

	var m StationMeta
	if err := m.Parse(data[:StationRecordSize], engine); err != nil {
		return StationMeta{}, err
	}

	return m, nil
}
