package section

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/hash"
)

// Header is the parsed header area of a MUX2 file.
type Header struct {
	// Stations holds one metadata record per station, in file order.
	Stations []StationMeta
	// Windows holds the recording window of each station in this file.
	Windows []Window
	// Fingerprint is the xxHash64 of the raw station table.
	Fingerprint uint64
}

// Count returns the number of stations in the file.
func (h *Header) Count() int {
	return len(h.Stations)
}

// BlockLen returns the number of float32 slots in the data block.
func (h *Header) BlockLen() int64 {
	return BlockLen(h.Windows)
}

// BlockOffset returns the byte offset of the data block.
func (h *Header) BlockOffset() int64 {
	return BlockOffset(len(h.Stations))
}

// Append serialises the header area onto buf.
func (h *Header) Append(buf []byte, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint32(buf, uint32(len(h.Stations))) //nolint:gosec
	for i := range h.Stations {
		buf = h.Stations[i].Append(buf, engine)
	}
	for _, w := range h.Windows {
		buf = engine.AppendUint32(buf, uint32(w.First)) //nolint:gosec
	}
	for _, w := range h.Windows {
		buf = engine.AppendUint32(buf, uint32(w.Last)) //nolint:gosec
	}

	return buf
}

// ReadStationCount reads the leading station count.
func ReadStationCount(r io.Reader, engine endian.EndianEngine) (int, error) {
	var b [CountSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, headerReadError("station count", err)
	}

	n := int32(engine.Uint32(b[:])) //nolint:gosec
	if n < 0 {
		return 0, fmt.Errorf("%w: negative station count %d", errs.ErrCorruptHeader, n)
	}

	return int(n), nil
}

// ReadStationTable reads n station records and fingerprints the raw bytes.
func ReadStationTable(r io.Reader, n int, engine endian.EndianEngine) ([]StationMeta, uint64, error) {
	var rec [StationRecordSize]byte

	h := hash.NewHasher()
	stations := make([]StationMeta, 0, min(n, 1<<16))
	for i := range n {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, 0, headerReadError(fmt.Sprintf("station record %d", i), err)
		}
		h.Write(rec[:])

		var m StationMeta
		if err := m.Parse(rec[:], engine); err != nil {
			return nil, 0, err
		}
		if m.Nt < 0 {
			return nil, 0, fmt.Errorf("%w: station %d declares %d steps", errs.ErrCorruptHeader, i, m.Nt)
		}
		stations = append(stations, m)
	}

	return stations, h.Sum(), nil
}

// ReadWindows reads the first-step table followed by the last-step table.
func ReadWindows(r io.Reader, n int, engine endian.EndianEngine) ([]Window, error) {
	var b [StepSize]byte

	windows := make([]Window, 0, min(n, 1<<16))
	for i := range n {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, headerReadError(fmt.Sprintf("first step of station %d", i), err)
		}
		windows = append(windows, Window{First: int32(engine.Uint32(b[:]))}) //nolint:gosec
	}

	for i := range n {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, headerReadError(fmt.Sprintf("last step of station %d", i), err)
		}
		windows[i].Last = int32(engine.Uint32(b[:])) //nolint:gosec
	}

	return windows, nil
}

// ReadHeader reads the complete header area from r.
//
// r is consumed up to the start of the data block. Wrap unbuffered readers in
// a bufio.Reader; the header is read in 4-byte and 76-byte pieces.
//
// Returns:
//   - *Header: Parsed station table and recording windows
//   - error: ErrCorruptHeader on short reads, a negative station count or a
//     negative series length
func ReadHeader(r io.Reader, engine endian.EndianEngine) (*Header, error) {
	n, err := ReadStationCount(r, engine)
	if err != nil {
		return nil, err
	}

	stations, fingerprint, err := ReadStationTable(r, n, engine)
	if err != nil {
		return nil, err
	}

	windows, err := ReadWindows(r, n, engine)
	if err != nil {
		return nil, err
	}

	return &Header{
		Stations:    stations,
		Windows:     windows,
		Fingerprint: fingerprint,
	}, nil
}

func headerReadError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s: %w", errs.ErrCorruptHeader, what, err)
	}

	return fmt.Errorf("reading %s: %w", what, err)
}
