package mux2

import (
	"bufio"
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/format"
	"github.com/arloliu/tidemux/section"
)

// Catalog is the validated header information of a list of sources.
type Catalog struct {
	// Stations is the station table of the first source. Later sources agree
	// with it on sampling interval and series length.
	Stations []section.StationMeta
	// Windows holds each source's recording windows, indexed [source][station].
	Windows [][]section.Window
	// BlockLens holds each source's data block length in float32 slots.
	BlockLens []int64
	// MaxBlockLen is the largest entry of BlockLens.
	MaxBlockLen int64
	// BlockOffset is the byte offset of the data block, equal for all sources.
	BlockOffset int64
	// Fingerprint is the xxHash64 of the first source's station table.
	Fingerprint uint64
}

// Count returns the number of stations.
func (c *Catalog) Count() int {
	return len(c.Stations)
}

// SamplingInterval returns the sampling interval of station 0.
func (c *Catalog) SamplingInterval() float64 {
	if len(c.Stations) == 0 {
		return 0
	}

	return float64(c.Stations[0].Dt)
}

// SeriesLength returns the declared series length of station 0.
func (c *Catalog) SeriesLength() int {
	if len(c.Stations) == 0 {
		return 0
	}

	return int(c.Stations[0].Nt)
}

// ReadHeaders reads and cross-checks the headers of all sources.
//
// The first source defines the station table. Every later source must have
// the same station count and, per station, the same sampling interval and
// series length. A station whose series length differs from station 0's is
// accepted with a warning.
//
// Parameters:
//   - sources: Sources in merge order
//   - engine: Byte order of the files
//   - logger: Receives non-fatal diagnostics
//
// Returns:
//   - *Catalog: Station table, per-source windows and block sizes
//   - error: ErrEmptySourceList, ErrFileOpen, ErrCorruptHeader,
//     ErrIncompatibleStationCount, ErrIncompatibleSampling,
//     ErrIncompatibleLength, ErrNegativeBlockSize, or ErrCorruptDataBlock when
//     an uncompressed file is shorter than its windows imply
func ReadHeaders(sources []Source, engine endian.EndianEngine, logger *slog.Logger) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, errs.ErrEmptySourceList
	}

	for _, src := range sources {
		if !format.HasMuxSuffix(src.Path) {
			logger.Warn("source does not end with mux2, check results carefully", slog.String("path", src.Path))
		}
	}

	logger.Info("reading mux header information", slog.Int("sources", len(sources)))

	cat := &Catalog{
		Windows:   make([][]section.Window, len(sources)),
		BlockLens: make([]int64, len(sources)),
	}

	for i, src := range sources {
		windows, n, err := cat.readSource(i, src, engine, logger)
		if err != nil {
			return nil, err
		}

		cat.Windows[i] = windows
		cat.BlockLens[i] = n
		cat.MaxBlockLen = max(cat.MaxBlockLen, n)
	}

	cat.BlockOffset = section.BlockOffset(cat.Count())

	return cat, nil
}

// readSource reads one source header, checks it against the first source and
// returns its windows with the data block length in slots.
func (c *Catalog) readSource(i int, src Source, engine endian.EndianEngine, logger *slog.Logger) ([]section.Window, int64, error) {
	f, err := openSource(src.Path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	n, err := section.ReadStationCount(r, engine)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", src.Path, err)
	}

	if i > 0 && n != c.Count() {
		return nil, 0, fmt.Errorf("%w: %s has %d stations, first source has %d",
			errs.ErrIncompatibleStationCount, src.Path, n, c.Count())
	}

	stations, fingerprint, err := section.ReadStationTable(r, n, engine)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", src.Path, err)
	}

	if i == 0 {
		c.Stations = stations
		c.Fingerprint = fingerprint
		warnLengthMismatch(stations, logger)
	} else if fingerprint != c.Fingerprint {
		if err := c.checkCompatible(src.Path, stations); err != nil {
			return nil, 0, err
		}
	}

	windows, err := section.ReadWindows(r, n, engine)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", src.Path, err)
	}

	slots := section.BlockLen(windows)
	if slots < 0 {
		return nil, 0, fmt.Errorf("%w: %s implies %d slots", errs.ErrNegativeBlockSize, src.Path, slots)
	}
	if slots > math.MaxInt/section.ValueSize {
		return nil, 0, fmt.Errorf("%w: %s implies %d slots", errs.ErrAllocationFailure, src.Path, slots)
	}

	// only uncompressed sources know their size up front
	avail, err := f.dataBytes(section.BlockOffset(n))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", src.Path, err)
	}
	if avail >= 0 && slots*section.ValueSize > avail {
		return nil, 0, fmt.Errorf("%w: %s holds %d of %d data block bytes",
			errs.ErrCorruptDataBlock, src.Path, avail, slots*section.ValueSize)
	}

	return windows, slots, nil
}

// checkCompatible compares sampling interval and series length per station.
func (c *Catalog) checkCompatible(path string, stations []section.StationMeta) error {
	for j := range stations {
		if stations[j].Dt != c.Stations[j].Dt {
			return fmt.Errorf("%w: %s station %d samples every %v s, first source every %v s",
				errs.ErrIncompatibleSampling, path, j, stations[j].Dt, c.Stations[j].Dt)
		}
		if stations[j].Nt != c.Stations[j].Nt {
			return fmt.Errorf("%w: %s station %d has %d steps, first source has %d",
				errs.ErrIncompatibleLength, path, j, stations[j].Nt, c.Stations[j].Nt)
		}
	}

	return nil
}

func warnLengthMismatch(stations []section.StationMeta, logger *slog.Logger) {
	if len(stations) == 0 {
		return
	}

	nt0 := stations[0].Nt
	for j := 1; j < len(stations); j++ {
		if stations[j].Nt != nt0 {
			logger.Warn("station has different series length to station 0",
				slog.Int("station", j),
				slog.Int("length", int(stations[j].Nt)),
				slog.Int("station0_length", int(nt0)),
			)
		}
	}
}
