package mux2

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/options"
	"github.com/arloliu/tidemux/section"
	"golang.org/x/sync/errgroup"
)

// Merge decodes the selected stations of every source and combines them.
//
// Headers of all sources are validated before any data block is read. Any
// error aborts the whole merge; no partial table is returned.
//
// Parameters:
//   - sources: Sources in merge order, each with its weight
//   - opts: WithStations, WithVerbose, WithLogger, WithByteOrder, WithConcurrency
//
// Returns:
//   - *Table: Rows for the selected stations over the global window
//   - error: See the errs package; wrapped with the offending path or station
func Merge(sources []Source, opts ...Option) (*Table, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	logger := cfg.diagnostics()

	for _, src := range sources {
		if err := src.validate(); err != nil {
			return nil, err
		}
	}

	cat, err := ReadHeaders(sources, cfg.engine, logger)
	if err != nil {
		return nil, err
	}

	perm, err := selectStations(cfg.stations, cat.Count())
	if err != nil {
		return nil, err
	}

	nt := cat.SeriesLength()
	if int64(len(perm))*int64(nt) > maxTableCells {
		return nil, fmt.Errorf("%w: %d stations of %d steps", errs.ErrAllocationFailure, len(perm), nt)
	}

	m := &merger{
		cfg:     cfg,
		logger:  logger,
		sources: sources,
		cat:     cat,
		perm:    perm,
		nt:      nt,
		series:  make([]StationSeries, len(perm)),
		rec:     NewReconciler(len(perm), logger),
	}
	for i, ista := range perm {
		m.series[i] = StationSeries{
			Station: ista,
			Meta:    cat.Stations[ista],
			Samples: newAccumulator(nt),
		}
	}

	if cfg.concurrency > 1 && len(sources) > 1 {
		err = m.runParallel()
	} else {
		err = m.runSequential()
	}
	if err != nil {
		return nil, err
	}

	for i := range m.series {
		m.series[i].Window = m.rec.Window(i)
	}

	start, finish, err := m.rec.Global(nt)
	if err != nil {
		return nil, err
	}

	rows, missing, err := assemble(m.series, start, finish)
	if err != nil {
		return nil, err
	}

	return &Table{
		Rows:             rows,
		Stations:         perm,
		TotalStations:    cat.Count(),
		SamplingInterval: cat.SamplingInterval(),
		SeriesLength:     nt,
		Start:            int(start),
		Finish:           int(finish),
		MissingCells:     missing,
	}, nil
}

// selectStations validates a selection, or builds the identity when empty.
func selectStations(stations []int, total int) ([]int, error) {
	if len(stations) == 0 {
		perm := make([]int, total)
		for i := range perm {
			perm[i] = i
		}

		return perm, nil
	}

	for _, ista := range stations {
		if ista < 0 || ista >= total {
			return nil, fmt.Errorf("%w: station %d of %d", errs.ErrStationOutOfRange, ista, total)
		}
	}

	return stations, nil
}

// merger holds the state of one Merge call.
type merger struct {
	cfg     *config
	logger  *slog.Logger
	sources []Source
	cat     *Catalog
	perm    []int
	nt      int
	series  []StationSeries
	rec     *Reconciler
}

// runSequential decodes the sources one after another through a single
// decode buffer sized for the largest block.
func (m *merger) runSequential() error {
	buf := make([]byte, m.cat.MaxBlockLen*section.ValueSize)
	decoded := make([]section.Sample, m.nt)

	for isrc, src := range m.sources {
		m.logger.Info("reading mux file", slog.String("path", src.Path))

		block, err := loadBlock(src.Path, m.cat.BlockOffset, m.cat.BlockLens[isrc], buf, m.cfg.engine)
		if err != nil {
			return err
		}

		for i, ista := range m.perm {
			if err := m.decode(block, isrc, ista, decoded); err != nil {
				return err
			}
			m.fold(i, isrc, decoded)
		}
	}

	return nil
}

// runParallel decodes sources concurrently and folds their contributions in
// source order, so the floating point result matches runSequential. A decoded
// source is folded and released as soon as every earlier source has been.
func (m *merger) runParallel() error {
	var (
		mu       sync.Mutex
		next     int
		ready    = make([]bool, len(m.sources))
		partials = make([][][]section.Sample, len(m.sources))
	)

	var g errgroup.Group
	g.SetLimit(m.cfg.concurrency)

	for isrc, src := range m.sources {
		g.Go(func() error {
			m.logger.Info("reading mux file", slog.String("path", src.Path))

			buf := make([]byte, m.cat.BlockLens[isrc]*section.ValueSize)
			block, err := loadBlock(src.Path, m.cat.BlockOffset, m.cat.BlockLens[isrc], buf, m.cfg.engine)
			if err != nil {
				return err
			}

			out := make([][]section.Sample, len(m.perm))
			for i, ista := range m.perm {
				out[i] = make([]section.Sample, m.nt)
				if err := m.decode(block, isrc, ista, out[i]); err != nil {
					return err
				}
			}

			mu.Lock()
			defer mu.Unlock()

			partials[isrc], ready[isrc] = out, true
			for ; next < len(m.sources) && ready[next]; next++ {
				for i := range m.perm {
					m.fold(i, next, partials[next][i])
				}
				partials[next] = nil
			}

			return nil
		})
	}

	return g.Wait()
}

func (m *merger) decode(block section.Block, isrc, ista int, dst []section.Sample) error {
	meta := &m.cat.Stations[ista]
	if err := DecodeStation(block, ista, m.cat.Windows[isrc], meta.NeverActive(), dst); err != nil {
		return fmt.Errorf("%s: %w", m.sources[isrc].Path, err)
	}

	return nil
}

// fold adds a decoded series to selected row i and updates its window.
func (m *merger) fold(i, isrc int, decoded []section.Sample) {
	s := &m.series[i]

	n := min(int(max(s.Meta.Nt, 0)), len(s.Samples))
	Accumulate(s.Samples[:n], decoded, m.sources[isrc].Weight)

	m.rec.Observe(i, m.cat.Windows[isrc][s.Station], s.Station, isrc)
}
