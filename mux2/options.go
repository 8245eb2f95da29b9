package mux2

import (
	"errors"
	"log/slog"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/internal/options"
)

type config struct {
	stations    []int
	verbose     bool
	logger      *slog.Logger
	engine      endian.EndianEngine
	concurrency int
}

func defaultConfig() *config {
	return &config{
		engine:      endian.GetLittleEndianEngine(),
		concurrency: 1,
	}
}

// diagnostics returns the logger that receives progress and warnings: the
// configured logger in verbose mode, a discarding one otherwise.
func (c *config) diagnostics() *slog.Logger {
	if !c.verbose {
		return discardLogger()
	}
	if c.logger == nil {
		return slog.Default()
	}

	return c.logger
}

// Option configures a merge.
type Option = options.Option[*config]

// WithStations selects the global station indices to output, in row order.
// An empty selection outputs every station in index order.
func WithStations(stations []int) Option {
	return options.NoError(func(c *config) {
		c.stations = append([]int(nil), stations...)
	})
}

// WithVerbose enables progress and diagnostic logging.
func WithVerbose(verbose bool) Option {
	return options.NoError(func(c *config) {
		c.verbose = verbose
	})
}

// WithLogger sets the logger used in verbose mode. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}

// WithByteOrder sets the byte order of the sources. Defaults to little-endian.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *config) error {
		if engine == nil {
			return errors.New("byte order engine must not be nil")
		}
		c.engine = engine

		return nil
	})
}

// WithConcurrency sets how many sources are decoded in parallel. Results do
// not depend on it. Defaults to 1.
//
// Each source in flight holds its data block and the decoded series of every
// selected station. A source that finishes before an earlier one keeps its
// series until that source has been folded, so a slow first source can hold
// up to one decoded series set per source.
func WithConcurrency(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		c.concurrency = n

		return nil
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
