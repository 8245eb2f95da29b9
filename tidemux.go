// Package tidemux demultiplexes and merges tide gauge time series stored in
// MUX2 files.
//
// A MUX2 file interleaves, step by step, the recordings of many gauge
// stations produced by one tsunami simulation run. Each station records over
// its own window of steps. tidemux reads several such files (sources) that
// describe the same station network, decodes each selected station, combines
// the sources with per-source weights and writes one dense table covering the
// union of the stations' recording windows.
//
// # Basic Usage
//
//	table, err := tidemux.DecodeAndMerge([]mux2.Source{
//	    {Path: "run-a.mux2", Weight: 0.5},
//	    {Path: "run-b.mux2.zst", Weight: 0.5},
//	}, nil, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for i, station := range table.Stations {
//	    fmt.Println(station, table.Series(i), table.Meta(i))
//	}
//
// # Output Table
//
// Every row holds Steps() series values for the global window [Start, Finish]
// followed by five metadata columns: latitude, longitude, elevation, and the
// station's reconciled first and last step. A step where any source reported
// no data carries section.NoData. Steps before a station started or after it
// stopped are 0.
//
// # Package Structure
//
// This package wraps the mux2 package for the common case. Use mux2.Merge
// directly for byte order, concurrency and logger options. The section package
// holds the binary layout, and urs reads the legacy single-component files.
package tidemux

import (
	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/mux2"
	"github.com/arloliu/tidemux/section"
)

// DecodeAndMerge decodes the selected stations of every source and merges
// them into one table.
//
// Parameters:
//   - sources: Sources in merge order, each with its weight
//   - stations: Global station indices in row order; empty selects all stations
//   - verbose: Log progress and diagnostics through slog.Default()
//
// Returns:
//   - *mux2.Table: The merged table
//   - error: An errs sentinel wrapped with context; no partial table is returned
//
// Example:
//
//	table, err := tidemux.DecodeAndMerge(sources, []int{4, 0, 7}, true)
func DecodeAndMerge(sources []mux2.Source, stations []int, verbose bool) (*mux2.Table, error) {
	return mux2.Merge(sources,
		mux2.WithStations(stations),
		mux2.WithVerbose(verbose),
	)
}

// ReadHeader reads the header area of a little-endian MUX2 file.
//
// Compressed files are detected by their .zst, .zstd, .s2 or .lz4 suffix.
func ReadHeader(path string) (*section.Header, error) {
	return mux2.ReadHeader(path, endian.GetLittleEndianEngine())
}
