package mux2

import (
	"fmt"
	"math"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/section"
)

// maxTableCells bounds the size of an output table.
const maxTableCells = math.MaxInt32

// Metadata column offsets, relative to Table.Steps().
const (
	ColLatitude = iota
	ColLongitude
	ColElevation
	ColFirstStep
	ColLastStep
)

// StationSeries is the accumulating output of one selected station.
type StationSeries struct {
	// Station is the global station index.
	Station int
	// Meta is the station record of the first source.
	Meta section.StationMeta
	// Samples holds the merged sample of each step, step 1 first.
	Samples []section.Sample
	// Window is the reconciled recording window.
	Window section.Window
}

// Table is the merged output.
type Table struct {
	// Rows holds one row per selected station: Steps() series values followed
	// by latitude, longitude, elevation, first step and last step. Missing
	// samples are written as section.NoData.
	Rows [][]float64
	// Stations holds the global station index of each row.
	Stations []int
	// TotalStations is the number of stations in the sources.
	TotalStations int
	// SamplingInterval is the sampling interval in seconds.
	SamplingInterval float64
	// SeriesLength is the declared series length.
	SeriesLength int
	// Start and Finish bound the global window, inclusive.
	Start, Finish int
	// MissingCells counts the series cells holding a missing sample. A merged
	// value that happens to equal section.NoData is not counted.
	MissingCells int
}

// Steps returns the number of series columns per row.
func (t *Table) Steps() int {
	return t.Finish - t.Start + 1
}

// Width returns the number of columns per row.
func (t *Table) Width() int {
	return t.Steps() + section.MetadataColumns
}

// Meta returns the metadata columns of row i.
func (t *Table) Meta(i int) []float64 {
	return t.Rows[i][t.Steps():]
}

// Series returns the series columns of row i.
func (t *Table) Series(i int) []float64 {
	return t.Rows[i][:t.Steps()]
}

// Assemble builds the output rows over the global window [start, finish].
//
// Steps are written in order from max(start, 1) to finish. A step past the
// station's own reconciled last step is 0: the station has stopped while
// others are still recording. When start < 1 the trailing series columns
// that no step reaches stay 0.
//
// Returns:
//   - [][]float64: One row per series entry
//   - error: ErrAllocationFailure if the table would be unreasonably large
func Assemble(series []StationSeries, start, finish int32) ([][]float64, error) {
	rows, _, err := assemble(series, start, finish)
	return rows, err
}

// assemble is Assemble that also counts the missing cells written.
func assemble(series []StationSeries, start, finish int32) ([][]float64, int, error) {
	steps := int64(finish) - int64(start) + 1
	width := steps + section.MetadataColumns
	if steps <= 0 || width*int64(len(series)) > maxTableCells {
		return nil, 0, fmt.Errorf("%w: %d rows of %d columns", errs.ErrAllocationFailure, len(series), width)
	}

	missing := 0
	cells := make([]float64, width*int64(len(series)))
	rows := make([][]float64, len(series))
	for i := range series {
		row := cells[int64(i)*width : int64(i+1)*width : int64(i+1)*width]
		missing += fillRow(row[:steps], &series[i], start, finish)

		meta := row[steps:]
		meta[ColLatitude] = float64(series[i].Meta.GeoLat)
		meta[ColLongitude] = float64(series[i].Meta.GeoLon)
		meta[ColElevation] = float64(series[i].Meta.Z)
		meta[ColFirstStep] = float64(series[i].Window.First)
		meta[ColLastStep] = float64(series[i].Window.Last)

		rows[i] = row
	}

	return rows, missing, nil
}

// fillRow writes the series columns of one row and returns how many of them
// are missing samples.
func fillRow(dst []float64, s *StationSeries, start, finish int32) int {
	missing := 0
	col := 0
	for step := max(start, 1); step <= finish && col < len(dst); step++ {
		if step <= s.Window.Last && int(step) <= len(s.Samples) {
			sample := s.Samples[step-1]
			if !sample.Valid {
				missing++
			}
			dst[col] = sample.Wire()
		}
		col++
	}

	return missing
}
