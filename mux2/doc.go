// Package mux2 demultiplexes and merges tide gauge series stored in MUX2 files.
//
// A merge reads one or more sources describing the same station network,
// decodes each selected station out of every source's interleaved data block,
// combines the sources with per-source weights and reconciles each station's
// recording window. The result is a dense Table over the union of all
// selected stations' windows.
//
// # Pipeline
//
//  1. ReadHeaders validates that every source has the same stations with the
//     same sampling interval and series length, and sizes the decode buffer.
//  2. For each source, DecodeStation walks the data block once per selected
//     station with a bounds-checked cursor.
//  3. Accumulate folds the decoded samples into the running sum; a missing
//     sample from any source makes the merged sample missing.
//  4. Reconciler keeps the per-station union of recording windows and
//     derives the global window.
//  5. Assemble clips every station to the global window and appends the
//     metadata columns.
//
// # Basic Usage
//
//	table, err := mux2.Merge([]mux2.Source{
//	    {Path: "event-a-z-mux2", Weight: 0.7},
//	    {Path: "event-b-z-mux2", Weight: 0.3},
//	}, mux2.WithStations([]int{4, 0, 9}), mux2.WithVerbose(true))
//	if err != nil {
//	    return err
//	}
//	for i, row := range table.Rows {
//	    fmt.Println(table.Stations[i], row[:table.Steps()])
//	}
//
// # Thread Safety
//
// Merge keeps all of its state, including decode buffers, local to the call.
// Concurrent merges are safe.
package mux2
