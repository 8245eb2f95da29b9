package mux2

import (
	"fmt"

	"github.com/arloliu/tidemux/section"
)

// phase is where a station stands relative to its recording window at a step.
type phase uint8

const (
	phasePending  phase = iota // before the first recorded step
	phaseActive                // inside the window
	phaseFinished              // past the last recorded step
)

func (p phase) String() string {
	switch p {
	case phasePending:
		return "Pending"
	case phaseActive:
		return "Active"
	case phaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// phaseAt classifies step against a recorded window.
func phaseAt(w section.Window, step int32) phase {
	switch {
	case step < w.First:
		return phasePending
	case step <= w.Last:
		return phaseActive
	default:
		return phaseFinished
	}
}

// countActive returns how many of windows contribute a value at step.
func countActive(windows []section.Window, step int32) int {
	n := 0
	for _, w := range windows {
		if w.Active(step) {
			n++
		}
	}

	return n
}

// DecodeStation extracts one station's series from a source's data block.
//
// The block is walked forward once. Every step starts with a time marker,
// followed by one value for each station active at that step in ascending
// station order; only the target station's value is copied out.
//
// Per step the target is:
//   - never active (outside every grid, or never recorded): the whole series is 0
//   - pending: 0
//   - active: the value read from the block, Missing if it is the NoData marker
//   - finished: Missing for this and every later step; decoding stops without
//     consuming any more of the block
//
// Parameters:
//   - block: The source's loaded data block
//   - station: Target station index
//   - windows: Recording windows of all stations in this source
//   - neverActive: Whether the station lies outside every computational grid
//   - dst: Output series, one sample per step; its length is the series length
//
// Returns:
//   - error: ErrCorruptDataBlock if the block ends before the windows imply
func DecodeStation(block section.Block, station int, windows []section.Window, neverActive bool, dst []section.Sample) error {
	if station < 0 || station >= len(windows) {
		return fmt.Errorf("decode station %d of %d: index out of range", station, len(windows))
	}

	own := windows[station]
	if neverActive || !own.Recorded() {
		fill(dst, section.Present(0))
		return nil
	}

	before := windows[:station]
	after := windows[station+1:]

	cur := block.Cursor()
	for it := range dst {
		step := int32(it + 1) //nolint:gosec

		p := phaseAt(own, step)
		if p == phaseFinished {
			fill(dst[it:], section.Missing)
			return nil
		}

		// time marker, then earlier stations
		if err := cur.Skip(1 + countActive(before, step)); err != nil {
			return fmt.Errorf("station %d step %d: %w", station, step, err)
		}

		if p == phasePending {
			dst[it] = section.Present(0)
		} else {
			s, err := cur.NextSample()
			if err != nil {
				return fmt.Errorf("station %d step %d: %w", station, step, err)
			}
			dst[it] = s
		}

		if err := cur.Skip(countActive(after, step)); err != nil {
			return fmt.Errorf("station %d step %d: %w", station, step, err)
		}
	}

	return nil
}

func fill(dst []section.Sample, s section.Sample) {
	for i := range dst {
		dst[i] = s
	}
}
