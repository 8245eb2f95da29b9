package section

// Window is the inclusive range of 1-based steps a station recorded in one file.
//
// First == NeverRecorded means the station has no values in the file.
type Window struct {
	First int32
	Last  int32
}

// Recorded reports whether the station has any values in the file.
func (w Window) Recorded() bool {
	return w.First != NeverRecorded
}

// Active reports whether the station contributes a value at step.
func (w Window) Active(step int32) bool {
	return w.First != NeverRecorded && step >= w.First && step <= w.Last
}

// Span returns the number of values the station contributes to the data block.
//
// A corrupt window with Last < First-1 produces a negative span; callers sum
// spans and reject negative totals.
func (w Window) Span() int64 {
	if !w.Recorded() {
		return 0
	}

	return int64(w.Last) - int64(w.First) + 1
}

// BlockLen returns the number of float32 slots in the data block implied by
// the recording windows: every recorded value plus one time marker per step up
// to the latest last step.
func BlockLen(windows []Window) int64 {
	var values int64
	for _, w := range windows {
		values += w.Span()
	}

	return values + int64(LastStep(windows))
}

// LastStep returns the latest last step among recorded windows, or 0.
func LastStep(windows []Window) int32 {
	var lastStep int32
	for _, w := range windows {
		if w.Recorded() && w.Last > lastStep {
			lastStep = w.Last
		}
	}

	return lastStep
}
