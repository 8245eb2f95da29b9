package section

// Sample is one merged or decoded value at a station and step.
//
// Valid is false when the value is not a real observation, which on disk is
// spelled as the NoData float.
type Sample struct {
	Value float64
	Valid bool
}

// Missing is the sample for "no real observation".
var Missing = Sample{}

// Present returns a valid sample holding v.
func Present(v float64) Sample {
	return Sample{Value: v, Valid: true}
}

// IsNoData reports whether a wire value is the NoData marker.
//
// The comparison is epsilon-tolerant, never an exact equality.
func IsNoData(v float32) bool {
	return v < NoData+NoDataEpsilon && NoData < v+NoDataEpsilon
}

// SampleFromWire translates a value read from a data block.
func SampleFromWire(v float32) Sample {
	if IsNoData(v) {
		return Missing
	}

	return Present(float64(v))
}

// Wire returns the float written to output tables for the sample.
func (s Sample) Wire() float64 {
	if !s.Valid {
		return float64(NoData)
	}

	return s.Value
}
