package section

// Layout sizes in bytes.
const (
	CountSize         = 4  // station count field
	StationRecordSize = 76 // one StationMeta record
	StepSize          = 4  // one first/last step entry
	ValueSize         = 4  // one float32 in the data block
	StationIDSize     = 16 // raw identifier bytes at the end of a StationMeta record
)

// MetadataColumns is the number of trailing per-station columns in an output
// row: latitude, longitude, elevation, first step, last step.
const MetadataColumns = 5

const (
	// NeverRecorded marks a first/last step for a station without data in a file.
	NeverRecorded int32 = -1
	// NeverActiveGrid marks a station that lies outside every computational grid.
	NeverActiveGrid int32 = -1
)

const (
	// NoData is the reserved wire value for "not a real observation".
	NoData float32 = 99.0
	// NoDataEpsilon is the tolerance used when recognising NoData.
	NoDataEpsilon float32 = 0.00001
)

// BlockOffset returns the byte offset of the data block in a file with n stations.
func BlockOffset(n int) int64 {
	return CountSize + int64(n)*(StationRecordSize+2*StepSize)
}
