// Package section defines the on-disk layout of MUX2 files.
//
// A MUX2 file consists of a fixed header area followed by the interleaved
// data block:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Station count (int32)                                   │
//	├─────────────────────────────────────────────────────────┤
//	│ Station table (count × 76 bytes, StationMeta)           │
//	├─────────────────────────────────────────────────────────┤
//	│ First recorded step (count × int32)                     │
//	├─────────────────────────────────────────────────────────┤
//	│ Last recorded step (count × int32)                      │
//	├─────────────────────────────────────────────────────────┤
//	│ Data block (float32)                                    │
//	│  for each step t = 1..max(last):                        │
//	│    one time marker                                      │
//	│    one value per station active at t, ascending index   │
//	└─────────────────────────────────────────────────────────┘
//
// Steps are 1-based and a first/last value of -1 means the station never
// recorded in that file. All fields are 4 bytes wide and share the byte
// order of the producing host; see the endian package.
//
// The NODATA float used on disk is translated to and from the Sample option
// type here and nowhere else.
package section
