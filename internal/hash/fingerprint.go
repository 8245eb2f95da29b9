// Package hash fingerprints MUX2 station tables.
package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of a raw station metadata table.
//
// Two sources with equal fingerprints describe byte-identical station
// networks, which lets the header validator skip the per-station comparison.
func Fingerprint(table []byte) uint64 {
	return xxhash.Sum64(table)
}

// Hasher accumulates a fingerprint over a table read in chunks.
type Hasher struct {
	d *xxhash.Digest
}

// NewHasher returns an empty Hasher.
func NewHasher() Hasher {
	return Hasher{d: xxhash.New()}
}

// Write adds a chunk to the fingerprint. It never fails.
func (h Hasher) Write(p []byte) {
	_, _ = h.d.Write(p)
}

// Sum returns the fingerprint of everything written so far.
func (h Hasher) Sum() uint64 {
	return h.d.Sum64()
}
