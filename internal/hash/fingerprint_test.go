package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	b := []byte{1, 2, 3, 4, 5, 6, 7, 9}

	require.Equal(t, Fingerprint(a), Fingerprint(append([]byte(nil), a...)))
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestHasherMatchesFingerprint(t *testing.T) {
	table := []byte("station-0-record|station-1-record|station-2-record")

	h := NewHasher()
	h.Write(table[:10])
	h.Write(table[10:30])
	h.Write(table[30:])

	require.Equal(t, Fingerprint(table), h.Sum())
}
