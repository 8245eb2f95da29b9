package cli

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/muxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Mux(t *testing.T) {
	path := muxtest.NewFile(
		muxtest.NewStation(4, 2, 3, 1, 2),
		muxtest.NewStation(4, 1, 4, 1, 2, 3, 4),
		muxtest.NewStation(4, -1, -1),
	).Write(t, t.TempDir(), "a.mux2.s2")

	out, _, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "stations:          3 (1 never active)")
	assert.Contains(t, out, "sampling interval: 0.5s")
	assert.Contains(t, out, "series length:     4")
	assert.Contains(t, out, "recorded steps:    1-4")
	assert.Contains(t, out, "data block:        10 values")

	out, _, err = execute(t, "--format", "json", "inspect", path)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []MuxSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 3, resp.Data[0].Stations)
	assert.Equal(t, int64(10), resp.Data[0].BlockLen)
	assert.Len(t, resp.Data[0].Fingerprint, 16)
}

func TestInspect_URS(t *testing.T) {
	le := endian.GetLittleEndianEngine()
	data := le.AppendUint32(nil, 1)
	data = le.AppendUint32(data, 2)
	data = le.AppendUint32(data, math.Float32bits(0.25))
	for _, v := range []float32{150, -34, 10, 0.1, 0.2} {
		data = le.AppendUint32(data, math.Float32bits(v))
	}
	path := muxtest.WriteBytes(t, t.TempDir(), "z-mux", data)

	out, _, err := execute(t, "inspect", "--urs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "points:    1")
	assert.Contains(t, out, "steps:     2")
	assert.Contains(t, out, "time step: 0.25s")
}

func TestInspect_Errors(t *testing.T) {
	_, _, err := execute(t, "inspect", filepath.Join(t.TempDir(), "none.mux2"))
	require.ErrorIs(t, err, errs.ErrFileOpen)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = execute(t, "inspect", "--byte-order", "middle", "a.mux2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
