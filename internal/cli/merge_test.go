package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/internal/muxtest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeSources writes two runs of the same two-station network. Station 1
// stops a step earlier in the first run.
func writeSources(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	a := muxtest.NewFile(
		muxtest.NewStation(3, 1, 3, 1.5, 2.5, 3.5).At(-33.5, 151.25, -12),
		muxtest.NewStation(3, 2, 2, 7).At(-34, 151.75, -40),
	).Write(t, dir, "run-a.mux2")
	b := muxtest.NewFile(
		muxtest.NewStation(3, 1, 3, 1.5, 2.5, 3.5).At(-33.5, 151.25, -12),
		muxtest.NewStation(3, 2, 3, 7, 9).At(-34, 151.75, -40),
	).Write(t, dir, "run-b.mux2.zst")

	return a, b
}

func TestMerge_CSV(t *testing.T) {
	a, b := writeSources(t)

	out, _, err := execute(t, "merge", "--source", a+":0.5", "--source", b+":0.5")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "merge_two_sources", []byte(out))
}

func TestMerge_JSON(t *testing.T) {
	a, b := writeSources(t)

	out, _, err := execute(t, "--format", "json", "merge",
		"--source", a+":0.5", "--source", b+":0.5", "--stations", "1", "--concurrency", "2")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   TableJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.TotalStations)
	assert.Equal(t, 0.5, resp.Data.SamplingInterval)
	assert.Equal(t, 3, resp.Data.SeriesLength)
	assert.Equal(t, 2, resp.Data.Start)
	assert.Equal(t, 3, resp.Data.Finish)
	assert.Equal(t, []int{1}, resp.Data.Stations)
	assert.Equal(t, [][]float64{{7, 99, -34, 151.75, -40, 2, 3}}, resp.Data.Rows)
}

func TestMerge_Manifest(t *testing.T) {
	a, b := writeSources(t)

	dir := t.TempDir()
	manifest := filepath.Join(dir, "merge.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(
		"sources:\n  - path: "+a+"\n    weight: 0.5\n  - path: "+b+"\n    weight: 0.5\n"), 0o600))

	output := filepath.Join(dir, "table.csv")
	_, _, err := execute(t, "merge", "--manifest", manifest, "-o", output)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("testdata", "golden", "merge_two_sources.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestMerge_FlagsOverrideManifest(t *testing.T) {
	isolateEnv(t)
	a, b := writeSources(t)

	manifest := filepath.Join(t.TempDir(), "merge.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(
		"sources:\n  - path: "+a+"\n  - path: "+b+"\nstations: [0]\nbyte_order: big\n"), 0o600))

	_, _, err := execute(t, "merge", "--manifest", manifest)
	require.ErrorIs(t, err, errs.ErrCorruptHeader)

	out, _, err := execute(t, "--format", "json", "merge", "--manifest", manifest,
		"--byte-order", "little", "--stations", "1")
	require.NoError(t, err)

	var resp struct {
		Data TableJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []int{1}, resp.Data.Stations)
	assert.Equal(t, [][]float64{{14, 99, -34, 151.75, -40, 2, 3}}, resp.Data.Rows)
}

func TestMerge_Verbose(t *testing.T) {
	a, b := writeSources(t)

	_, stderr, err := execute(t, "merge", "-v", "--source", a, "--source", b)
	require.NoError(t, err)
	assert.Contains(t, stderr, "reading mux file")
	assert.Contains(t, stderr, "adjusting end step")

	_, stderr, err = execute(t, "merge", "--source", a, "--source", b)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestMerge_Errors(t *testing.T) {
	a, _ := writeSources(t)

	t.Run("NoSources", func(t *testing.T) {
		_, _, err := execute(t, "merge")
		require.ErrorIs(t, err, errs.ErrInvalidManifest)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("ManifestAndSources", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--manifest", "x.yaml", "--source", a)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("StationOutOfRange", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--source", a, "--stations", "5")
		require.ErrorIs(t, err, errs.ErrStationOutOfRange)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--source", filepath.Join(t.TempDir(), "none.mux2"))
		require.ErrorIs(t, err, errs.ErrFileOpen)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})
}

func TestMerge_XLSX(t *testing.T) {
	a, b := writeSources(t)

	output := filepath.Join(t.TempDir(), "table.xlsx")
	_, _, err := execute(t, "merge", "--source", a+":0.5", "--source", b+":0.5", "-o", output)
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"station", "t0", "t1", "t2", "lat", "lon", "elevation", "first_step", "last_step"},
		{"0", "1.5", "2.5", "3.5", "-33.5", "151.25", "-12", "1", "3"},
		{"1", "0", "7", "99", "-34", "151.75", "-40", "2", "3"},
	}, rows)
}

// isolateEnv lets a test change TIDEMUX_* variables and restores them after.
func isolateEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{"TIDEMUX_BYTE_ORDER", "TIDEMUX_CONCURRENCY", "TIDEMUX_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestMerge_MetricsFile(t *testing.T) {
	isolateEnv(t)
	a, b := writeSources(t)

	metricsFile := filepath.Join(t.TempDir(), "tidemux.prom")
	_, _, err := execute(t, "merge", "--source", a, "--source", b, "--metrics-file", metricsFile)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tidemux_merges_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "tidemux_sources_read_total 2")
	assert.Contains(t, string(data), "tidemux_stations_merged_total 2")
	assert.Contains(t, string(data), "tidemux_missing_samples_total 1")
}

func TestMerge_MetricsFileOnFailure(t *testing.T) {
	isolateEnv(t)

	metricsFile := filepath.Join(t.TempDir(), "tidemux.prom")
	_, _, err := execute(t, "merge",
		"--source", filepath.Join(t.TempDir(), "none.mux2"), "--metrics-file", metricsFile)
	require.ErrorIs(t, err, errs.ErrFileOpen)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tidemux_merges_total{outcome="error"} 1`)
}

func TestMerge_EnvFile(t *testing.T) {
	isolateEnv(t)
	a, b := writeSources(t)

	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "from-env.prom")
	envFile := filepath.Join(dir, "tidemux.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"TIDEMUX_CONCURRENCY=2\nTIDEMUX_METRICS_FILE="+metricsFile+"\n"), 0o600))

	_, _, err := execute(t, "merge", "--source", a, "--source", b, "--env-file", envFile)
	require.NoError(t, err)
	assert.FileExists(t, metricsFile)

	t.Run("BadByteOrder", func(t *testing.T) {
		t.Setenv("TIDEMUX_BYTE_ORDER", "middle")

		_, _, err := execute(t, "merge", "--source", a)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("FlagWins", func(t *testing.T) {
		t.Setenv("TIDEMUX_BYTE_ORDER", "middle")

		_, _, err := execute(t, "merge", "--source", a, "--byte-order", "little")
		require.NoError(t, err)
	})

	t.Run("MissingEnvFile", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--source", a, "--env-file", filepath.Join(dir, "none.env"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in     string
		path   string
		weight *float64
	}{
		{"a.mux2", "a.mux2", nil},
		{"a.mux2:0.25", "a.mux2", ptr(0.25)},
		{"a.mux2:-1", "a.mux2", ptr(-1)},
		{"dir:x/a.mux2", "dir:x/a.mux2", nil},
		{":2", ":2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseSource(tt.in)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.weight, got.Weight)
		})
	}
}

func ptr(v float64) *float64 { return &v }
