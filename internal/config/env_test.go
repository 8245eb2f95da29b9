package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		// t.Setenv registers the restore, then the key is removed
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "TIDEMUX_BYTE_ORDER", "TIDEMUX_CONCURRENCY", "TIDEMUX_METRICS_FILE")

	d, err := LoadDefaults("")
	require.NoError(t, err)
	require.Equal(t, &Defaults{ByteOrder: "little", Concurrency: 1}, d)

	t.Setenv("TIDEMUX_CONCURRENCY", "4")
	t.Setenv("TIDEMUX_METRICS_FILE", "/var/lib/node_exporter/tidemux.prom")

	d, err = LoadDefaults("")
	require.NoError(t, err)
	require.Equal(t, 4, d.Concurrency)
	require.Equal(t, "/var/lib/node_exporter/tidemux.prom", d.MetricsFile)
}

func TestLoadDefaults_EnvFile(t *testing.T) {
	unsetenv(t, "TIDEMUX_BYTE_ORDER", "TIDEMUX_METRICS_FILE")
	t.Setenv("TIDEMUX_CONCURRENCY", "2")

	path := filepath.Join(t.TempDir(), "tidemux.env")
	require.NoError(t, os.WriteFile(path, []byte("TIDEMUX_BYTE_ORDER=big\nTIDEMUX_CONCURRENCY=8\n"), 0o600))

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	require.Equal(t, "big", d.ByteOrder)
	require.Equal(t, 2, d.Concurrency, "environment wins over the env file")
}

func TestLoadDefaults_Errors(t *testing.T) {
	unsetenv(t, "TIDEMUX_BYTE_ORDER", "TIDEMUX_METRICS_FILE")

	_, err := LoadDefaults(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	t.Setenv("TIDEMUX_CONCURRENCY", "many")
	_, err = LoadDefaults("")
	require.Error(t, err)

	t.Setenv("TIDEMUX_CONCURRENCY", "0")
	_, err = LoadDefaults("")
	require.Error(t, err)
}
