package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arloliu/tidemux/internal/config"
	"github.com/arloliu/tidemux/internal/metrics"
	"github.com/arloliu/tidemux/mux2"
	"github.com/spf13/cobra"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Manifest    string
	Sources     []string
	Stations    []int
	Output      string
	ByteOrder   string
	Concurrency int
	EnvFile     string
	MetricsFile string
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge MUX2 sources into one station table",
		Long: `Decode the selected stations of every source, combine them with the
source weights and write one row per station: the merged series over the
global recording window followed by latitude, longitude, elevation and the
station's first and last recorded step.

Sources come from a YAML manifest or from repeated --source flags. A source
flag is a path optionally followed by :weight (default 1).

An output path ending in .xlsx is written as a spreadsheet. With
--metrics-file the run is recorded in the Prometheus textfile format.
TIDEMUX_BYTE_ORDER, TIDEMUX_CONCURRENCY and TIDEMUX_METRICS_FILE provide
defaults for the matching flags and may be loaded from --env-file.

Example:
  tidemux merge --source run-a.mux2:0.5 --source run-b.mux2.zst:0.5
  tidemux merge --manifest merge.yaml --format json -o table.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "YAML merge manifest")
	cmd.Flags().StringArrayVarP(&opts.Sources, "source", "s", nil, "source file as path[:weight] (repeatable)")
	cmd.Flags().IntSliceVar(&opts.Stations, "stations", nil, "station indices in output order (default all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.ByteOrder, "byte-order", "little", "byte order of the sources (little|big|native)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 1, "sources decoded in parallel")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file with TIDEMUX_* defaults")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")

	return cmd
}

func runMerge(opts *MergeOptions, cmd *cobra.Command) error {
	if err := opts.applyDefaults(cmd); err != nil {
		return WrapExitError(ExitCommandError, "invalid environment", err)
	}

	m, err := opts.manifest(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid merge request", err)
	}

	mergeOpts, err := m.Options()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid merge request", err)
	}
	mergeOpts = append(mergeOpts,
		mux2.WithVerbose(m.Verbose || opts.Verbose),
		mux2.WithLogger(newLogger(cmd.ErrOrStderr())),
	)

	rec := metrics.New(nil)
	started := rec.Start()
	table, err := mux2.Merge(m.MuxSources(), mergeOpts...)
	rec.Observe(started, len(m.Sources), table, err)

	if opts.MetricsFile != "" {
		if werr := rec.WriteTextfile(opts.MetricsFile); werr != nil && err == nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", werr)
		}
	}
	if err != nil {
		return WrapExitError(ExitFailure, "merge failed", err)
	}

	if err := opts.writeOutput(cmd.OutOrStdout(), table); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	return nil
}

// applyDefaults fills flags the user did not set from the environment.
func (o *MergeOptions) applyDefaults(cmd *cobra.Command) error {
	d, err := config.LoadDefaults(o.EnvFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("byte-order") {
		o.ByteOrder = d.ByteOrder
	}
	if !flags.Changed("concurrency") {
		o.Concurrency = d.Concurrency
	}
	if !flags.Changed("metrics-file") {
		o.MetricsFile = d.MetricsFile
	}

	return nil
}

func (o *MergeOptions) writeOutput(stdout io.Writer, table *mux2.Table) error {
	if o.Output == "" {
		return writeTable(stdout, o.Format, table)
	}

	if strings.EqualFold(filepath.Ext(o.Output), ".xlsx") {
		return writeXLSX(o.Output, table)
	}

	f, err := os.Create(o.Output)
	if err != nil {
		return err
	}

	if err := writeTable(f, o.Format, table); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func writeTable(w io.Writer, format string, table *mux2.Table) error {
	if format == "json" {
		return writeJSON(w, newTableJSON(table))
	}

	return writeCSV(w, table)
}

// manifest builds the merge request from the manifest file or the flags.
// Flags given explicitly override the manifest.
func (o *MergeOptions) manifest(cmd *cobra.Command) (*config.Manifest, error) {
	if o.Manifest != "" {
		if len(o.Sources) > 0 {
			return nil, errors.New("--manifest and --source are mutually exclusive")
		}

		m, err := config.Load(o.Manifest)
		if err != nil {
			return nil, err
		}
		flags := cmd.Flags()
		if m.ByteOrder == "" || flags.Changed("byte-order") {
			m.ByteOrder = o.ByteOrder
		}
		if m.Concurrency == 0 || flags.Changed("concurrency") {
			m.Concurrency = o.Concurrency
		}
		if flags.Changed("stations") {
			m.Stations = o.Stations
		}

		if err := m.Validate(); err != nil {
			return nil, err
		}

		return m, nil
	}

	m := &config.Manifest{
		Sources:     make([]config.SourceEntry, 0, len(o.Sources)),
		Stations:    o.Stations,
		ByteOrder:   o.ByteOrder,
		Concurrency: o.Concurrency,
	}
	for _, s := range o.Sources {
		m.Sources = append(m.Sources, parseSource(s))
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// parseSource splits "path[:weight]". A suffix that is not a number is part
// of the path.
func parseSource(s string) config.SourceEntry {
	if i := strings.LastIndexByte(s, ':'); i > 0 {
		if w, err := strconv.ParseFloat(s[i+1:], 64); err == nil {
			return config.SourceEntry{Path: s[:i], Weight: &w}
		}
	}

	return config.SourceEntry{Path: s}
}
