package cli

import (
	"fmt"
	"io"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/mux2"
	"github.com/arloliu/tidemux/section"
	"github.com/arloliu/tidemux/urs"
	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	URS       bool
	ByteOrder string
}

// MuxSummary describes the header of one MUX2 file.
type MuxSummary struct {
	Path             string  `json:"path"`
	Stations         int     `json:"stations"`
	NeverActive      int     `json:"never_active"`
	SamplingInterval float64 `json:"sampling_interval"`
	SeriesLength     int     `json:"series_length"`
	FirstStep        int32   `json:"first_step"`
	LastStep         int32   `json:"last_step"`
	BlockLen         int64   `json:"block_len"`
	Fingerprint      string  `json:"fingerprint"`
}

// URSSummary describes the header of one URS file.
type URSSummary struct {
	Path     string  `json:"path"`
	Points   int     `json:"points"`
	Steps    int     `json:"steps"`
	TimeStep float32 `json:"time_step"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print the header summary of MUX2 or URS files",
		Long: `Read only the header of each file and print its station count,
sampling interval, series length and recording range.

Example:
  tidemux inspect run-a.mux2 run-b.mux2.zst
  tidemux inspect --urs z-mux`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.URS, "urs", false, "read legacy URS point files")
	cmd.Flags().StringVar(&opts.ByteOrder, "byte-order", "little", "byte order of MUX2 files (little|big|native)")

	return cmd
}

func runInspect(opts *InspectOptions, paths []string, cmd *cobra.Command) error {
	engine, err := endian.ParseEngine(opts.ByteOrder)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid byte order", err)
	}

	summaries := make([]any, 0, len(paths))
	for _, path := range paths {
		var s any
		if opts.URS {
			s, err = inspectURS(path)
		} else {
			s, err = inspectMux(path, engine)
		}
		if err != nil {
			return WrapExitError(ExitFailure, "inspect failed", err)
		}
		summaries = append(summaries, s)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, summaries)
	}

	for _, s := range summaries {
		printSummary(w, s)
	}

	return nil
}

func inspectMux(path string, engine endian.EndianEngine) (MuxSummary, error) {
	h, err := mux2.ReadHeader(path, engine)
	if err != nil {
		return MuxSummary{}, err
	}

	s := MuxSummary{
		Path:        path,
		Stations:    h.Count(),
		FirstStep:   section.NeverRecorded,
		LastStep:    section.LastStep(h.Windows),
		BlockLen:    h.BlockLen(),
		Fingerprint: fmt.Sprintf("%016x", h.Fingerprint),
	}
	if h.Count() > 0 {
		s.SamplingInterval = float64(h.Stations[0].Dt)
		s.SeriesLength = int(h.Stations[0].Nt)
	}

	for i, w := range h.Windows {
		if h.Stations[i].NeverActive() || !w.Recorded() {
			s.NeverActive++
			continue
		}
		if s.FirstStep == section.NeverRecorded || w.First < s.FirstStep {
			s.FirstStep = w.First
		}
	}

	return s, nil
}

func inspectURS(path string) (URSSummary, error) {
	r, err := urs.Open(path)
	if err != nil {
		return URSSummary{}, err
	}
	defer r.Close()

	return URSSummary{
		Path:     path,
		Points:   len(r.Points()),
		Steps:    r.Steps(),
		TimeStep: r.TimeStep(),
	}, nil
}

func printSummary(w io.Writer, s any) {
	switch s := s.(type) {
	case MuxSummary:
		fmt.Fprintf(w, "%s\n", s.Path)
		fmt.Fprintf(w, "  stations:          %d (%d never active)\n", s.Stations, s.NeverActive)
		fmt.Fprintf(w, "  sampling interval: %gs\n", s.SamplingInterval)
		fmt.Fprintf(w, "  series length:     %d\n", s.SeriesLength)
		fmt.Fprintf(w, "  recorded steps:    %d-%d\n", s.FirstStep, s.LastStep)
		fmt.Fprintf(w, "  data block:        %d values\n", s.BlockLen)
		fmt.Fprintf(w, "  fingerprint:       %s\n", s.Fingerprint)
	case URSSummary:
		fmt.Fprintf(w, "%s\n", s.Path)
		fmt.Fprintf(w, "  points:    %d\n", s.Points)
		fmt.Fprintf(w, "  steps:     %d\n", s.Steps)
		fmt.Fprintf(w, "  time step: %gs\n", s.TimeStep)
	}
}
