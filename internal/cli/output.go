package cli

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/arloliu/tidemux/mux2"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Merge or decode failure (incompatible sources, corrupt data)
	ExitCommandError = 2 // Command error (bad flags, unreadable manifest)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope of every command's output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes data wrapped in an ok response.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(CLIResponse{Status: "ok", Data: data})
}

// WriteError reports err on w in the given format.
func WriteError(w io.Writer, format string, err error) {
	if format == "json" {
		_ = json.NewEncoder(w).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: GetExitCode(err), Message: err.Error()},
		})
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
}

// TableJSON is the JSON form of a merged table.
type TableJSON struct {
	TotalStations    int         `json:"total_stations"`
	SamplingInterval float64     `json:"sampling_interval"`
	SeriesLength     int         `json:"series_length"`
	Start            int         `json:"start"`
	Finish           int         `json:"finish"`
	Stations         []int       `json:"stations"`
	Rows             [][]float64 `json:"rows"`
}

func newTableJSON(t *mux2.Table) TableJSON {
	return TableJSON{
		TotalStations:    t.TotalStations,
		SamplingInterval: t.SamplingInterval,
		SeriesLength:     t.SeriesLength,
		Start:            t.Start,
		Finish:           t.Finish,
		Stations:         t.Stations,
		Rows:             t.Rows,
	}
}

// metaHeader names the metadata columns in row order.
var metaHeader = []string{"lat", "lon", "elevation", "first_step", "last_step"}

// writeCSV writes one line per row, led by the global station index.
// Series columns are numbered from t0.
func writeCSV(w io.Writer, t *mux2.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, 1+t.Width())
	header = append(header, "station")
	for j := range t.Steps() {
		header = append(header, "t"+strconv.Itoa(j))
	}
	header = append(header, metaHeader...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 1+t.Width())
	for i, row := range t.Rows {
		record[0] = strconv.Itoa(t.Stations[i])
		for j, v := range row {
			record[1+j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// newLogger returns the diagnostics logger writing to w.
func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
