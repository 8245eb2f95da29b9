package mux2

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/section"
)

// Reconciler tracks each selected station's recording window across sources.
//
// The reconciled window is the union of the sources' windows: the minimum
// first step and the maximum last step. Both are order independent.
type Reconciler struct {
	windows []section.Window
	seen    []bool
	logger  *slog.Logger
}

// NewReconciler returns a reconciler for n selected stations.
func NewReconciler(n int, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = discardLogger()
	}

	return &Reconciler{
		windows: make([]section.Window, n),
		seen:    make([]bool, n),
		logger:  logger,
	}
}

// Observe folds a source's window for selected station row i.
//
// station and source only label the diagnostics.
func (r *Reconciler) Observe(i int, w section.Window, station, source int) {
	if !r.seen[i] {
		r.windows[i] = w
		r.seen[i] = true

		return
	}

	cur := &r.windows[i]
	if w.First < cur.First {
		r.logger.Info("adjusting start step",
			slog.Int("station", station),
			slog.Int("source", source),
			slog.Int("from", int(cur.First)),
			slog.Int("to", int(w.First)),
		)
		cur.First = w.First
	}
	if w.Last > cur.Last {
		r.logger.Info("adjusting end step",
			slog.Int("station", station),
			slog.Int("source", source),
			slog.Int("from", int(cur.Last)),
			slog.Int("to", int(w.Last)),
		)
		cur.Last = w.Last
	}
}

// Window returns the reconciled window of selected station row i.
func (r *Reconciler) Window(i int) section.Window {
	return r.windows[i]
}

// Global returns the global [start, finish] window over all selected stations.
//
// Parameters:
//   - nt: Declared series length
//
// Returns:
//   - start, finish: Minimum first step and maximum last step
//   - error: ErrDegenerateWindow if start > nt or finish < 0,
//     ErrNonPositiveLength if start >= finish
func (r *Reconciler) Global(nt int) (int32, int32, error) {
	start := int32(nt + 1) //nolint:gosec
	finish := int32(-1)
	for _, w := range r.windows {
		start = min(start, w.First)
		finish = max(finish, w.Last)
	}

	if int(start) > nt || finish < 0 {
		return 0, 0, fmt.Errorf("%w: start step %d with %d steps, finish step %d",
			errs.ErrDegenerateWindow, start, nt, finish)
	}
	if start >= finish {
		return 0, 0, fmt.Errorf("%w: start step %d, finish step %d",
			errs.ErrNonPositiveLength, start, finish)
	}

	return start, finish, nil
}
