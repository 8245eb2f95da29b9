package mux2

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/section"
	"github.com/stretchr/testify/require"
)

func TestReconciler_Union(t *testing.T) {
	r := NewReconciler(1, nil)
	r.Observe(0, section.Window{First: 3, Last: 5}, 0, 0)
	require.Equal(t, section.Window{First: 3, Last: 5}, r.Window(0))

	r.Observe(0, section.Window{First: 2, Last: 4}, 0, 1)
	r.Observe(0, section.Window{First: 4, Last: 8}, 0, 2)
	require.Equal(t, section.Window{First: 2, Last: 8}, r.Window(0))
}

func TestReconciler_OrderIndependent(t *testing.T) {
	windows := []section.Window{{First: 4, Last: 6}, {First: 1, Last: 3}, {First: 2, Last: 9}}
	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, order := range orders {
		r := NewReconciler(1, nil)
		for _, i := range order {
			r.Observe(0, windows[i], 0, i)
		}
		require.Equal(t, section.Window{First: 1, Last: 9}, r.Window(0), "order %v", order)
	}
}

func TestReconciler_LogsAdjustments(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconciler(1, slog.New(slog.NewTextHandler(&buf, nil)))

	r.Observe(0, section.Window{First: 2, Last: 3}, 7, 0)
	require.Empty(t, buf.String())

	r.Observe(0, section.Window{First: 1, Last: 3}, 7, 1)
	require.Contains(t, buf.String(), "adjusting start step")
	require.NotContains(t, buf.String(), "adjusting end step")

	r.Observe(0, section.Window{First: 2, Last: 5}, 7, 2)
	require.Contains(t, buf.String(), "adjusting end step")
}

func TestReconciler_Global(t *testing.T) {
	t.Run("Union", func(t *testing.T) {
		r := NewReconciler(2, nil)
		r.Observe(0, section.Window{First: 2, Last: 3}, 0, 0)
		r.Observe(1, section.Window{First: 1, Last: 2}, 1, 0)

		start, finish, err := r.Global(4)
		require.NoError(t, err)
		require.Equal(t, int32(1), start)
		require.Equal(t, int32(3), finish)
	})

	t.Run("StartsAfterSeries", func(t *testing.T) {
		r := NewReconciler(2, nil)
		r.Observe(0, section.Window{First: 5, Last: 6}, 0, 0)
		r.Observe(1, section.Window{First: 4, Last: 6}, 1, 0)

		_, _, err := r.Global(3)
		require.ErrorIs(t, err, errs.ErrDegenerateWindow)
	})

	t.Run("NeverRecorded", func(t *testing.T) {
		r := NewReconciler(1, nil)
		r.Observe(0, section.Window{First: -1, Last: -1}, 0, 0)

		_, _, err := r.Global(3)
		require.ErrorIs(t, err, errs.ErrDegenerateWindow)
	})

	t.Run("SingleStep", func(t *testing.T) {
		r := NewReconciler(1, nil)
		r.Observe(0, section.Window{First: 2, Last: 2}, 0, 0)

		_, _, err := r.Global(3)
		require.ErrorIs(t, err, errs.ErrNonPositiveLength)
	})

	t.Run("NoStations", func(t *testing.T) {
		_, _, err := NewReconciler(0, nil).Global(3)
		require.ErrorIs(t, err, errs.ErrDegenerateWindow)
	})
}
