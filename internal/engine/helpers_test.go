package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// fieldFrom builds a field from rows of '.' (empty) and '@' (marked).
func fieldFrom(t *testing.T, rows ...string) *model.Field {
	t.Helper()
	grid := make([][]bool, len(rows))
	for i, row := range rows {
		grid[i] = make([]bool, len(row))
		for j := range row {
			grid[i][j] = row[j] == '@'
		}
	}
	f, err := model.NewField(grid)
	require.NoError(t, err)
	return f
}

func rect(f *model.Field, top, left, bottom, right int) *Rectangle {
	r := newRectangle(f, top, left, bottom, right)
	r.ComputeSpan()
	return &r
}

func quietOptimizer() *Optimizer {
	opt := New(model.DefaultSettings())
	opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opt
}
