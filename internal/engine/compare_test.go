package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	tests := []struct {
		name    string
		own     int
		natural int
		want    []ComparisonScenario
	}{
		{
			name:    "unbounded field",
			own:     0,
			natural: 10,
			want: []ComparisonScenario{
				{Name: "Field Bound", MaxRectangles: 0},
				{Name: "Half (5)", MaxRectangles: 5},
				{Name: "Single Rectangle", MaxRectangles: 1},
			},
		},
		{
			name:    "tight bound",
			own:     3,
			natural: 8,
			want: []ComparisonScenario{
				{Name: "Field Bound", MaxRectangles: 3},
				{Name: "Unbounded", MaxRectangles: 0},
				{Name: "Half (4)", MaxRectangles: 4},
				{Name: "Single Rectangle", MaxRectangles: 1},
			},
		},
		{
			name:    "loose bound behaves as unbounded",
			own:     12,
			natural: 4,
			want: []ComparisonScenario{
				{Name: "Field Bound", MaxRectangles: 12},
				{Name: "Half (2)", MaxRectangles: 2},
				{Name: "Single Rectangle", MaxRectangles: 1},
			},
		},
		{
			name:    "hull bound",
			own:     1,
			natural: 3,
			want: []ComparisonScenario{
				{Name: "Field Bound", MaxRectangles: 1},
				{Name: "Unbounded", MaxRectangles: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildDefaultScenarios(tt.own, tt.natural))
		})
	}
}

func TestCompareBounds(t *testing.T) {
	f := fieldFrom(t,
		"@......",
		".......",
		".......",
		"...@...",
		".......",
		".......",
		"......@",
	)
	results := CompareBounds(quietOptimizer(), problem(f, 2))
	require.Len(t, results, 3)

	assert.Equal(t, "Field Bound", results[0].Scenario.Name)
	assert.Equal(t, 37, results[0].Cost)
	assert.Equal(t, 2, results[0].Cardinality)
	assert.Zero(t, results[0].CostDelta)

	assert.Equal(t, "Unbounded", results[1].Scenario.Name)
	assert.Equal(t, 33, results[1].Cost)
	assert.Equal(t, -4, results[1].CostDelta)

	assert.Equal(t, "Single Rectangle", results[2].Scenario.Name)
	assert.Equal(t, 59, results[2].Cost)
	assert.Equal(t, 22, results[2].CostDelta)
	assert.Equal(t, 1, results[2].Cardinality)
}

func TestCompareScenarios_KeepsOrder(t *testing.T) {
	f := fieldFrom(t, "@.@")
	scenarios := []ComparisonScenario{
		{Name: "one", MaxRectangles: 1},
		{Name: "free", MaxRectangles: 0},
	}
	results := CompareScenarios(quietOptimizer(), scenarios, problem(f, 0))

	require.Len(t, results, 2)
	assert.Equal(t, "one", results[0].Scenario.Name)
	assert.Equal(t, 1, results[0].Result.MaxRectangles)
	assert.Equal(t, "free", results[1].Scenario.Name)
	assert.Equal(t, results[1].Cost-results[0].Cost, results[1].CostDelta)
}
