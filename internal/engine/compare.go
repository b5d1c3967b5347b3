package engine

import (
	"fmt"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// ComparisonScenario names one rectangle bound to try on a field.
type ComparisonScenario struct {
	Name          string
	MaxRectangles int // 0 = unbounded
}

// ComparisonResult holds the covering and its figures for a single scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Result      model.CoverResult
	Cardinality int
	Cost        int
	CostDelta   int // cost minus the cost of the first scenario
}

// CompareScenarios optimizes the same field once per scenario and returns the
// results in scenario order.
func CompareScenarios(opt *Optimizer, scenarios []ComparisonScenario, p model.Problem) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		run := p
		run.MaxRectangles = scenario.MaxRectangles
		result := opt.Optimize(run)

		cr := ComparisonResult{
			Scenario:    scenario,
			Result:      result,
			Cardinality: result.Cardinality,
			Cost:        result.Cost,
		}
		if len(results) > 0 {
			cr.CostDelta = result.Cost - results[0].Cost
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios derives what-if bounds from the field's own bound and
// the cardinality the unbounded search settles on. Bounds already covered by
// an earlier scenario are skipped.
func BuildDefaultScenarios(ownBound, unboundedCardinality int) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Field Bound", MaxRectangles: ownBound},
	}
	seen := map[int]bool{normalizeBound(ownBound, unboundedCardinality): true}

	add := func(name string, bound int) {
		key := normalizeBound(bound, unboundedCardinality)
		if seen[key] {
			return
		}
		seen[key] = true
		scenarios = append(scenarios, ComparisonScenario{Name: name, MaxRectangles: bound})
	}

	add("Unbounded", 0)
	if half := unboundedCardinality / 2; half > 1 {
		add(fmt.Sprintf("Half (%d)", half), half)
	}
	add("Single Rectangle", 1)

	return scenarios
}

// normalizeBound maps bounds that cannot constrain the search onto 0.
func normalizeBound(bound, unboundedCardinality int) int {
	if bound >= unboundedCardinality && bound != 1 {
		return 0
	}
	return bound
}

// CompareBounds runs the field unbounded to learn its natural cardinality,
// then compares the default scenarios built from it.
func CompareBounds(opt *Optimizer, p model.Problem) []ComparisonResult {
	probe := p
	probe.MaxRectangles = 0
	natural := opt.Optimize(probe)
	return CompareScenarios(opt, BuildDefaultScenarios(p.MaxRectangles, natural.Cardinality), p)
}
