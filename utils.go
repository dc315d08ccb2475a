package bandit

import (
	"cmp"
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat/combin"
)

//////
// Helper functions.
//////

// posteriorMean is the mean α/(α+β) of a Beta(α, β) distribution.
func posteriorMean[T constraints.Integer | constraints.Float](alpha, beta T) float64 {
	return float64(alpha) / float64(alpha+beta)
}

// LayerSize returns the number of distinct states reachable after exactly
// pulls pulls, C(pulls+3, 3): the ways to hand out pulls increments among
// four counters. It does not depend on the initial state.
//
// Returns:
// - 0 for negative pulls.
//
// Example:
//
//	LayerSize(0) // 1
//	LayerSize(3) // 20
func LayerSize(pulls int) int {
	if pulls < 0 {
		return 0
	}

	return combin.Binomial(pulls+3, 3)
}

// compareStates orders states lexicographically by (Alpha1, Beta1, Alpha2,
// Beta2). Used to give layers and policies a stable order.
func compareStates(a, b State) int {
	if c := cmp.Compare(a.Alpha1, b.Alpha1); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Beta1, b.Beta1); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Alpha2, b.Alpha2); c != 0 {
		return c
	}

	return cmp.Compare(a.Beta2, b.Beta2)
}

// tied reports whether two arm values are within tolerance of each other.
func tied(q1, q2, tolerance float64) bool {
	return math.Abs(q1-q2) <= tolerance
}
