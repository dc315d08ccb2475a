package gp

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

//////
// Const, vars, types.
//////

// AcquisitionFunc scores a point from its posterior mean and variance.
// Higher values indicate more promising points.
//
// Implementation notes for custom acquisition functions:
// - Should handle zero variance
// - Must be thread-safe unless it uses params.RandomState
type AcquisitionFunc func(mean, variance float64, params AcquisitionParams) float64

// AcquisitionParams holds parameters used by the acquisition functions.
type AcquisitionParams struct {
	// Beta controls the exploration-exploitation trade-off of UCB.
	// Typical values range from 0.1 to 5.0, with 2.0 being a good default.
	Beta float64 `yaml:"beta"`

	// Xi is the minimum improvement over BestSoFar sought by PI and EI.
	// Typical values range from 0.01 to 0.1.
	Xi float64 `yaml:"xi"`

	// BestSoFar is the best (largest) value observed so far.
	BestSoFar float64 `yaml:"-"`

	// RandomState is the random number generator used by Thompson Sampling.
	// Do NOT share it between goroutines.
	RandomState *rand.Rand `yaml:"-"`
}

//////
// Available acquisition functions.
//////

// UCB implements the Upper Confidence Bound: mean + Beta·σ.
//
// Example:
//
//	params := AcquisitionParams{Beta: 2.0}
//	value := UCB(0.5, 0.04, params) // 0.9
func UCB(mean, variance float64, params AcquisitionParams) float64 {
	return mean + params.Beta*math.Sqrt(variance)
}

// ProbabilityOfImprovement is the probability that the value at the point
// exceeds BestSoFar by at least Xi:
//
//	PI = Φ((mean - best - ξ) / σ)
//
// With zero variance it is 1 if the mean already improves, 0 otherwise.
func ProbabilityOfImprovement(mean, variance float64, params AcquisitionParams) float64 {
	improvement := mean - params.BestSoFar - params.Xi

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		if improvement > 0 {
			return 1
		}

		return 0
	}

	return distuv.UnitNormal.CDF(improvement / sigma)
}

// ExpectedImprovement is the expected amount by which the value at the
// point exceeds BestSoFar + Xi:
//
//	EI = (mean - best - ξ)·Φ(z) + σ·φ(z),  z = (mean - best - ξ) / σ
//
// It is never negative.
func ExpectedImprovement(mean, variance float64, params AcquisitionParams) float64 {
	improvement := mean - params.BestSoFar - params.Xi

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		return math.Max(improvement, 0)
	}

	z := improvement / sigma

	ei := improvement*distuv.UnitNormal.CDF(z) + sigma*distuv.UnitNormal.Prob(z)

	return math.Max(ei, 0)
}

// ThompsonSampling draws one sample from the posterior at the point.
//
// Warning:
// - Always initialize RandomState before using this function.
func ThompsonSampling(mean, variance float64, params AcquisitionParams) float64 {
	return mean + math.Sqrt(variance)*params.RandomState.NormFloat64()
}

//////
// Exported functionalities.
//////

// BestCandidate scores every candidate with acq and returns the index and
// score of the highest one. It evaluates the candidates once; it does not
// search beyond them.
func (gp *GaussianProcess) BestCandidate(
	candidates [][]float64,
	acq AcquisitionFunc,
	params AcquisitionParams,
) (int, float64, error) {
	if len(candidates) == 0 {
		return -1, 0, fmt.Errorf("%w: no candidates", ErrDimensionMismatch)
	}

	best, bestScore := -1, math.Inf(-1)

	for i, c := range candidates {
		mean, variance, err := gp.Predict(c)
		if err != nil {
			return -1, 0, err
		}

		if score := acq(mean, variance, params); score > bestScore {
			best, bestScore = i, score
		}
	}

	return best, bestScore, nil
}

// Grid returns n evenly spaced one-dimensional points from lo to hi, both
// included, shaped as model inputs.
func Grid[T constraints.Float](lo, hi T, n int) [][]float64 {
	if n < 2 {
		return [][]float64{{float64(lo)}}
	}

	xs := floats.Span(make([]float64, n), float64(lo), float64(hi))

	points := make([][]float64, n)
	for i, x := range xs {
		points[i] = []float64{x}
	}

	return points
}
