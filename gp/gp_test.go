package gp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitSine(t *testing.T, xs ...float64) *GaussianProcess {
	t.Helper()

	config := DefaultConfig()
	config.Noise = 1e-10

	model := New(config)
	for _, x := range xs {
		require.NoError(t, model.Update([]float64{x}, math.Sin(x)))
	}

	return model
}

func TestPredictPrior(t *testing.T) {
	model := New(DefaultConfig())

	mean, variance, err := model.Predict([]float64{3})
	require.NoError(t, err)

	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 1.0, variance)
	assert.True(t, math.IsInf(model.Best(), -1))
}

func TestPredictInterpolates(t *testing.T) {
	xs := []float64{0, 1.5, 3, 4.5}
	model := fitSine(t, xs...)

	assert.Equal(t, 4, model.Len())

	for _, x := range xs {
		mean, variance, err := model.Predict([]float64{x})
		require.NoError(t, err)

		assert.InDelta(t, math.Sin(x), mean, 1e-6)
		assert.InDelta(t, 0, variance, 1e-6)
	}

	// Far from the data the prior comes back.
	mean, variance, err := model.Predict([]float64{50})
	require.NoError(t, err)
	assert.InDelta(t, 0, mean, 1e-9)
	assert.InDelta(t, 1, variance, 1e-9)

	// In between the variance is positive but below the prior.
	_, variance, err = model.Predict([]float64{0.75})
	require.NoError(t, err)
	assert.Greater(t, variance, 0.0)
	assert.Less(t, variance, 1.0)
}

func TestUpdateDimensionMismatch(t *testing.T) {
	model := New(DefaultConfig())
	require.NoError(t, model.Update([]float64{1, 2}, 0.5))

	assert.ErrorIs(t, model.Update([]float64{1}, 0.5), ErrDimensionMismatch)

	_, _, err := model.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestUpdateNotPositiveDefinite(t *testing.T) {
	config := DefaultConfig()
	config.Noise = 0

	model := New(config)
	require.NoError(t, model.Update([]float64{1}, 0.5))

	err := model.Update([]float64{1}, 0.7)
	assert.ErrorIs(t, err, ErrNotPositiveDefinite)

	_, _, err = model.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestSetLengthScale(t *testing.T) {
	model := fitSine(t, 0, 2)

	require.NoError(t, model.SetLengthScale(0.1))
	assert.Equal(t, 0.1, model.GetLengthScale())

	// A narrow kernel forgets the data quickly.
	_, variance, err := model.Predict([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1, variance, 1e-6)
}

func TestRBFKernel(t *testing.T) {
	model := New(DefaultConfig())

	assert.Equal(t, 1.0, model.RBFKernel([]float64{1, 2}, []float64{1, 2}))
	assert.InDelta(t, math.Exp(-0.5), model.RBFKernel([]float64{0}, []float64{1}), 1e-12)
	assert.Panics(t, func() { model.RBFKernel([]float64{0}, []float64{1, 2}) })
}

func TestAcquisitionFunctions(t *testing.T) {
	params := AcquisitionParams{
		Beta:      2.0,
		Xi:        0.01,
		BestSoFar: 1.0,
	}

	assert.InDelta(t, 0.9, UCB(0.5, 0.04, params), 1e-12)

	for _, mean := range []float64{-2, 0.5, 1, 1.01, 1.5, 4} {
		for _, variance := range []float64{0, 0.01, 0.5, 2} {
			pi := ProbabilityOfImprovement(mean, variance, params)
			ei := ExpectedImprovement(mean, variance, params)

			assert.GreaterOrEqual(t, pi, 0.0)
			assert.LessOrEqual(t, pi, 1.0)
			assert.GreaterOrEqual(t, ei, 0.0)
			assert.GreaterOrEqual(t, ei, mean-params.BestSoFar-params.Xi-1e-12)
		}
	}

	// At the threshold PI is a coin flip and EI is σ·φ(0).
	assert.InDelta(t, 0.5, ProbabilityOfImprovement(1.01, 0.25, params), 1e-12)
	assert.InDelta(t, 0.5/math.Sqrt(2*math.Pi), ExpectedImprovement(1.01, 0.25, params), 1e-12)

	// Without uncertainty both reduce to the deterministic improvement.
	assert.Equal(t, 1.0, ProbabilityOfImprovement(2, 0, params))
	assert.Equal(t, 0.0, ProbabilityOfImprovement(0, 0, params))
	assert.InDelta(t, 0.99, ExpectedImprovement(2, 0, params), 1e-12)
}

func TestThompsonSampling(t *testing.T) {
	a := AcquisitionParams{RandomState: rand.New(rand.NewSource(7))}
	b := AcquisitionParams{RandomState: rand.New(rand.NewSource(7))}

	assert.Equal(t, ThompsonSampling(0.5, 0.2, a), ThompsonSampling(0.5, 0.2, b))
	assert.Equal(t, 0.5, ThompsonSampling(0.5, 0, a))
}

func TestBestCandidate(t *testing.T) {
	model := fitSine(t, 0, 1, 2, 3)

	params := AcquisitionParams{Xi: 0.01, BestSoFar: model.Best()}

	candidates := Grid(0.0, 3.0, 61)
	require.Len(t, candidates, 61)
	assert.Equal(t, []float64{0}, candidates[0])
	assert.InDelta(t, 3, candidates[60][0], 1e-12)

	idx, score, err := model.BestCandidate(candidates, ExpectedImprovement, params)
	require.NoError(t, err)

	// sin peaks at π/2, between the observations at 1 and 2.
	assert.Greater(t, score, 0.0)
	assert.Greater(t, candidates[idx][0], 1.0)
	assert.Less(t, candidates[idx][0], 2.0)

	_, _, err = model.BestCandidate(nil, UCB, params)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
