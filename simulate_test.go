package bandit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateReproducible(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 8)
	require.NoError(t, err)

	first, err := Simulate(solution, [2]float64{0.3, 0.7}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	second, err := Simulate(solution, [2]float64{0.3, 0.7}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Steps, 8)
	assert.Equal(t, uniform.Total()+8, first.Final.Total())

	var successes int
	for _, step := range first.Steps {
		if step.Success {
			successes++
		}
	}

	assert.Equal(t, successes, first.Reward)
}

func TestSimulateFollowsPolicy(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 5)
	require.NoError(t, err)

	// Arm1 always pays: the policy never leaves a winner.
	traj, err := Simulate(solution, [2]float64{1, 0}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 5, traj.Reward)
	assert.Equal(t, State{6, 1, 1, 1}, traj.Final)

	// Nothing ever pays.
	traj, err = Simulate(solution, [2]float64{0, 0}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 0, traj.Reward)

	for _, step := range traj.Steps {
		d, err := solution.Lookup(step.State)
		require.NoError(t, err)
		assert.Equal(t, d.Arm, step.Arm)
	}
}

func TestSimulateInvalidInput(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 2)
	require.NoError(t, err)

	_, err = Simulate(solution, [2]float64{1.5, 0}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Simulate(solution, [2]float64{0.5, 0.5}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.NotPanics(t, func() {
		_, err = Simulate(nil, [2]float64{0.5, 0.5}, rand.New(rand.NewSource(1)))
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
