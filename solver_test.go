package bandit

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uniform = State{Alpha1: 1, Beta1: 1, Alpha2: 1, Beta2: 1}

func TestSolveTwoTrials(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 2)
	require.NoError(t, err)

	// Last decision layer is valued greedily.
	expected := map[State]float64{
		{2, 1, 1, 1}: 2.0 / 3,
		{1, 2, 1, 1}: 0.5,
		{1, 1, 2, 1}: 2.0 / 3,
		{1, 1, 1, 2}: 0.5,
	}

	for s, v := range expected {
		d, err := solution.Lookup(s)
		require.NoError(t, err)
		assert.InDelta(t, v, d.Value, 1e-12, s.String())
	}

	// 0.5 now, then 0.5·2/3 + 0.5·1/2.
	root := solution.Root()
	assert.InDelta(t, 13.0/12, root.Value, 1e-12)
	assert.InDelta(t, 1.0835, root.Value, 1e-3)
	assert.True(t, root.Tie)
	assert.Equal(t, Arm1, root.Arm)
}

func TestSolveThreeTrials(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 3)
	require.NoError(t, err)

	// 0.5 now, then 0.5·V(2,1,1,1) + 0.5·V(1,2,1,1) = 0.5·4/3 + 0.5·1.
	assert.InDelta(t, 5.0/3, solution.Root().Value, 1e-12)

	// Stay on a winner: arm1 gives 2/3 + 2/3·3/4 + 1/3·1/2 = 4/3,
	// arm2 gives 1/2 + 1/2·2/3 + 1/2·2/3 = 7/6.
	d, err := solution.Lookup(State{2, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3, d.Value, 1e-12)
	assert.Equal(t, Arm1, d.Arm)
	assert.False(t, d.Tie)

	// Switch after a loss: arm1 gives 1/3 + 1/3·1/2 + 2/3·1/2 = 5/6,
	// arm2 gives 1/2 + 1/2·2/3 + 1/2·1/3 = 1.
	d, err = solution.Lookup(State{1, 2, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d.Value, 1e-12)
	assert.Equal(t, Arm2, d.Arm)
	assert.False(t, d.Tie)
}

func TestSolveSingleTrialIsGreedy(t *testing.T) {
	for _, s := range []State{uniform, {3, 1, 1, 1}, {1, 4, 2, 2}, {5, 2, 7, 3}} {
		solution, err := Solve(DefaultConfig(), s, 1)
		require.NoError(t, err)

		v, arm := GreedyValue(s)
		root := solution.Root()

		assert.Equal(t, v, root.Value, s.String())
		assert.Equal(t, arm, root.Arm, s.String())
		assert.Len(t, solution.Tables(), 1)
	}
}

func TestSolveSymmetry(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 6)
	require.NoError(t, err)

	assert.True(t, solution.Root().Tie, "first pull from a symmetric prior is a don't-care")

	for _, row := range solution.Policy() {
		mirror, err := solution.Lookup(row.State.Swap())
		require.NoError(t, err)

		assert.InDelta(t, row.Decision.Value, mirror.Value, 1e-12, row.State.String())

		if row.State.Symmetric() {
			assert.True(t, row.Decision.Tie, row.State.String())
		}
	}
}

func TestSolveMonotoneInHorizon(t *testing.T) {
	priors := []State{uniform, {2, 1, 1, 3}, {1, 1, 4, 2}}

	for _, prior := range priors {
		prev, err := Solve(DefaultConfig(), prior, 1)
		require.NoError(t, err)

		for n := 2; n <= 7; n++ {
			cur, err := Solve(DefaultConfig(), prior, n)
			require.NoError(t, err)

			// Same states, one more trial left in cur.
			for _, row := range prev.Policy() {
				d, err := cur.Lookup(row.State)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, d.Value, row.Decision.Value, row.State.String())
			}

			prev = cur
		}
	}
}

func TestSolveValueBounds(t *testing.T) {
	solution, err := Solve(DefaultConfig(), State{2, 5, 3, 1}, 8)
	require.NoError(t, err)

	for _, row := range solution.Policy() {
		greedy, _ := GreedyValue(row.State)

		assert.GreaterOrEqual(t, row.Decision.Value, 0.0)
		assert.LessOrEqual(t, row.Decision.Value, float64(row.Remaining)+1e-12)
		assert.GreaterOrEqual(t, row.Decision.Value, greedy-1e-12)
		assert.True(t, row.Decision.Arm.Valid())
	}
}

func TestSolveParallelMatchesSequential(t *testing.T) {
	sequential, err := Solve(DefaultConfig(), uniform, 9)
	require.NoError(t, err)

	config := DefaultConfig()
	config.Workers = 4

	parallel, err := Solve(config, uniform, 9)
	require.NoError(t, err)

	assert.Equal(t, sequential.Table(), parallel.Table())
}

func TestSolveInvalidInput(t *testing.T) {
	_, err := Solve(DefaultConfig(), uniform, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SolveBandit(0, 1, 1, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SolveBandit(1, 1, 1, -2, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveContext(ctx, DefaultConfig(), uniform, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveStateNotFound(t *testing.T) {
	next := ValueTable{
		pulls:     1,
		remaining: 1,
		values: map[State]Decision{
			{2, 1, 1, 1}: {Value: 2.0 / 3, Arm: Arm1},
		},
	}

	_, err := solveState(uniform, next, DefaultTieTolerance)
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.Contains(t, err.Error(), "(1,2,1,1)")

	layer := newLayer(0, []State{uniform})

	config := DefaultConfig()
	config.Workers = 2

	_, err = valueLayer(context.Background(), config, layer, &next, 2)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestSolveBanditTable(t *testing.T) {
	table, err := SolveBandit(1, 1, 1, 1, 4)
	require.NoError(t, err)

	// Decision layers after 0..3 pulls.
	assert.Len(t, table, LayerSize(0)+LayerSize(1)+LayerSize(2)+LayerSize(3))

	_, ok := table[State{5, 1, 1, 1}]
	assert.False(t, ok, "states after the last pull carry no decision")
}

func TestSolutionLookupOutsideHorizon(t *testing.T) {
	solution, err := Solve(DefaultConfig(), uniform, 2)
	require.NoError(t, err)

	_, err = solution.Lookup(State{2, 2, 1, 1})
	assert.ErrorIs(t, err, ErrStateNotFound)

	_, err = solution.Lookup(State{1, 1, 1, 1}.Swap())
	assert.NoError(t, err)

	assert.Equal(t, []int{1, 4, 10}, solution.LayerSizes())
}

func TestSolveProgressChannel(t *testing.T) {
	const trials = 5

	config := DefaultConfig()

	// Enumeration emits one update per pull, backward induction one per table.
	progressChan := make(chan ProgressUpdate, 2*trials)
	config.ProgressChan = progressChan

	_, err := Solve(config, uniform, trials)
	require.NoError(t, err)
	close(progressChan)

	var enumerated, valued int32

	for update := range progressChan {
		switch update.Phase {
		case PhaseEnumeration:
			atomic.AddInt32(&enumerated, 1)
			assert.Equal(t, LayerSize(update.Pulls), update.States)
		case PhaseBackwardInduction:
			atomic.AddInt32(&valued, 1)
			assert.Equal(t, trials-update.Pulls, update.Remaining)
		}
	}

	assert.Equal(t, int32(trials), enumerated)
	assert.Equal(t, int32(trials), valued)
}

func TestSolveMyopicBaseline(t *testing.T) {
	config := DefaultConfig()
	config.Myopic = true

	for n := 1; n <= 8; n++ {
		optimal, err := Solve(DefaultConfig(), State{1, 2, 2, 3}, n)
		require.NoError(t, err)

		myopic, err := Solve(config, State{1, 2, 2, 3}, n)
		require.NoError(t, err)

		for _, row := range myopic.Policy() {
			greedyValue, greedyArm := GreedyValue(row.State)
			assert.Equal(t, greedyArm, row.Decision.Arm)

			d, err := optimal.Lookup(row.State)
			require.NoError(t, err)
			assert.LessOrEqual(t, row.Decision.Value, d.Value+1e-12)
			assert.GreaterOrEqual(t, row.Decision.Value, greedyValue-1e-12)
		}
	}

	// With two trials from a uniform prior the greedy policy is optimal.
	myopic, err := Solve(config, uniform, 2)
	require.NoError(t, err)
	assert.InDelta(t, 13.0/12, myopic.Root().Value, 1e-12)
}

func TestSolveRootInFirstTable(t *testing.T) {
	for _, prior := range []State{uniform, {4, 2, 1, 3}} {
		solution, err := Solve(DefaultConfig(), prior, 3)
		require.NoError(t, err)

		tables := solution.Tables()
		require.NotEmpty(t, tables)

		d, err := tables[0].Lookup(prior)
		require.NoError(t, err)
		assert.Equal(t, d, solution.Root())
		assert.Equal(t, 1, tables[0].Len())
	}
}
