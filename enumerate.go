package bandit

import (
	"context"
	"fmt"
	"slices"
)

//////
// Const, vars, types.
//////

// Layer is the set of distinct states reachable after exactly Pulls() pulls
// from an initial state. A Layer is immutable once built: States returns a
// copy and there are no mutating methods.
type Layer struct {
	pulls  int
	states []State
	index  map[State]int
}

//////
// Methods.
//////

// Pulls is the number of pulls that lead from the initial state to this layer.
func (l Layer) Pulls() int {
	return l.pulls
}

// Len is the number of distinct states in the layer.
func (l Layer) Len() int {
	return len(l.states)
}

// Contains reports whether s belongs to the layer.
func (l Layer) Contains(s State) bool {
	_, ok := l.index[s]

	return ok
}

// States returns the states of the layer in lexicographic order. The returned
// slice is a copy.
func (l Layer) States() []State {
	return slices.Clone(l.states)
}

//////
// Exported functionalities.
//////

// EnumerateStates produces, for every k in 0..trials, the set of distinct
// states reachable after exactly k pulls from initial.
//
// Parameters:
// - initial: Prior pseudo-counts; every count must be >= 1
// - trials: Horizon; must be >= 1
//
// Returns:
// - []Layer: trials+1 layers, layer k holding LayerSize(k) states
// - error: ErrInvalidInput for a bad horizon or prior
//
// Different orders of pulls that land on the same four counts are one
// state, which keeps layer k at C(k+3, 3) states instead of 4^k sequences.
func EnumerateStates(initial State, trials int) ([]Layer, error) {
	return enumerate(context.Background(), SolverConfig{}, initial, trials)
}

//////
// Helper functions.
//////

// validateProblem rejects a horizon or prior the solver cannot work with.
func validateProblem(initial State, trials int) error {
	if trials < 1 {
		return fmt.Errorf("%w: trials must be >= 1, got %d", ErrInvalidInput, trials)
	}

	return initial.Validate()
}

// newLayer builds an immutable layer from deduplicated states.
func newLayer(pulls int, states []State) Layer {
	slices.SortFunc(states, compareStates)

	index := make(map[State]int, len(states))
	for i, s := range states {
		index[s] = i
	}

	return Layer{
		pulls:  pulls,
		states: states,
		index:  index,
	}
}

// enumerate walks the state space forward one pull at a time. Each layer is
// produced fresh from the previous one; nothing is accumulated across layers.
func enumerate(ctx context.Context, config SolverConfig, initial State, trials int) ([]Layer, error) {
	if err := validateProblem(initial, trials); err != nil {
		return nil, err
	}

	logger := config.logger()

	layers := make([]Layer, 0, trials+1)
	layers = append(layers, newLayer(0, []State{initial}))

	for k := 1; k <= trials; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prev := layers[k-1]

		seen := make(map[State]struct{}, LayerSize(k))
		next := make([]State, 0, LayerSize(k))

		for _, s := range prev.states {
			for _, arm := range Arms {
				for _, success := range [2]bool{true, false} {
					n := s.Pull(arm, success)
					if _, ok := seen[n]; ok {
						continue
					}

					seen[n] = struct{}{}
					next = append(next, n)
				}
			}
		}

		layer := newLayer(k, next)
		layers = append(layers, layer)

		logger.Debug("enumerated layer", "pulls", k, "states", layer.Len())

		config.sendProgress(ProgressUpdate{
			Phase:            PhaseEnumeration,
			Pulls:            k,
			Remaining:        trials - k,
			States:           layer.Len(),
			CurrentIteration: k,
			TotalIterations:  trials,
		})
	}

	return layers, nil
}
