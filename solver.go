package bandit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

//////
// Const, vars, types.
//////

// DefaultTieTolerance is the tie tolerance used by DefaultConfig.
const DefaultTieTolerance = 1e-12

//////
// Exported functionalities.
//////

// DefaultConfig returns a default configuration.
func DefaultConfig() SolverConfig {
	return SolverConfig{
		TieTolerance: DefaultTieTolerance,
		Workers:      1,
		Logger:       nil, // Default to discarding logs.
		ProgressChan: nil, // Default to no progress updates.
	}
}

// SolveBandit solves the two-armed bandit with priors Beta(alpha1, beta1)
// and Beta(alpha2, beta2) over trials pulls using DefaultConfig, and returns
// the decision of every state that still has at least one trial left.
//
// Usage example:
//
//	table, err := SolveBandit(1, 1, 1, 1, 2)
//	if err != nil {
//	    return err
//	}
//
//	d := table[State{1, 1, 1, 1}] // d.Value == 13.0/12, d.Tie == true
func SolveBandit(alpha1, beta1, alpha2, beta2, trials int) (map[State]Decision, error) {
	solution, err := Solve(DefaultConfig(), State{
		Alpha1: alpha1,
		Beta1:  beta1,
		Alpha2: alpha2,
		Beta2:  beta2,
	}, trials)
	if err != nil {
		return nil, err
	}

	return solution.Table(), nil
}

// Solve runs the backward induction. See SolveContext.
func Solve(config SolverConfig, initial State, trials int) (*Solution, error) {
	return SolveContext(context.Background(), config, initial, trials)
}

// SolveContext computes the optimal expected cumulative reward and the
// optimal arm of every state reachable from initial within a horizon of
// trials pulls.
//
// Parameters:
// - ctx: Checked between layers; cancelling it aborts the solve
// - config: SolverConfig controlling tie handling, workers and reporting
// - initial: Prior pseudo-counts; every count must be >= 1
// - trials: Horizon; must be >= 1
//
// Returns:
// - *Solution: Layers and per-layer value tables
// - error: ErrInvalidInput, ErrStateNotFound or the context error
//
// How it works:
// 1. Enumerates the layers after 0..trials pulls
// 2. Values the layer after trials-1 pulls (one trial left) greedily
// 3. For every earlier layer, for each state and arm j:
//
//	Q_j = p_j + p_j·V(s+success_j) + (1-p_j)·V(s+failure_j)
//
// and keeps max(Q_1, Q_2), read from the already built deeper table.
//
// Ties (|Q_1-Q_2| <= TieTolerance) report Arm1 with Tie set. From a symmetric
// prior the first pull is always such a tie: either arm is optimal.
func SolveContext(ctx context.Context, config SolverConfig, initial State, trials int) (*Solution, error) {
	layers, err := enumerate(ctx, config, initial, trials)
	if err != nil {
		return nil, err
	}

	logger := config.logger()

	// tables[k] values the layer after k pulls, trials-k trials remaining.
	tables := make([]ValueTable, trials)

	for k := trials - 1; k >= 0; k-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next *ValueTable
		if k < trials-1 {
			next = &tables[k+1]
		}

		table, err := valueLayer(ctx, config, layers[k], next, trials-k)
		if err != nil {
			return nil, err
		}

		tables[k] = table

		logger.Debug("valued layer",
			"pulls", k,
			"remaining", trials-k,
			"states", table.Len(),
		)

		config.sendProgress(ProgressUpdate{
			Phase:            PhaseBackwardInduction,
			Pulls:            k,
			Remaining:        trials - k,
			States:           table.Len(),
			CurrentIteration: trials - k,
			TotalIterations:  trials,
		})
	}

	root, err := tables[0].Lookup(initial)
	if err != nil {
		return nil, err
	}

	logger.Info("solved bandit",
		"initial", initial.String(),
		"trials", trials,
		"value", root.Value,
		"arm", root.Arm.String(),
		"tie", root.Tie,
	)

	return &Solution{
		Initial: initial,
		Trials:  trials,
		layers:  layers,
		tables:  tables,
	}, nil
}

//////
// Helper functions.
//////

// valueLayer builds the value table of one layer. With next == nil the layer
// is the last decision layer and is valued greedily. Otherwise every state
// reads its four successors from next, which is never written to here.
func valueLayer(
	ctx context.Context,
	config SolverConfig,
	layer Layer,
	next *ValueTable,
	remaining int,
) (ValueTable, error) {
	tolerance := config.TieTolerance

	decide := func(s State) (Decision, error) {
		if next == nil {
			return greedyDecision(s, tolerance), nil
		}

		if config.Myopic {
			return solveMyopicState(s, *next, tolerance)
		}

		return solveState(s, *next, tolerance)
	}

	decisions := make([]Decision, layer.Len())

	workers := config.Workers
	if workers > layer.Len() {
		workers = layer.Len()
	}

	if workers <= 1 {
		for i, s := range layer.states {
			d, err := decide(s)
			if err != nil {
				return ValueTable{}, err
			}

			decisions[i] = d
		}
	} else {
		g, gCtx := errgroup.WithContext(ctx)

		chunk := (layer.Len() + workers - 1) / workers

		for start := 0; start < layer.Len(); start += chunk {
			start := start
			end := min(start+chunk, layer.Len())

			g.Go(func() error {
				for i := start; i < end; i++ {
					if err := gCtx.Err(); err != nil {
						return err
					}

					d, err := decide(layer.states[i])
					if err != nil {
						return err
					}

					// Each goroutine owns a disjoint range of slots.
					decisions[i] = d
				}

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return ValueTable{}, err
		}
	}

	values := make(map[State]Decision, len(decisions))
	for i, s := range layer.states {
		values[s] = decisions[i]
	}

	return ValueTable{
		pulls:     layer.pulls,
		remaining: remaining,
		values:    values,
	}, nil
}

// solveState evaluates both arms of s against the deeper table next and
// keeps the better one.
func solveState(s State, next ValueTable, tolerance float64) (Decision, error) {
	var q [2]float64

	for i, arm := range Arms {
		v, err := armValue(s, arm, next)
		if err != nil {
			return Decision{}, err
		}

		q[i] = v
	}

	d := Decision{
		Value: math.Max(q[0], q[1]),
		Arm:   Arm1,
		Tie:   tied(q[0], q[1], tolerance),
	}

	if !d.Tie && q[1] > q[0] {
		d.Arm = Arm2
	}

	return d, nil
}

// solveMyopicState values s under the greedy policy: the arm is fixed by
// the posterior means, only its continuation is read from next.
func solveMyopicState(s State, next ValueTable, tolerance float64) (Decision, error) {
	d := greedyDecision(s, tolerance)

	v, err := armValue(s, d.Arm, next)
	if err != nil {
		return Decision{}, err
	}

	d.Value = v

	return d, nil
}

// armValue is the expected reward of pulling arm at s now plus the expected
// value of the successor read from next.
func armValue(s State, arm Arm, next ValueTable) (float64, error) {
	p := s.Mean(arm)

	win, err := next.Lookup(s.Pull(arm, true))
	if err != nil {
		return 0, fmt.Errorf("successor of %s on %s success: %w", s, arm, err)
	}

	lose, err := next.Lookup(s.Pull(arm, false))
	if err != nil {
		return 0, fmt.Errorf("successor of %s on %s failure: %w", s, arm, err)
	}

	return p + p*win.Value + (1-p)*lose.Value, nil
}

// logger returns the configured logger or one that discards everything.
func (c SolverConfig) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return c.Logger
}

// sendProgress delivers update without blocking the solver.
func (c SolverConfig) sendProgress(update ProgressUpdate) {
	if c.ProgressChan == nil {
		return
	}

	select {
	case c.ProgressChan <- update:
	default:
		// Skip update if channel is full.
	}
}
