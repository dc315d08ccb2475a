// Package bandit solves the finite-horizon, two-armed Beta-Bernoulli bandit
// exactly, by backward induction over the reachable posterior states.
//
// Each arm pays 1 with an unknown probability modelled by a Beta(α, β)
// posterior. Pulling an arm and observing a success increments its α, a
// failure increments its β. A State holds the four counts (α1, β1, α2, β2)
// and the solver finds, for every state reachable within the horizon, the
// arm maximising the expected number of successes still to come.
//
// # Features
//
// The package includes the following key features:
//
//   - State Enumeration: Layer by layer, deduplicated, so the layer after k
//     pulls holds exactly C(k+3, 3) states (1, 4, 10, 20, 35, 56, ...)
//   - Greedy Terminal Evaluation: With one trial left the best arm is the
//     one with the larger posterior mean
//   - Backward Induction: Direct comparison of both arms' expected values,
//     from the last decision layer back to the initial prior
//   - Explicit Tie Policy: Equal-valued arms report Arm1 with Tie set; the
//     first pull from a symmetric prior is a don't-care
//   - Parallel Layers: Optional worker pool valuing one layer's states
//   - Progress Monitoring: Per-layer updates via channels
//   - Policy Simulation: Play the solved policy against known arm
//     probabilities
//
// # Usage
//
//	table, err := bandit.SolveBandit(1, 1, 1, 1, 10)
//	if err != nil {
//	    return err
//	}
//
//	root := table[bandit.State{Alpha1: 1, Beta1: 1, Alpha2: 1, Beta2: 1}]
//	fmt.Println(root.Value, root.Arm, root.Tie)
//
// For the layers, per-layer tables and policy rows use Solve:
//
//	config := bandit.DefaultConfig()
//	config.Workers = 4
//	config.Logger = slog.Default()
//
//	solution, err := bandit.Solve(config, bandit.State{Alpha1: 1, Beta1: 1, Alpha2: 1, Beta2: 1}, 10)
//
// # Recursion
//
// With t trials remaining and p_j = α_j/(α_j+β_j):
//
//	V(s, 1) = max(p_1, p_2)
//	V(s, t) = max_j [ p_j + p_j·V(s+success_j, t-1) + (1-p_j)·V(s+failure_j, t-1) ]
//
// The total work is O(N^4) state evaluations for a horizon of N, fine for
// the horizons this is meant for (N up to a few tens).
//
// # Errors
//
//   - ErrInvalidInput: horizon < 1 or a count < 1, reported before any work
//   - ErrStateNotFound: a successor missing from the deeper table; the
//     enumeration is closed under Pull so this is a programming error
package bandit
