package bandit

import (
	"fmt"
	"log/slog"
)

//////
// Const, vars, types.
//////

// Arm identifies one of the two arms of the bandit.
type Arm int

const (
	// Arm1 is the first arm.
	Arm1 Arm = 1

	// Arm2 is the second arm.
	Arm2 Arm = 2
)

// Arms lists both arms in the order they are evaluated.
var Arms = [2]Arm{Arm1, Arm2}

// String implements fmt.Stringer.
func (a Arm) String() string {
	return fmt.Sprintf("arm%d", int(a))
}

// Valid reports whether a names one of the two arms.
func (a Arm) Valid() bool {
	return a == Arm1 || a == Arm2
}

// State holds the Beta pseudo-counts of both arms: successes+1 in Alpha and
// failures+1 in Beta. A fresh uniform prior is State{1, 1, 1, 1}.
//
// States are plain values. Pull never modifies the receiver, it returns the
// successor state, so a State can be used as a map key and shared freely.
type State struct {
	Alpha1 int `json:"alpha1" yaml:"alpha1"`
	Beta1  int `json:"beta1" yaml:"beta1"`
	Alpha2 int `json:"alpha2" yaml:"alpha2"`
	Beta2  int `json:"beta2" yaml:"beta2"`
}

// Decision is the solved value of a state: the optimal expected sum of the
// remaining rewards and the arm that achieves it.
type Decision struct {
	// Value is the optimal expected number of successes over the remaining
	// trials. Always >= 0.
	Value float64 `json:"value"`

	// Arm is the arm to pull now. On ties it is Arm1.
	Arm Arm `json:"arm"`

	// Tie is set when both arms are within the solver's tie tolerance, so
	// either arm is optimal.
	Tie bool `json:"tie"`
}

// ProgressUpdate represents the current state of the solving process.
type ProgressUpdate struct {
	// Phase is either PhaseEnumeration or PhaseBackwardInduction.
	Phase string

	// Pulls is the number of pulls that lead to the layer just processed.
	Pulls int

	// Remaining is the number of trials left at that layer.
	Remaining int

	// States is the number of distinct states in that layer.
	States int

	// CurrentIteration is the 1-based position of this update within its phase.
	CurrentIteration int

	// TotalIterations is the number of updates the phase will emit.
	TotalIterations int
}

// Phases reported through ProgressUpdate.
const (
	PhaseEnumeration       = "Enumeration"
	PhaseBackwardInduction = "BackwardInduction"
)

// SolverConfig holds all configuration parameters for the backward induction.
//
// Fields explanation:
// - TieTolerance: Absolute difference under which two arm values are a tie
// - Workers: Number of goroutines valuing the states of a single layer
// - Myopic: Value the greedy policy instead of the optimal one
// - Logger: Structured logger for per-layer records
// - ProgressChan: Optional channel receiving per-layer progress
//
// Usage example:
//
//	config := DefaultConfig()
//	config.Workers = 4
//
//	solution, err := Solve(config, State{1, 1, 1, 1}, 10)
//
// Note:
// - The solver never writes to a layer table after it is built, so Workers
//   only changes the speed, never the result.
type SolverConfig struct {
	// TieTolerance is the absolute difference between the two arm values at
	// or under which the decision is reported as a tie.
	// Recommended range: 1e-12 to 1e-9
	TieTolerance float64

	// Workers is the number of goroutines valuing the states of one layer.
	// Values <= 1 run sequentially.
	Workers int

	// Myopic values the policy that always pulls the arm with the larger
	// posterior mean instead of the optimal one. Used as a baseline.
	Myopic bool

	// Logger receives debug records per enumerated and valued layer.
	// If nil, logging is discarded.
	Logger *slog.Logger

	// ProgressChan is used to send progress updates while solving.
	// If nil, no updates will be sent. Full channels drop updates.
	ProgressChan chan<- ProgressUpdate
}
