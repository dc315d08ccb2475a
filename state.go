package bandit

import "fmt"

//////
// Methods.
//////

// Validate checks that every pseudo-count is at least 1.
func (s State) Validate() error {
	if s.Alpha1 < 1 || s.Beta1 < 1 || s.Alpha2 < 1 || s.Beta2 < 1 {
		return fmt.Errorf("%w: prior counts must be >= 1, got %s", ErrInvalidInput, s)
	}

	return nil
}

// Counts returns the (alpha, beta) pair of the given arm.
func (s State) Counts(arm Arm) (alpha, beta int) {
	if arm == Arm2 {
		return s.Alpha2, s.Beta2
	}

	return s.Alpha1, s.Beta1
}

// Mean returns the posterior mean success probability α/(α+β) of arm.
func (s State) Mean(arm Arm) float64 {
	alpha, beta := s.Counts(arm)

	return posteriorMean(alpha, beta)
}

// Pull returns the state reached after pulling arm and observing a success
// (alpha incremented) or a failure (beta incremented). The receiver is left
// unchanged.
func (s State) Pull(arm Arm, success bool) State {
	switch {
	case arm == Arm1 && success:
		s.Alpha1++
	case arm == Arm1:
		s.Beta1++
	case success:
		s.Alpha2++
	default:
		s.Beta2++
	}

	return s
}

// Swap exchanges the labels of the two arms.
func (s State) Swap() State {
	return State{
		Alpha1: s.Alpha2,
		Beta1:  s.Beta2,
		Alpha2: s.Alpha1,
		Beta2:  s.Beta1,
	}
}

// Symmetric reports whether both arms carry the same counts.
func (s State) Symmetric() bool {
	return s == s.Swap()
}

// Total is the sum of the four pseudo-counts. Each pull increments it by one.
func (s State) Total() int {
	return s.Alpha1 + s.Beta1 + s.Alpha2 + s.Beta2
}

// String implements fmt.Stringer.
func (s State) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.Alpha1, s.Beta1, s.Alpha2, s.Beta2)
}
