package bandit

// GreedyValue returns the best immediate expected reward of s, the larger of
// the two posterior means, and the arm achieving it. Arm1 wins ties.
//
// It is the value of a state with exactly one trial left, which makes it the
// terminal value of the backward induction.
//
// Example:
//
//	v, arm := GreedyValue(State{3, 1, 1, 1}) // 0.75, Arm1
func GreedyValue(s State) (float64, Arm) {
	m1, m2 := s.Mean(Arm1), s.Mean(Arm2)
	if m2 > m1 {
		return m2, Arm2
	}

	return m1, Arm1
}

// greedyDecision wraps GreedyValue in a Decision, flagging ties.
func greedyDecision(s State, tolerance float64) Decision {
	v, arm := GreedyValue(s)

	return Decision{
		Value: v,
		Arm:   arm,
		Tie:   tied(s.Mean(Arm1), s.Mean(Arm2), tolerance),
	}
}
