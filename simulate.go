package bandit

import (
	"fmt"
	"math/rand"
)

// Step is a single pull made while playing a policy.
type Step struct {
	State   State `json:"state"`
	Arm     Arm   `json:"arm"`
	Success bool  `json:"success"`
}

// Trajectory is one play of the policy over the whole horizon.
type Trajectory struct {
	Steps  []Step `json:"steps"`
	Reward int    `json:"reward"`
	Final  State  `json:"final"`
}

// Simulate plays the solved policy once against arms whose true success
// probabilities are probs[0] and probs[1]. Outcomes are drawn from rng, so a
// fixed seed reproduces the same trajectory.
//
// Parameters:
// - solution: Result of Solve
// - probs: True success probability of Arm1 and Arm2, each in [0, 1]
// - rng: Random source, must not be nil
//
// Returns:
// - Trajectory: Solution.Trials steps and the number of successes
// - error: ErrInvalidInput for bad probabilities, a nil solution or a nil rng
//
// Warning:
// - Do NOT share rng between goroutines; *rand.Rand is not safe for
//   concurrent use.
func Simulate(solution *Solution, probs [2]float64, rng *rand.Rand) (Trajectory, error) {
	if solution == nil {
		return Trajectory{}, fmt.Errorf("%w: nil solution", ErrInvalidInput)
	}

	for i, p := range probs {
		if p < 0 || p > 1 {
			return Trajectory{}, fmt.Errorf("%w: probability of %s must be in [0,1], got %v", ErrInvalidInput, Arms[i], p)
		}
	}

	if rng == nil {
		return Trajectory{}, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}

	traj := Trajectory{
		Steps: make([]Step, 0, solution.Trials),
	}

	state := solution.Initial

	for k := 0; k < solution.Trials; k++ {
		d, err := solution.Lookup(state)
		if err != nil {
			return Trajectory{}, err
		}

		success := rng.Float64() < probs[d.Arm-1]
		if success {
			traj.Reward++
		}

		traj.Steps = append(traj.Steps, Step{
			State:   state,
			Arm:     d.Arm,
			Success: success,
		})

		state = state.Pull(d.Arm, success)
	}

	traj.Final = state

	return traj, nil
}
