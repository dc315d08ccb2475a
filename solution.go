package bandit

import (
	"fmt"
	"slices"
)

//////
// Const, vars, types.
//////

// ValueTable maps every state of one layer to its Decision for a fixed
// number of remaining trials. Built once by the solver, then read-only.
type ValueTable struct {
	pulls     int
	remaining int
	values    map[State]Decision
}

// Solution is the result of a backward induction: the enumerated layers and
// the value table of every layer that still has a decision to make.
type Solution struct {
	// Initial is the prior the solve started from.
	Initial State

	// Trials is the horizon.
	Trials int

	layers []Layer
	tables []ValueTable
}

// PolicyRow is one line of a policy table.
type PolicyRow struct {
	Pulls     int      `json:"pulls"`
	Remaining int      `json:"remaining"`
	State     State    `json:"state"`
	Decision  Decision `json:"decision"`
}

//////
// Methods.
//////

// Pulls is the number of pulls leading to this table's layer.
func (t ValueTable) Pulls() int {
	return t.pulls
}

// Remaining is the number of trials left at this table's layer.
func (t ValueTable) Remaining() int {
	return t.remaining
}

// Len is the number of valued states.
func (t ValueTable) Len() int {
	return len(t.values)
}

// Lookup returns the decision of s, or ErrStateNotFound.
func (t ValueTable) Lookup(s State) (Decision, error) {
	d, ok := t.values[s]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s after %d pulls", ErrStateNotFound, s, t.pulls)
	}

	return d, nil
}

// Root returns the decision at the initial state, with all trials remaining.
func (s *Solution) Root() Decision {
	// Layer 0 holds exactly Initial; SolveContext fails if it does not.
	d, _ := s.tables[0].Lookup(s.Initial)

	return d
}

// Lookup returns the decision of state. The layer is derived from how many
// pulls separate state from the initial prior. States after the last pull
// have no decision and, like unreachable states, yield ErrStateNotFound.
func (s *Solution) Lookup(state State) (Decision, error) {
	k := state.Total() - s.Initial.Total()
	if k < 0 || k >= len(s.tables) {
		return Decision{}, fmt.Errorf("%w: %s is not a decision state of this solution", ErrStateNotFound, state)
	}

	return s.tables[k].Lookup(state)
}

// Layers returns every enumerated layer, after 0..Trials pulls.
func (s *Solution) Layers() []Layer {
	return slices.Clone(s.layers)
}

// Tables returns the value tables, index k holding the layer after k pulls.
func (s *Solution) Tables() []ValueTable {
	return slices.Clone(s.tables)
}

// LayerSizes returns the number of states of each enumerated layer.
func (s *Solution) LayerSizes() []int {
	sizes := make([]int, len(s.layers))
	for i, l := range s.layers {
		sizes[i] = l.Len()
	}

	return sizes
}

// Table flattens every value table into a single map. Layers never share a
// state since each pull increments the total count, so no entry is lost.
func (s *Solution) Table() map[State]Decision {
	var n int
	for _, t := range s.tables {
		n += t.Len()
	}

	out := make(map[State]Decision, n)
	for _, t := range s.tables {
		for st, d := range t.values {
			out[st] = d
		}
	}

	return out
}

// Policy lists every decision state ordered by pulls, then by state.
func (s *Solution) Policy() []PolicyRow {
	var rows []PolicyRow

	for k, t := range s.tables {
		for _, st := range s.layers[k].states {
			rows = append(rows, PolicyRow{
				Pulls:     k,
				Remaining: t.remaining,
				State:     st,
				Decision:  t.values[st],
			})
		}
	}

	return rows
}
