package rental

// State is the lifecycle state of a rental order.
type State string

const (
	StateDraft     State = "draft"
	StateConfirmed State = "confirmed"
	StateFinished  State = "finished"
	StateCancelled State = "cancelled"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateDraft, StateConfirmed, StateFinished, StateCancelled:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

// transitions is the single source of truth for the order lifecycle.
// Finished and cancelled are terminal.
var transitions = map[State][]State{
	StateDraft:     {StateConfirmed, StateCancelled},
	StateConfirmed: {StateFinished},
}

// CanTransition reports whether an order may move from one state to another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}
