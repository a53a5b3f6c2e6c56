package agent

import "fmt"

// legalTransitions enumerates the valid moves of the loop state machine.
// Anything else is a defect.
var legalTransitions = map[State][]State{
	StateRunning:       {StateAwaitingTools, StateTerminated},
	StateAwaitingTools: {StateRunning},
}

// advance moves the machine from one state to another, failing on any
// transition the machine does not define.
func advance(from, to State) (State, error) {
	for _, legal := range legalTransitions[from] {
		if legal == to {
			return to, nil
		}
	}
	return from, fmt.Errorf("invalid loop transition %s -> %s", from, to)
}
