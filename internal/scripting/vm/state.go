package vm

import "fmt"

// State is the execution state of an Event
type State int

const (
	StateProcessing State = iota
	StateWaiting
	StateDialog
	StatePaused
	StateComplete
)

var stateNames = map[State]string{
	StateProcessing: "processing",
	StateWaiting:    "waiting",
	StateDialog:     "dialog",
	StatePaused:     "paused",
	StateComplete:   "complete",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState is the inverse of State.String
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return StateProcessing, fmt.Errorf("unknown event state %q", name)
}

// IsBlocking returns true if the Event must yield to the host in this state
func (s State) IsBlocking() bool {
	return s == StateWaiting || s == StateDialog || s == StatePaused
}
