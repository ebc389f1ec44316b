package action

import (
	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/types"
)

// Randomness is a random source the log can wind back
type Randomness interface {
	State() random.State
	Reset(st random.State)
}

// Log applies actions to a world and keeps them for undo. It is the turnwheel
// of the host: Rewind walks back through recorded actions in reverse order.
//
// With a tracked random source, undoing back to n actions also puts the
// source back where it stood when the log first reached n actions, so a
// replayed command draws the same values.
type Log struct {
	world   types.World
	actions []types.Action

	random Randomness
	states []random.State // states[i] is the source when Len() became i
}

// NewLog creates an empty log over w
func NewLog(w types.World) *Log {
	return &Log{world: w}
}

// TrackRandom ties r to the log from this point on and returns the log
func (l *Log) TrackRandom(r Randomness) *Log {
	l.random = r
	l.states = make([]random.State, len(l.actions)+1)
	for i := range l.states {
		l.states[i] = r.State()
	}
	return l
}

// Do applies a and records it
func (l *Log) Do(a types.Action) {
	a.Do(l.world)
	l.actions = append(l.actions, a)
	if l.random != nil {
		l.states = append(l.states, l.random.State())
	}
}

// Len returns the number of recorded actions
func (l *Log) Len() int {
	return len(l.actions)
}

// Undo reverses the most recent action. It reports false when the log is empty.
func (l *Log) Undo() bool {
	if len(l.actions) == 0 {
		return false
	}
	last := l.actions[len(l.actions)-1]
	l.actions = l.actions[:len(l.actions)-1]
	last.Reverse(l.world)
	if l.random != nil {
		l.states = l.states[:len(l.states)-1]
		l.random.Reset(l.states[len(l.states)-1])
	}
	return true
}

// Rewind undoes up to n actions and returns how many were undone
func (l *Log) Rewind(n int) int {
	undone := 0
	for undone < n && l.Undo() {
		undone++
	}
	if undone > 0 {
		log.Debug("rewound actions", "count", undone, "remaining", len(l.actions))
	}
	return undone
}

// RewindTo undoes actions until Len() == mark
func (l *Log) RewindTo(mark int) int {
	return l.Rewind(len(l.actions) - mark)
}
