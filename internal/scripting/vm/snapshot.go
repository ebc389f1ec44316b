package vm

import (
	"fmt"
	"time"

	"eventide/internal/log"
	"eventide/internal/scripting/parser"
	"eventide/internal/scripting/types"
)

// Snapshot is the persisted form of an Event. Script holds the current
// stream, spliced commands included, one serialized line per command.
type Snapshot struct {
	ID         string             `json:"id"`
	Prefab     string             `json:"prefab"`
	Trigger    string             `json:"trigger"`
	Script     []string           `json:"script"`
	Pointer    int                `json:"pointer"`
	IfStack    []bool             `json:"if_stack"`
	ParseStack []bool             `json:"parse_stack"`
	State      string             `json:"state"`
	WakeAt     time.Duration      `json:"wake_at"`
	Skip       bool               `json:"skip"`
	SuperSkip  bool               `json:"super_skip"`
	Priority   int                `json:"priority"`
	Context    types.EventContext `json:"context"`
	Handoff    *types.Handoff     `json:"handoff,omitempty"`
}

// Snapshot captures the Event's full interpreter state
func (e *Event) Snapshot() Snapshot {
	cmds := e.stream.Commands()
	script := make([]string, len(cmds))
	for i, c := range cmds {
		script[i] = parser.Serialize(c)
	}
	ifs, parse := e.cond.Frames()
	snap := Snapshot{
		ID:         e.id,
		Prefab:     e.prefab,
		Trigger:    e.trigger,
		Script:     script,
		Pointer:    e.stream.Cursor(),
		IfStack:    ifs,
		ParseStack: parse,
		State:      e.state.String(),
		WakeAt:     e.wakeAt,
		Skip:       e.skip,
		SuperSkip:  e.superSkip,
		Priority:   e.priority,
		Context:    e.ctx,
	}
	if e.handoff != nil {
		h := *e.handoff
		snap.Handoff = &h
	}
	return snap
}

// Restore rebuilds an Event from a snapshot. A dialog in progress is not
// persisted, so a dialog Event comes back processing; a paused Event comes
// back paused on the same handoff.
func Restore(env *Env, snap Snapshot) (*Event, error) {
	env = env.WithDefaults()
	cmds := make([]*types.Command, len(snap.Script))
	for i, line := range snap.Script {
		cmd, err := env.Parser.ParseLine(line)
		if err != nil {
			// keep the slot so the pointer still lines up
			log.Warn("unreadable command in saved event", "event", snap.ID, "index", i, "text", line, "error", err)
			cmd = types.NewCommand(types.CommentID, line)
		}
		cmds[i] = cmd
	}
	if snap.Pointer < 0 || snap.Pointer > len(cmds) {
		return nil, fmt.Errorf("restore event %s: pointer %d outside stream of %d", snap.ID, snap.Pointer, len(cmds))
	}
	cond, err := restoreCondStack(snap.IfStack, snap.ParseStack)
	if err != nil {
		return nil, fmt.Errorf("restore event %s: %w", snap.ID, err)
	}
	state, err := ParseState(snap.State)
	if err != nil {
		return nil, fmt.Errorf("restore event %s: %w", snap.ID, err)
	}

	e := &Event{
		id:        snap.ID,
		prefab:    snap.Prefab,
		trigger:   snap.Trigger,
		env:       env,
		stream:    &Stream{cmds: cmds, cursor: snap.Pointer},
		cond:      cond,
		state:     state,
		wakeAt:    snap.WakeAt,
		skip:      snap.Skip,
		superSkip: snap.SuperSkip,
		priority:  snap.Priority,
		ctx:       snap.Context,
	}
	switch state {
	case StateDialog:
		e.state = StateProcessing
	case StatePaused:
		if snap.Handoff == nil {
			e.state = StateProcessing
		} else {
			h := *snap.Handoff
			e.handoff = &h
		}
	}
	return e, nil
}
