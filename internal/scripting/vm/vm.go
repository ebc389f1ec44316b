package vm

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/eval"
	"eventide/internal/scripting/parser"
	"eventide/internal/scripting/types"
)

// DefaultMaxMicroSteps bounds the commands one Update may process
const DefaultMaxMicroSteps = 64

var (
	ErrNoScheduler = errors.New("no scheduler attached")
	ErrNoEvaluator = errors.New("no evaluator attached")
)

var _ types.VMInterface = (*Event)(nil)

// Env carries the collaborators shared by every Event of one host
type Env struct {
	Catalog   *catalog.Catalog
	Parser    *parser.Parser
	Handlers  *Registry
	World     types.World
	Actions   types.ActionLog
	Evaluator types.Evaluator
	Presenter types.Presenter
	Audio     types.Audio
	Random    types.Random
	Host      types.Host
	Scheduler types.Scheduler

	MaxMicroSteps int

	// Trace, when set, sees every command just before it is dispatched
	Trace func(e *Event, cmd *types.Command)
}

// WithDefaults returns a copy of env with unset collaborators filled. World
// is required by handlers that touch the world; everything else has a quiet
// stand-in.
func (env *Env) WithDefaults() *Env {
	c := *env
	if c.Catalog == nil {
		c.Catalog = catalog.Standard()
	}
	if c.Parser == nil {
		c.Parser = parser.New(c.Catalog)
	}
	if c.Handlers == nil {
		c.Handlers = NewRegistry()
	}
	if c.Random == nil {
		c.Random = random.New(0)
	}
	if c.Actions == nil && c.World != nil {
		l := action.NewLog(c.World)
		if r, ok := c.Random.(action.Randomness); ok {
			l.TrackRandom(r)
		}
		c.Actions = l
	}
	if c.Presenter == nil {
		c.Presenter = nopPresenter{}
	}
	if c.Audio == nil {
		c.Audio = nopAudio{}
	}
	if c.Host == nil {
		c.Host = nopHost{}
	}
	if c.MaxMicroSteps <= 0 {
		c.MaxMicroSteps = DefaultMaxMicroSteps
	}
	return &c
}

// Event is one running instance of a script
type Event struct {
	id      string
	prefab  string
	trigger string

	env    *Env
	stream *Stream
	cond   *CondStack

	state     State
	now       time.Duration
	wakeAt    time.Duration
	skip      bool
	superSkip bool
	priority  int
	ctx       types.EventContext
	handoff   *types.Handoff
}

// NewEvent creates an Event over cmds. prefab and trigger identify where it
// came from and are persisted with it.
func NewEvent(env *Env, prefab, trigger string, cmds []*types.Command, ctx types.EventContext) *Event {
	return &Event{
		id:      uuid.NewString(),
		prefab:  prefab,
		trigger: trigger,
		env:     env.WithDefaults(),
		stream:  NewStream(cmds),
		cond:    NewCondStack(),
		state:   StateProcessing,
		ctx:     ctx,
	}
}

// ID returns the instance id
func (e *Event) ID() string { return e.id }

// Prefab returns the prefab nid the Event was built from
func (e *Event) Prefab() string { return e.prefab }

// TriggerName returns the trigger that started the Event
func (e *Event) TriggerName() string { return e.trigger }

// State returns the current execution state
func (e *Event) State() State { return e.state }

// Pointer returns the instruction pointer
func (e *Event) Pointer() int { return e.stream.Cursor() }

// Stream returns the instruction stream
func (e *Event) Stream() *Stream { return e.stream }

// Conditions returns the conditional stacks
func (e *Event) Conditions() *CondStack { return e.cond }

// Handoff returns the pending host state while paused
func (e *Event) Handoff() *types.Handoff { return e.handoff }

// SuperSkip returns true if the current skip ignores end_skip
func (e *Event) SuperSkip() bool { return e.superSkip }

// IsComplete returns true once the Event has finished
func (e *Event) IsComplete() bool { return e.state == StateComplete }

// Context returns the ids the Event was started with
func (e *Event) Context() types.EventContext {
	return e.ctx
}

// SetItem records the item a handler chose, for the commands that follow
func (e *Event) SetItem(uid int) {
	e.ctx.ItemUID = uid
}

// World returns the world the Event reads and mutates
func (e *Event) World() types.World { return e.env.World }

// Actions returns the log every world mutation goes through
func (e *Event) Actions() types.ActionLog { return e.env.Actions }

// Presenter returns the host's presentation layer
func (e *Event) Presenter() types.Presenter { return e.env.Presenter }

// Audio returns the host's audio sink
func (e *Event) Audio() types.Audio { return e.env.Audio }

// Random returns the shared replayable random source
func (e *Event) Random() types.Random { return e.env.Random }

// Now returns the time of the current Update
func (e *Event) Now() time.Duration { return e.now }

func (e *Event) evalContext() types.EvalContext {
	return types.EvalContext{World: e.env.World, Event: e.ctx}
}

// Evaluate evaluates expr against the Event's context
func (e *Event) Evaluate(expr string) (any, error) {
	if e.env.Evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return e.env.Evaluator.Evaluate(expr, e.evalContext())
}

// Substitute expands text templates against the Event's context
func (e *Event) Substitute(text string) string {
	return eval.Substitute(text, e.env.Evaluator, e.evalContext())
}

// Wait suspends the Event for d. It is ignored while skipping.
func (e *Event) Wait(d time.Duration) {
	if e.skip || d <= 0 {
		return
	}
	if !e.suspendable("waiting") {
		return
	}
	e.wakeAt = e.now + d
	e.setState(StateWaiting)
}

// Present sends r to the presenter. A blocking request puts the Event in
// dialog until the presenter is idle.
func (e *Event) Present(r types.Request) {
	e.priority++
	r.Priority = e.priority
	e.env.Presenter.Present(r)
	if r.Blocking && !e.skip && e.suspendable("dialog") {
		e.setState(StateDialog)
	}
}

// Pause hands control to the host state h until Resume is called with its name
func (e *Event) Pause(h types.Handoff) {
	if !e.suspendable("paused") {
		return
	}
	e.handoff = &h
	e.setState(StatePaused)
	e.env.Host.PushState(h)
}

// Finish ends the Event
func (e *Event) Finish() {
	e.setState(StateComplete)
}

// Skip starts fast-forwarding. A super skip cannot be stopped by end_skip.
func (e *Event) Skip(super bool) {
	e.skip = true
	e.superSkip = e.superSkip || super
	switch e.state {
	case StateDialog:
		e.env.Presenter.Hurry()
		e.setState(StateProcessing)
	case StateWaiting:
		e.setState(StateProcessing)
	}
}

// EndSkip stops a normal skip
func (e *Event) EndSkip() {
	if !e.superSkip {
		e.skip = false
	}
}

// Skipping returns true while fast-forwarding
func (e *Event) Skipping() bool {
	return e.skip
}

// Resume continues a paused Event once the host pops the state it asked for
func (e *Event) Resume(state string) bool {
	if e.state != StatePaused || e.handoff == nil || e.handoff.State != state {
		return false
	}
	e.handoff = nil
	e.setState(StateProcessing)
	return true
}

// Splice inserts cmds right after the current command
func (e *Event) Splice(cmds ...*types.Command) error {
	return e.stream.Splice(cmds...)
}

// Trigger asks the scheduler to start prefab nid
func (e *Event) Trigger(nid string, ctx types.EventContext) error {
	if e.env.Scheduler == nil {
		return ErrNoScheduler
	}
	return e.env.Scheduler.TriggerSpecific(nid, ctx)
}

// suspendable reports whether a handler may still suspend the Event. Only one
// suspension is honored per command.
func (e *Event) suspendable(to string) bool {
	if e.state == StateProcessing {
		return true
	}
	log.Warn("ignoring second suspension request", e.attrs("state", e.state.String(), "requested", to)...)
	return false
}

func (e *Event) setState(s State) {
	if e.state == s {
		return
	}
	log.Debug("event state change", e.attrs("from", e.state.String(), "to", s.String())...)
	e.state = s
}

func (e *Event) attrs(args ...any) []any {
	return append([]any{"event", e.id, "prefab", e.prefab, "trigger", e.trigger, "pointer", e.stream.Cursor()}, args...)
}

type nopPresenter struct{}

func (nopPresenter) Present(types.Request) {}
func (nopPresenter) Busy() bool            { return false }
func (nopPresenter) Hurry()                {}

type nopAudio struct{}

func (nopAudio) PlayMusic(string, time.Duration) {}
func (nopAudio) StopMusic(time.Duration)         {}
func (nopAudio) PlaySound(string, float64)       {}

type nopHost struct{}

func (nopHost) PushState(types.Handoff) {}
