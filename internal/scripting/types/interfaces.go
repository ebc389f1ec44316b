package types

import (
	"errors"
	"time"
)

// ErrReference is wrapped by handler errors for names that do not resolve
var ErrReference = errors.New("unresolved reference")

// Pseudo references accepted wherever a unit or position is expected
const (
	RefUnit     = "{unit}"
	RefUnit2    = "{unit2}"
	RefPosition = "{position}"
)

// EventContext is what an Event was instantiated with. Only stable ids are
// kept so the context survives save and restore.
type EventContext struct {
	Unit     string    `json:"unit,omitempty"`
	Unit2    string    `json:"unit2,omitempty"`
	ItemUID  int       `json:"item_uid,omitempty"`
	Position *Position `json:"position,omitempty"`
	Region   string    `json:"region,omitempty"`
}

// EvalContext is passed to the expression evaluator
type EvalContext struct {
	World World
	Event EventContext
}

// Evaluator evaluates expressions found in conditions and text templates
type Evaluator interface {
	Evaluate(expr string, ctx EvalContext) (any, error)
}

// Presentation request kinds
const (
	PresentSpeak          = "speak"
	PresentAlert          = "alert"
	PresentPortrait       = "portrait"
	PresentRemovePortrait = "remove_portrait"
	PresentClearPortraits = "clear_portraits"
	PresentMovePortrait   = "move_portrait"
	PresentBop            = "bop_portrait"
	PresentExpression     = "expression"
	PresentMirror         = "mirror_portrait"
	PresentUnhold         = "unhold"
	PresentTransition     = "transition"
	PresentBackground     = "background"
	PresentLocationCard   = "location_card"
	PresentCredits        = "credits"
	PresentEnding         = "ending"
	PresentShake          = "screen_shake"
	PresentCursor         = "cursor"
	PresentUnitAnimation  = "unit_animation"
)

// Request asks the presentation layer to show something. Priority layers
// requests issued by one Event; later requests draw above earlier ones.
type Request struct {
	Kind     string
	Args     map[string]string
	Flags    []string
	Priority int
	Blocking bool // the Event enters dialog until the presenter is idle
}

// Presenter renders dialogue, portraits and scene effects
type Presenter interface {
	Present(r Request)
	Busy() bool
	Hurry()
}

// Audio plays music and sound cues
type Audio interface {
	PlayMusic(nid string, fadeIn time.Duration)
	StopMusic(fadeOut time.Duration)
	PlaySound(nid string, volume float64)
}

// Random is the seeded, replay-logged source shared with the host rewind
type Random interface {
	Intn(n int) int
}

// Handoff asks the host to push an external state; the Event stays paused
// until that state is popped.
type Handoff struct {
	State string            `json:"state"`
	Args  map[string]string `json:"args,omitempty"`
}

// Host owns the state stack the interpreter is embedded in
type Host interface {
	PushState(h Handoff)
}

// Scheduler starts further events by prefab id
type Scheduler interface {
	TriggerSpecific(nid string, ctx EventContext) error
}

// Action is a reversible world mutation
type Action interface {
	Do(w World)
	Reverse(w World)
}

// ActionLog applies actions and records them for undo
type ActionLog interface {
	Do(a Action)
}

// CommandHandler executes one command. Returning an error never stops the
// Event; the interpreter logs it and moves on.
type CommandHandler func(vm VMInterface, cmd *Command, args *Args) error

// VMInterface is what command handlers use to interact with the running Event
type VMInterface interface {
	// Context and collaborators
	Context() EventContext
	SetItem(uid int)
	World() World
	Actions() ActionLog
	Presenter() Presenter
	Audio() Audio
	Random() Random
	Now() time.Duration

	// Expressions
	Evaluate(expr string) (any, error)
	Substitute(text string) string

	// State machine
	Wait(d time.Duration)
	Present(r Request)
	Pause(h Handoff)
	Finish()
	EndSkip()
	Skipping() bool

	// Stream
	Splice(cmds ...*Command) error
	Trigger(nid string, ctx EventContext) error
}
