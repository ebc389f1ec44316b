package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventide/internal/random"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/eval"
	"eventide/internal/scripting/parser"
	"eventide/internal/scripting/types"
	worldpkg "eventide/internal/world"
)

const fixture = `
map:
  width: 8
  height: 6
  blocked:
    - {x: 7, y: 5}
items:
  - {nid: chest_key, name: Chest Key, uses: 1, unlock: true}
  - {nid: door_key, name: Door Key, uses: 2, unlock: true}
  - {nid: vulnerary, name: Vulnerary, uses: 3}
units:
  - nid: Eirika
    name: Eirika
    team: player
    party: eirika
    portrait: EirikaPortrait
    position: {x: 1, y: 1}
    hp: 16
    items:
      - {uid: 1, nid: door_key, name: Door Key, uses: 2, unlock: true}
  - nid: Seth
    name: Seth
    team: player
    party: eirika
    position: {x: 2, y: 1}
    hp: 30
  - nid: Bandit
    name: Bandit
    team: enemy
    position: {x: 6, y: 4}
    hp: 20
  - nid: Franz
    name: Franz
    team: player
    party: eirika
    start: {x: 3, y: 3}
    hp: 20
  - nid: Gilliam
    name: Gilliam
    team: player
    party: eirika
    start: {x: 4, y: 3}
    hp: 25
groups:
  - nid: reinforcements
    units: [Franz, Gilliam]
    positions:
      Franz: {x: 3, y: 3}
      Gilliam: {x: 4, y: 3}
regions:
  - nid: door1
    type: event
    sub_nid: Door
    position: {x: 1, y: 2}
    size: [1, 1]
    only_once: true
`

type tableRegistry map[string]types.CommandHandler

func (r tableRegistry) RegisterCommand(id string, handler types.CommandHandler) {
	r[id] = handler
}

// fakeVM records what handlers ask of the interpreter
type fakeVM struct {
	t        *testing.T
	world    *worldpkg.World
	log      *action.Log
	eval     *eval.LuaEvaluator
	rng      *random.Source
	parser   *parser.Parser
	cat      *catalog.Catalog
	handlers tableRegistry
	ctx      types.EventContext

	waits     []time.Duration
	requests  []types.Request
	handoffs  []types.Handoff
	spliced   []*types.Command
	triggered []string
	music     []string
	sounds    []string
	finished  bool
	skipping  bool
	endSkips  int
	suspended bool
}

func newFakeVM(t *testing.T) *fakeVM {
	t.Helper()
	w, err := worldpkg.Parse([]byte(fixture))
	require.NoError(t, err)
	cat := catalog.Standard()
	reg := tableRegistry{}
	RegisterAllCommands(reg)
	rng := random.New(7)
	return &fakeVM{
		t:        t,
		world:    w,
		log:      action.NewLog(w).TrackRandom(rng),
		eval:     eval.NewLuaEvaluator(),
		rng:      rng,
		parser:   parser.New(cat),
		cat:      cat,
		handlers: reg,
	}
}

// exec parses and runs one line through its handler
func (f *fakeVM) exec(line string) error {
	f.t.Helper()
	cmd, err := f.parser.ParseLine(line)
	require.NoError(f.t, err)
	schema, ok := f.cat.Lookup(cmd.ID)
	require.True(f.t, ok)
	handler, ok := f.handlers[schema.ID]
	require.True(f.t, ok, "no handler for %s", schema.ID)
	f.suspended = false
	return handler(f, cmd, parser.Bind(schema, cmd))
}

// mustExec is exec for lines that must succeed
func (f *fakeVM) mustExec(line string) {
	f.t.Helper()
	require.NoError(f.t, f.exec(line))
}

func (f *fakeVM) splicedLines() []string {
	var out []string
	for _, c := range f.spliced {
		out = append(out, parser.Serialize(c))
	}
	return out
}

func (f *fakeVM) kinds() []string {
	var out []string
	for _, r := range f.requests {
		out = append(out, r.Kind)
	}
	return out
}

func (f *fakeVM) Context() types.EventContext { return f.ctx }
func (f *fakeVM) SetItem(uid int)             { f.ctx.ItemUID = uid }
func (f *fakeVM) World() types.World          { return f.world }
func (f *fakeVM) Actions() types.ActionLog    { return f.log }
func (f *fakeVM) Presenter() types.Presenter  { return nil }
func (f *fakeVM) Audio() types.Audio          { return fakeAudio{f} }
func (f *fakeVM) Random() types.Random        { return f.rng }
func (f *fakeVM) Now() time.Duration          { return 0 }

func (f *fakeVM) Evaluate(expr string) (any, error) {
	return f.eval.Evaluate(expr, types.EvalContext{World: f.world, Event: f.ctx})
}

func (f *fakeVM) Substitute(text string) string {
	return eval.Substitute(text, f.eval, types.EvalContext{World: f.world, Event: f.ctx})
}

func (f *fakeVM) Wait(d time.Duration) {
	if f.skipping || f.suspended {
		return
	}
	f.suspended = true
	f.waits = append(f.waits, d)
}

func (f *fakeVM) Present(r types.Request) { f.requests = append(f.requests, r) }

func (f *fakeVM) Pause(h types.Handoff) {
	if f.suspended {
		return
	}
	f.suspended = true
	f.handoffs = append(f.handoffs, h)
}

func (f *fakeVM) Finish()        { f.finished = true }
func (f *fakeVM) EndSkip()       { f.endSkips++ }
func (f *fakeVM) Skipping() bool { return f.skipping }

func (f *fakeVM) Splice(cmds ...*types.Command) error {
	f.spliced = append(f.spliced, cmds...)
	return nil
}

func (f *fakeVM) Trigger(nid string, ctx types.EventContext) error {
	f.triggered = append(f.triggered, nid+"@"+ctx.Unit)
	return nil
}

type fakeAudio struct{ f *fakeVM }

func (a fakeAudio) PlayMusic(nid string, fadeIn time.Duration) {
	a.f.music = append(a.f.music, nid+" "+fadeIn.String())
}

func (a fakeAudio) StopMusic(fadeOut time.Duration) {
	a.f.music = append(a.f.music, "stop "+fadeOut.String())
}

func (a fakeAudio) PlaySound(nid string, volume float64) {
	a.f.sounds = append(a.f.sounds, nid)
}
