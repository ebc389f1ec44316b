package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"eventide/internal/random"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/eval"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/vm/commands"
	"eventide/internal/world"
)

const testWorld = `
map:
  width: 10
  height: 10
  blocked:
    - {x: 5, y: 5}
items:
  - {nid: chest_key, name: Chest Key, uses: 1, unlock: true}
  - {nid: vulnerary, name: Vulnerary, uses: 3}
units:
  - nid: Eirika
    name: Eirika
    team: player
    party: eirika
    position: {x: 1, y: 1}
    hp: 16
    items:
      - {uid: 1, nid: chest_key, name: Chest Key, uses: 1, unlock: true}
  - nid: Seth
    name: Seth
    team: player
    party: eirika
    position: {x: 2, y: 1}
    hp: 30
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

// recorder is a presenter that keeps every request. While hold is set it
// reports busy, keeping blocking requests on screen.
type recorder struct {
	requests []types.Request
	hold     bool
	hurried  int
}

func (r *recorder) Present(req types.Request) { r.requests = append(r.requests, req) }
func (r *recorder) Busy() bool                { return r.hold }
func (r *recorder) Hurry()                    { r.hurried++ }

// spoken returns "speaker:text" for every speak request
func (r *recorder) spoken() []string {
	var out []string
	for _, req := range r.requests {
		if req.Kind == types.PresentSpeak {
			out = append(out, req.Args["speaker"]+":"+req.Args["text"])
		}
	}
	return out
}

func (r *recorder) kinds() []string {
	var out []string
	for _, req := range r.requests {
		out = append(out, req.Kind)
	}
	return out
}

type hostRecorder struct {
	pushed []types.Handoff
}

func (h *hostRecorder) PushState(hd types.Handoff) { h.pushed = append(h.pushed, hd) }

type harness struct {
	env   *Env
	world *world.World
	pres  *recorder
	host  *hostRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	w, err := world.Parse([]byte(testWorld))
	require.NoError(t, err)
	return harnessFor(w, random.New(1))
}

func harnessFor(w *world.World, rng types.Random) *harness {
	reg := NewRegistry()
	commands.RegisterAllCommands(reg)
	h := &harness{world: w, pres: &recorder{}, host: &hostRecorder{}}
	h.env = (&Env{
		Handlers:  reg,
		World:     w,
		Actions:   action.NewLog(w),
		Evaluator: eval.NewLuaEvaluator(),
		Presenter: h.pres,
		Host:      h.host,
		Random:    rng,
	}).WithDefaults()
	return h
}

// compile parses script lines joined by newlines and fails on any bad line
func (h *harness) compile(t *testing.T, lines ...string) []*types.Command {
	t.Helper()
	cmds, errs := h.env.Parser.ParseScript(strings.Join(lines, "\n"))
	require.Empty(t, errs)
	return cmds
}

func (h *harness) event(t *testing.T, ctx types.EventContext, lines ...string) *Event {
	t.Helper()
	return NewEvent(h.env, "test", "manual", h.compile(t, lines...), ctx)
}

func ids(cmds []*types.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.ID
	}
	return out
}
