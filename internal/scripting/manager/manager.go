// Package manager owns the event queue: it turns triggers into running
// Events, advances the head Event once per host tick and saves or restores
// the whole queue.
package manager

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/eval"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/vm"
	"eventide/internal/scripting/vm/commands"
)

var (
	ErrUnknownPrefab = errors.New("unknown event")
	ErrDuplicate     = errors.New("duplicate event")
)

// Manager queues Events and advances them one at a time. It implements
// types.Scheduler for trigger_script.
type Manager struct {
	env *vm.Env
	rng *random.Source

	prefabs  map[string]*Prefab
	order    []string
	compiled map[string][]*types.Command

	queue     []*vm.Event
	triggered map[string]bool
}

var _ types.Scheduler = (*Manager)(nil)

// New creates a manager over prefabs. Collaborators missing from env are
// filled: the full command table, a Lua evaluator, a seeded random source and
// the manager itself as scheduler.
func New(env vm.Env, prefabs []*Prefab) (*Manager, error) {
	m := &Manager{
		prefabs:   make(map[string]*Prefab, len(prefabs)),
		compiled:  make(map[string][]*types.Command, len(prefabs)),
		triggered: make(map[string]bool),
	}
	if env.Handlers == nil {
		reg := vm.NewRegistry()
		commands.RegisterAllCommands(reg)
		env.Handlers = reg
	}
	if env.Evaluator == nil {
		env.Evaluator = eval.NewLuaEvaluator()
	}
	if env.Random == nil {
		env.Random = random.New(0)
	}
	m.rng, _ = env.Random.(*random.Source)
	if env.Scheduler == nil {
		env.Scheduler = m
	}
	m.env = env.WithDefaults()

	for _, p := range prefabs {
		if _, dup := m.prefabs[p.NID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, p.NID)
		}
		cmds, errs := m.env.Parser.ParseScript(p.Script)
		if len(errs) > 0 {
			log.Warn("event script has unreadable lines", "prefab", p.NID, "dropped", len(errs))
		}
		m.prefabs[p.NID] = p
		m.order = append(m.order, p.NID)
		m.compiled[p.NID] = cmds
	}
	return m, nil
}

// Env returns the environment every Event runs in
func (m *Manager) Env() *vm.Env {
	return m.env
}

// Prefab returns the prefab registered as nid
func (m *Manager) Prefab(nid string) (*Prefab, bool) {
	p, ok := m.prefabs[nid]
	return p, ok
}

// Trigger starts every prefab listening on trigger whose condition holds,
// highest priority first. It returns the number of Events queued.
func (m *Manager) Trigger(trigger string, ctx types.EventContext) int {
	var matched []*Prefab
	for _, nid := range m.order {
		p := m.prefabs[nid]
		if p.Trigger != trigger || (p.OnlyOnce && m.triggered[nid]) {
			continue
		}
		if !m.passes(p, ctx) {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	for _, p := range matched {
		m.start(p, ctx)
	}
	return len(matched)
}

// TriggerSpecific queues prefab nid regardless of its trigger and condition.
// An only-once prefab that already ran is skipped.
func (m *Manager) TriggerSpecific(nid string, ctx types.EventContext) error {
	p, ok := m.prefabs[nid]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrefab, nid)
	}
	if p.OnlyOnce && m.triggered[nid] {
		log.Debug("only-once event already triggered", "prefab", nid)
		return nil
	}
	m.start(p, ctx)
	return nil
}

func (m *Manager) passes(p *Prefab, ctx types.EventContext) bool {
	if p.Condition == "" {
		return true
	}
	v, err := m.env.Evaluator.Evaluate(p.Condition, types.EvalContext{World: m.env.World, Event: ctx})
	if err != nil {
		log.Warn("event condition failed", "prefab", p.NID, "condition", p.Condition, "error", err)
		return false
	}
	return eval.Truthy(v)
}

func (m *Manager) start(p *Prefab, ctx types.EventContext) {
	e := vm.NewEvent(m.env, p.NID, p.Trigger, m.compiled[p.NID], ctx)
	if p.OnlyOnce {
		m.triggered[p.NID] = true
	}
	m.queue = append(m.queue, e)
	log.Info("event queued", "event", e.ID(), "prefab", p.NID, "trigger", p.Trigger, "queued", len(m.queue))
}

// Active returns the Event at the head of the queue, if any
func (m *Manager) Active() *vm.Event {
	if len(m.queue) == 0 {
		return nil
	}
	return m.queue[0]
}

// Queue returns the queued Events, head first
func (m *Manager) Queue() []*vm.Event {
	return append([]*vm.Event(nil), m.queue...)
}

// Busy returns true while any Event is queued
func (m *Manager) Busy() bool {
	return len(m.queue) > 0
}

// Triggered returns true if the only-once prefab nid has already run
func (m *Manager) Triggered(nid string) bool {
	return m.triggered[nid]
}

// Update advances the head Event and drops it once complete. It returns the
// head's state, or complete when the queue is empty.
func (m *Manager) Update(now time.Duration) vm.State {
	e := m.Active()
	if e == nil {
		return vm.StateComplete
	}
	state := e.Update(now)
	if state == vm.StateComplete {
		m.queue = m.queue[1:]
		log.Info("event finished", "event", e.ID(), "prefab", e.Prefab(), "remaining", len(m.queue))
	}
	return state
}

// StatePopped resumes the head Event if it was paused on state
func (m *Manager) StatePopped(state string) bool {
	e := m.Active()
	if e == nil {
		return false
	}
	return e.Resume(state)
}

// Skip fast-forwards the head Event
func (m *Manager) Skip(super bool) {
	if e := m.Active(); e != nil {
		e.Skip(super)
	}
}
