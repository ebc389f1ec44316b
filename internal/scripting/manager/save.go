package manager

import (
	"fmt"
	"sort"

	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/vm"
)

// SaveState is everything the manager needs to continue after a load
type SaveState struct {
	Events    []vm.Snapshot `json:"events"`
	Triggered []string      `json:"triggered"`
	Random    *random.State `json:"random,omitempty"`
}

// Save captures the queue, the triggered set and the random source
func (m *Manager) Save() SaveState {
	st := SaveState{
		Events:    make([]vm.Snapshot, 0, len(m.queue)),
		Triggered: make([]string, 0, len(m.triggered)),
	}
	for _, e := range m.queue {
		st.Events = append(st.Events, e.Snapshot())
	}
	for nid := range m.triggered {
		st.Triggered = append(st.Triggered, nid)
	}
	sort.Strings(st.Triggered)
	if m.rng != nil {
		rs := m.rng.State()
		st.Random = &rs
	}
	return st
}

// Load replaces the queue with a saved one. A head Event that was paused
// asks the host for its state again.
func (m *Manager) Load(st SaveState) error {
	if st.Random != nil {
		if m.rng != nil {
			m.rng.Reset(*st.Random)
		} else {
			m.rng = random.Restore(*st.Random)
			m.env.Random = m.rng
		}
	}
	queue := make([]*vm.Event, 0, len(st.Events))
	for _, snap := range st.Events {
		if _, ok := m.prefabs[snap.Prefab]; !ok {
			log.Warn("saved event has no prefab", "event", snap.ID, "prefab", snap.Prefab)
		}
		e, err := vm.Restore(m.env, snap)
		if err != nil {
			return fmt.Errorf("load event queue: %w", err)
		}
		queue = append(queue, e)
	}
	m.queue = queue
	m.triggered = make(map[string]bool, len(st.Triggered))
	for _, nid := range st.Triggered {
		m.triggered[nid] = true
	}

	if head := m.Active(); head != nil && head.State() == vm.StatePaused {
		m.env.Host.PushState(*head.Handoff())
	}
	log.Info("event queue loaded", "events", len(m.queue), "triggered", len(m.triggered))
	return nil
}
