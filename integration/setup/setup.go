//go:build integration

package setup

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"eventide/internal/console"
	"eventide/internal/database"
	"eventide/internal/random"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/manager"
	"eventide/internal/scripting/vm"
	"eventide/internal/world"
)

// IntegrationTestSetup wires the real components: a sqlite save store, the
// world, the action log, the event manager and a console host
type IntegrationTestSetup struct {
	Store   *database.Store
	World   *world.World
	Actions *action.Log
	Manager *manager.Manager
	Console *console.Console
	Output  *bytes.Buffer

	project *manager.Project
	t       *testing.T
}

// SetupRealComponents builds the components over a project and a world
// fixture, both given as YAML
func SetupRealComponents(t *testing.T, projectYAML, worldYAML string) *IntegrationTestSetup {
	t.Helper()
	project, err := manager.ParseProject([]byte(projectYAML))
	require.NoError(t, err)
	w, err := world.Parse([]byte(worldYAML))
	require.NoError(t, err)

	store, err := database.Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)

	s := build(t, project, w, random.New(11))
	s.Store = store
	t.Cleanup(func() { s.Cleanup() })
	return s
}

func build(t *testing.T, project *manager.Project, w *world.World, rng *random.Source) *IntegrationTestSetup {
	t.Helper()
	out := &bytes.Buffer{}
	con := console.New(out)
	actions := action.NewLog(w).TrackRandom(rng)
	m, err := manager.New(vm.Env{
		World:     w,
		Actions:   actions,
		Presenter: con,
		Audio:     con,
		Host:      con,
		Random:    rng,
	}, project.Events)
	require.NoError(t, err)
	return &IntegrationTestSetup{
		World:   w,
		Actions: actions,
		Manager: m,
		Console: con,
		Output:  out,
		project: project,
		t:       t,
	}
}

// Cleanup closes the save store
func (s *IntegrationTestSetup) Cleanup() {
	if s.Store != nil {
		s.Store.Close()
	}
}

// SaveSlot writes the world and the event queue into slot
func (s *IntegrationTestSetup) SaveSlot(slot string) {
	s.t.Helper()
	data, err := s.World.Marshal()
	require.NoError(s.t, err)
	require.NoError(s.t, s.Store.SaveSlot(context.Background(), &database.Slot{
		Name:  slot,
		World: data,
		State: s.Manager.Save(),
	}))
}

// LoadSlot builds fresh components from slot, sharing the save store
func (s *IntegrationTestSetup) LoadSlot(slot string) *IntegrationTestSetup {
	s.t.Helper()
	saved, err := s.Store.LoadSlot(context.Background(), slot)
	require.NoError(s.t, err)
	w, err := world.Parse(saved.World)
	require.NoError(s.t, err)

	loaded := build(s.t, s.project, w, random.New(0))
	loaded.Store = s.Store
	require.NoError(s.t, loaded.Manager.Load(saved.State))
	return loaded
}

// Lines returns the console output so far, one entry per line
func (s *IntegrationTestSetup) Lines() []string {
	text := strings.TrimSuffix(s.Output.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
