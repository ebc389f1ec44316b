package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/config"
	"eventide/internal/database"
	"eventide/internal/scripting/manager"
	"eventide/internal/world"
)

const runnerWorld = `
map:
  width: 6
  height: 6
units:
  - nid: Eirika
    name: Eirika
    team: player
    position: {x: 1, y: 1}
    hp: 16
`

const runnerProject = `
events:
  - nid: intro
    trigger: level_start
    script: |
      choice;pick;Which way?;Left,Right
      game_var;met;1
      speak;Eirika;one
      wait;1000
      speak;Eirika;two
  - nid: side
    trigger: never
    script: |
      speak;Eirika;side
`

func writeFiles(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	project := filepath.Join(dir, "project.yaml")
	worldFile := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(project, []byte(runnerProject), 0o644))
	require.NoError(t, os.WriteFile(worldFile, []byte(runnerWorld), 0o644))
	return config.Config{
		Project:    project,
		World:      worldFile,
		LogLevel:   "error",
		Trigger:    "level_start",
		MicroSteps: 64,
		Tick:       16 * time.Millisecond,
		MaxTicks:   1000,
		Seed:       5,
	}
}

func TestRunToCompletion(t *testing.T) {
	cfg := writeFiles(t)
	cfg.Choices = []string{"Right"}

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Greater(t, res.Ticks, 60, "the one second wait spans many ticks")
	assert.Equal(t, time.Duration(res.Ticks)*cfg.Tick, res.Elapsed)
	assert.Equal(t, 2, res.Actions, "the pick and the game variable")

	text := out.String()
	assert.Contains(t, text, "=> choice")
	assert.Contains(t, text, "> Right\n")
	assert.Contains(t, text, "Eirika: one\n")
	assert.Contains(t, text, "Eirika: two\n")
	assert.NotContains(t, text, "side")
}

func TestRunPicksFirstChoiceByDefault(t *testing.T) {
	cfg := writeFiles(t)
	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "> Left\n")
}

func TestRunSkip(t *testing.T) {
	cfg := writeFiles(t)
	cfg.Skip = true

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Less(t, res.Ticks, 10)
	assert.NotContains(t, out.String(), "Eirika:")
}

func TestRunSpecificEvent(t *testing.T) {
	cfg := writeFiles(t)
	cfg.Event = "side"

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Equal(t, "Eirika: side\n", out.String())

	cfg.Event = "missing"
	_, err = Run(context.Background(), cfg, &out, nil)
	assert.ErrorIs(t, err, manager.ErrUnknownPrefab)
}

func TestRunUnansweredTrigger(t *testing.T) {
	cfg := writeFiles(t)
	cfg.Trigger = "nothing"
	res, err := Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Zero(t, res.Ticks)
}

func TestRunMissingProject(t *testing.T) {
	cfg := writeFiles(t)
	cfg.Project = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Run(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	cfg := writeFiles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Finished)
	assert.Zero(t, res.Ticks)
}

func TestRunSavesAndResumes(t *testing.T) {
	cfg := writeFiles(t)
	cfg.SaveDB = filepath.Join(t.TempDir(), "saves.db")
	cfg.Slot = "quick"
	cfg.Choices = []string{"Right"}
	cfg.MaxTicks = 6

	var first bytes.Buffer
	res, err := Run(context.Background(), cfg, &first, nil)
	require.NoError(t, err)
	assert.False(t, res.Finished, "stopped inside the wait")
	assert.Contains(t, first.String(), "Eirika: one\n")
	assert.NotContains(t, first.String(), "Eirika: two")

	store, err := database.Open(cfg.SaveDB)
	require.NoError(t, err)
	slot, err := store.LoadSlot(context.Background(), "quick")
	require.NoError(t, err)
	require.Len(t, slot.State.Events, 1)
	assert.Equal(t, "waiting", slot.State.Events[0].State)
	w, err := world.Parse(slot.World)
	require.NoError(t, err)
	pick, _ := w.GameVar("pick")
	assert.Equal(t, "Right", pick)
	require.NoError(t, store.Close())

	cfg.MaxTicks = 1000
	var second bytes.Buffer
	res, err = Run(context.Background(), cfg, &second, nil)
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Equal(t, "Eirika: two\n", second.String())

	store, err = database.Open(cfg.SaveDB)
	require.NoError(t, err)
	defer store.Close()
	slot, err = store.LoadSlot(context.Background(), "quick")
	require.NoError(t, err)
	assert.Empty(t, slot.State.Events)
}
