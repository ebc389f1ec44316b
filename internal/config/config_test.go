package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return ParseConfig(fs, args)
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "project.yaml", cfg.Project)
	assert.Equal(t, "world.yaml", cfg.World)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "level_start", cfg.Trigger)
	assert.Equal(t, 64, cfg.MicroSteps)
	assert.Equal(t, 16*time.Millisecond, cfg.Tick)
	assert.Equal(t, 100000, cfg.MaxTicks)
	assert.Empty(t, cfg.SaveDB)
	assert.Empty(t, cfg.Choices)
	assert.False(t, cfg.Skip)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("EVENTIDE_PROJECT", "chapter1.yaml")
	t.Setenv("EVENTIDE_MICRO_STEPS", "8")
	t.Setenv("EVENTIDE_TICK", "50ms")
	t.Setenv("EVENTIDE_SEED", "99")
	t.Setenv("EVENTIDE_SKIP", "true")
	t.Setenv("EVENTIDE_CHOICES", "Left,Right")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "chapter1.yaml", cfg.Project)
	assert.Equal(t, 8, cfg.MicroSteps)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.True(t, cfg.Skip)
	assert.Equal(t, []string{"Left", "Right"}, cfg.Choices)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("EVENTIDE_TRIGGER", "turn_change")
	t.Setenv("EVENTIDE_CHOICES", "Left")

	cfg, err := parse(t,
		"-trigger", "combat_end",
		"-event", "intro",
		"-save-db", "saves.db",
		"-slot", "quick",
		"-choice", "Yes",
		"-choice", "No",
		"-realtime",
	)
	require.NoError(t, err)
	assert.Equal(t, "combat_end", cfg.Trigger)
	assert.Equal(t, "intro", cfg.Event)
	assert.Equal(t, "saves.db", cfg.SaveDB)
	assert.Equal(t, "quick", cfg.Slot)
	assert.Equal(t, []string{"Left", "Yes", "No"}, cfg.Choices, "flags append to the environment answers")
	assert.True(t, cfg.Realtime)
}

func TestParseConfigErrors(t *testing.T) {
	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("EVENTIDE_MAX_TICKS", "lots")
		_, err := parse(t)
		assert.Error(t, err)
	})
	t.Run("unknown flag", func(t *testing.T) {
		_, err := parse(t, "-turbo")
		assert.Error(t, err)
	})
	t.Run("invalid value", func(t *testing.T) {
		_, err := parse(t, "-micro-steps", "0")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{Project: "p.yaml", World: "w.yaml", MicroSteps: 1, Tick: time.Millisecond, MaxTicks: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no project", func(c *Config) { c.Project = "" }},
		{"no world", func(c *Config) { c.World = "" }},
		{"no micro steps", func(c *Config) { c.MicroSteps = 0 }},
		{"negative tick", func(c *Config) { c.Tick = -time.Second }},
		{"no ticks", func(c *Config) { c.MaxTicks = 0 }},
		{"slot without database", func(c *Config) { c.Slot = "quick" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
