// Package config holds the runner configuration, read from the environment
// and overridden by command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the event runner configuration
type Config struct {
	Project    string        `env:"EVENTIDE_PROJECT"     envDefault:"project.yaml"`
	World      string        `env:"EVENTIDE_WORLD"       envDefault:"world.yaml"`
	SaveDB     string        `env:"EVENTIDE_SAVE_DB"`
	Slot       string        `env:"EVENTIDE_SLOT"`
	LogFile    string        `env:"EVENTIDE_LOG_FILE"`
	LogLevel   string        `env:"EVENTIDE_LOG_LEVEL"   envDefault:"info"`
	Trigger    string        `env:"EVENTIDE_TRIGGER"     envDefault:"level_start"`
	Event      string        `env:"EVENTIDE_EVENT"`
	MicroSteps int           `env:"EVENTIDE_MICRO_STEPS" envDefault:"64"`
	Tick       time.Duration `env:"EVENTIDE_TICK"        envDefault:"16ms"`
	MaxTicks   int           `env:"EVENTIDE_MAX_TICKS"   envDefault:"100000"`
	Seed       int64         `env:"EVENTIDE_SEED"`
	Skip       bool          `env:"EVENTIDE_SKIP"`
	Realtime   bool          `env:"EVENTIDE_REALTIME"`
	Choices    []string      `env:"EVENTIDE_CHOICES"     envSeparator:","`
}

// ParseConfig parses the environment, then flags, into a Config
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Project, "project", cfg.Project, "path to the event project yaml")
	fs.StringVar(&cfg.World, "world", cfg.World, "path to the world fixture yaml")
	fs.StringVar(&cfg.SaveDB, "save-db", cfg.SaveDB, "sqlite save database (empty disables saving)")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "save slot to resume from and save into")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file instead of stderr")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Trigger, "trigger", cfg.Trigger, "trigger fired at start")
	fs.StringVar(&cfg.Event, "event", cfg.Event, "run this event instead of firing a trigger")
	fs.IntVar(&cfg.MicroSteps, "micro-steps", cfg.MicroSteps, "commands processed per tick")
	fs.DurationVar(&cfg.Tick, "tick", cfg.Tick, "simulated time per tick")
	fs.IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "stop after this many ticks")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one)")
	fs.BoolVar(&cfg.Skip, "skip", cfg.Skip, "skip through every event")
	fs.BoolVar(&cfg.Realtime, "realtime", cfg.Realtime, "sleep for each tick")
	fs.Func("choice", "answer for the next choice (repeatable)", func(v string) error {
		cfg.Choices = append(cfg.Choices, v)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values flags cannot express
func (c Config) Validate() error {
	if c.Project == "" {
		return errors.New("project path is required")
	}
	if c.World == "" {
		return errors.New("world path is required")
	}
	if c.MicroSteps <= 0 {
		return fmt.Errorf("micro-steps must be positive, got %d", c.MicroSteps)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("max-ticks must be positive, got %d", c.MaxTicks)
	}
	if c.Slot != "" && c.SaveDB == "" {
		return errors.New("slot needs a save database")
	}
	return nil
}
