package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eventide/internal/config"
	"eventide/internal/database"
	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/manager"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/vm"
	"eventide/internal/scripting/vm/commands"
	"eventide/internal/world"
)

// Result summarizes a run
type Result struct {
	Ticks    int
	Elapsed  time.Duration
	Finished bool // every queued event completed
	Actions  int
}

// Run loads the project and world, starts the configured trigger or event
// and ticks the event queue until it drains, ctx ends or MaxTicks is reached.
// With a slot configured the run resumes from it and saves back into it.
func Run(ctx context.Context, cfg config.Config, out io.Writer, errOut io.Writer) (Result, error) {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.LogFile != "" {
		if err := log.SetFileOutput(cfg.LogFile); err != nil {
			return Result{}, fmt.Errorf("open log file: %w", err)
		}
		defer log.Close()
	} else {
		log.SetOutput(errOut)
	}
	log.SetLevel(cfg.LogLevel)

	project, err := manager.LoadProject(cfg.Project)
	if err != nil {
		return Result{}, err
	}

	var store *database.Store
	if cfg.SaveDB != "" {
		if store, err = database.Open(cfg.SaveDB); err != nil {
			return Result{}, err
		}
		defer store.Close()
	}

	var slot *database.Slot
	if store != nil && cfg.Slot != "" {
		slot, err = store.LoadSlot(ctx, cfg.Slot)
		if err != nil && !errors.Is(err, database.ErrSlotNotFound) {
			return Result{}, err
		}
	}

	var w *world.World
	if slot != nil {
		w, err = world.Parse(slot.World)
	} else {
		w, err = world.Load(cfg.World)
	}
	if err != nil {
		return Result{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return Result{}, err
		}
	}
	log.Info("starting run", "project", cfg.Project, "seed", seed, "slot", cfg.Slot)

	con := New(out)
	rng := random.New(seed)
	actions := action.NewLog(w).TrackRandom(rng)
	m, err := manager.New(vm.Env{
		World:         w,
		Actions:       actions,
		Presenter:     con,
		Audio:         con,
		Host:          con,
		Random:        rng,
		MaxMicroSteps: cfg.MicroSteps,
	}, project.Events)
	if err != nil {
		return Result{}, err
	}

	switch {
	case slot != nil:
		if err := m.Load(slot.State); err != nil {
			return Result{}, err
		}
	case cfg.Event != "":
		if err := m.TriggerSpecific(cfg.Event, types.EventContext{}); err != nil {
			return Result{}, err
		}
	default:
		if n := m.Trigger(cfg.Trigger, types.EventContext{}); n == 0 {
			log.Warn("no event answered the trigger", "trigger", cfg.Trigger)
		}
	}

	r := runner{cfg: cfg, con: con, m: m, actions: actions}
	res := r.loop(ctx)
	res.Actions = actions.Len()

	if store != nil && cfg.Slot != "" {
		data, err := w.Marshal()
		if err != nil {
			return res, fmt.Errorf("encode world: %w", err)
		}
		if err := store.SaveSlot(context.WithoutCancel(ctx), &database.Slot{Name: cfg.Slot, World: data, State: m.Save()}); err != nil {
			return res, err
		}
	}
	log.Info("run finished", "ticks", res.Ticks, "finished", res.Finished, "actions", res.Actions)
	return res, nil
}

type runner struct {
	cfg     config.Config
	con     *Console
	m       *manager.Manager
	actions *action.Log
	choices int
}

func (r *runner) loop(ctx context.Context) Result {
	var res Result
	var now time.Duration
	var skipped *vm.Event
	for res.Ticks < r.cfg.MaxTicks {
		if err := ctx.Err(); err != nil {
			log.Info("run interrupted", "error", err)
			break
		}
		if h, ok := r.con.PopPending(); ok {
			r.resolve(h)
			r.m.StatePopped(h.State)
		}
		head := r.m.Active()
		if head == nil {
			res.Finished = true
			break
		}
		if r.cfg.Skip && head != skipped {
			head.Skip(true)
			skipped = head
		}
		r.m.Update(now)
		res.Ticks++
		now += r.cfg.Tick
		if r.cfg.Realtime {
			time.Sleep(r.cfg.Tick)
		}
	}
	res.Elapsed = now
	if !r.m.Busy() {
		res.Finished = true
	}
	return res
}

// resolve plays the part of the host state. Choices take the next
// configured answer or the first option; text entry takes the next answer.
func (r *runner) resolve(h types.Handoff) {
	switch h.State {
	case commands.StateChoice:
		options := strings.Split(h.Args["choices"], ",")
		pick := strings.TrimSpace(options[0])
		if answer, ok := r.nextAnswer(); ok {
			pick = answer
		}
		r.con.printf("%s", r.con.style(ansiBold, "> "+pick))
		r.actions.Do(&action.SetGameVar{Name: h.Args["nid"], Value: pick})
	case commands.StateTextEntry:
		answer, _ := r.nextAnswer()
		r.actions.Do(&action.SetGameVar{Name: h.Args["nid"], Value: answer})
	}
}

func (r *runner) nextAnswer() (string, bool) {
	if r.choices >= len(r.cfg.Choices) {
		return "", false
	}
	a := r.cfg.Choices[r.choices]
	r.choices++
	return a, true
}
