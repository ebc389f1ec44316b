package vm

import (
	"fmt"
	"time"

	"eventide/internal/log"
	"eventide/internal/scripting/eval"
	"eventide/internal/scripting/parser"
	"eventide/internal/scripting/types"
)

// skipHidden lists the commands whose effect is dropped while skipping.
// They are still visited and conditionally evaluated.
var skipHidden = map[string]bool{
	"speak":         true,
	"narrate":       true,
	"transition":    true,
	"wait":          true,
	"bop_portrait":  true,
	"sound":         true,
	"location_card": true,
	"credits":       true,
	"ending":        true,
}

// HiddenWhileSkipping returns true if id is suppressed during a skip
func HiddenWhileSkipping(id string) bool {
	return skipHidden[id]
}

// Update advances the Event by at most MaxMicroSteps steps and returns the
// resulting state. now is the host clock.
func (e *Event) Update(now time.Duration) State {
	e.now = now
	for steps := 0; steps < e.env.MaxMicroSteps; steps++ {
		switch e.state {
		case StateWaiting:
			if !e.skip && now < e.wakeAt {
				return e.state
			}
			e.setState(StateProcessing)
		case StateDialog:
			if e.skip {
				e.env.Presenter.Hurry()
			} else if e.env.Presenter.Busy() {
				return e.state
			}
			e.setState(StateProcessing)
		case StatePaused, StateComplete:
			return e.state
		case StateProcessing:
			e.step()
		}
	}
	return e.state
}

// Run steps the Event until it blocks or completes. Tests and tools use it
// in place of a host loop.
func (e *Event) Run(now time.Duration) State {
	for {
		s := e.Update(now)
		if s != StateProcessing {
			return s
		}
	}
}

// step processes the command under the cursor and advances past it
func (e *Event) step() {
	cmd, ok := e.stream.Current()
	if !ok {
		e.setState(StateComplete)
		return
	}
	if e.handleConditional(cmd) && !cmd.IsComment() {
		if e.skip && skipHidden[cmd.ID] {
			log.Debug("skipped command", e.attrs("command", cmd.String())...)
		} else {
			e.dispatch(cmd)
		}
	}
	e.stream.Advance()
}

// handleConditional updates the conditional stacks for flow commands and
// reports whether cmd may be dispatched. It never moves the cursor.
func (e *Event) handleConditional(cmd *types.Command) bool {
	switch cmd.ID {
	case "if":
		if !e.cond.Active() {
			e.cond.Push(false, true)
			return false
		}
		truth := e.condition(cmd.Value(0))
		e.cond.Push(truth, truth)
		return false
	case "elif":
		_, resolved, err := e.cond.Top()
		if err != nil {
			log.Warn("elif without if", e.attrs("command", cmd.String())...)
			return false
		}
		if resolved {
			e.cond.SetTop(false, true)
			return false
		}
		truth := e.condition(cmd.Value(0))
		e.cond.SetTop(truth, truth)
		return false
	case "else":
		_, resolved, err := e.cond.Top()
		if err != nil {
			log.Warn("else without if", e.attrs("command", cmd.String())...)
			return false
		}
		e.cond.SetTop(!resolved, true)
		return false
	case "end":
		if err := e.cond.Pop(); err != nil {
			log.Warn("end without if", e.attrs("command", cmd.String())...)
		}
		return false
	}
	return e.cond.Active()
}

// condition evaluates a branch condition. Failures count as false.
func (e *Event) condition(expr string) bool {
	v, err := e.Evaluate(expr)
	if err != nil {
		log.Warn("condition failed", e.attrs("expression", expr, "error", err)...)
		return false
	}
	return eval.Truthy(v)
}

// dispatch runs the handler for cmd. Handler errors and panics are logged;
// the Event always continues with the next command.
func (e *Event) dispatch(cmd *types.Command) {
	schema, ok := e.env.Catalog.Lookup(cmd.ID)
	if !ok {
		log.Warn("unknown command", e.attrs("command", cmd.String())...)
		return
	}
	handler, ok := e.env.Handlers.Handler(schema.ID)
	if !ok {
		log.Warn("no handler for command", e.attrs("command", cmd.String())...)
		return
	}
	if e.env.Trace != nil {
		e.env.Trace(e, cmd)
	}
	if err := e.execute(handler, cmd, parser.Bind(schema, cmd)); err != nil {
		cmdErr := &types.CommandError{Command: cmd.String(), Pointer: e.stream.Cursor(), Err: err}
		log.Warn("command failed", e.attrs("error", cmdErr)...)
	}
}

func (e *Event) execute(handler types.CommandHandler, cmd *types.Command, args *types.Args) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(e, cmd, args)
}
