package commands

import (
	"time"

	"eventide/internal/scripting/types"
)

// RegisterFlowCommands registers flow control commands. if, elif, else and
// end are resolved by the interpreter before dispatch; their handlers only
// exist so every schema has an entry.
func RegisterFlowCommands(vm CommandRegistry) {
	vm.RegisterCommand(types.CommentID, noop)
	vm.RegisterCommand("if", noop)
	vm.RegisterCommand("elif", noop)
	vm.RegisterCommand("else", noop)
	vm.RegisterCommand("end", noop)
	vm.RegisterCommand("break", cmdBreak)
	vm.RegisterCommand("wait", cmdWait)
	vm.RegisterCommand("end_skip", cmdEndSkip)
	vm.RegisterCommand("trigger_script", cmdTriggerScript)
}

func cmdBreak(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Finish()
	return nil
}

func cmdWait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	ms, err := mustInt("Time", args.Get("Time"))
	if err != nil {
		return err
	}
	vm.Wait(time.Duration(ms) * time.Millisecond)
	return nil
}

func cmdEndSkip(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.EndSkip()
	return nil
}

// cmdTriggerScript queues another prefab. Units default to the current
// Event's context.
func cmdTriggerScript(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	ctx := vm.Context()
	next := types.EventContext{Unit: ctx.Unit, Unit2: ctx.Unit2, Position: ctx.Position, Region: ctx.Region}
	if ref := args.Get("Unit"); ref != "" {
		u, err := resolveUnit(vm, ref)
		if err != nil {
			return err
		}
		next.Unit = u.NID
	}
	if ref := args.Get("Unit2"); ref != "" {
		u, err := resolveUnit(vm, ref)
		if err != nil {
			return err
		}
		next.Unit2 = u.NID
	}
	return vm.Trigger(args.Get("Event"), next)
}
