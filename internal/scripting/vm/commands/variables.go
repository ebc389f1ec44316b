package commands

import (
	"fmt"
	"strconv"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
)

// Level variables the host checks after an event completes
const (
	LevelVarWin  = "_win_game"
	LevelVarLose = "_lose_game"
)

// RegisterVariableCommands registers variable, money and chapter state commands
func RegisterVariableCommands(vm CommandRegistry) {
	vm.RegisterCommand("game_var", cmdGameVar)
	vm.RegisterCommand("inc_game_var", cmdIncGameVar)
	vm.RegisterCommand("level_var", cmdLevelVar)
	vm.RegisterCommand("inc_level_var", cmdIncLevelVar)
	vm.RegisterCommand("give_money", cmdGiveMoney)
	vm.RegisterCommand("win_game", cmdWinGame)
	vm.RegisterCommand("lose_game", cmdLoseGame)
	vm.RegisterCommand("set_next_chapter", cmdSetNextChapter)
}

func cmdGameVar(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	v, err := vm.Evaluate(args.Get("Expression"))
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.SetGameVar{Name: args.Get("Nid"), Value: v})
	return nil
}

func cmdLevelVar(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	v, err := vm.Evaluate(args.Get("Expression"))
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.SetLevelVar{Name: args.Get("Nid"), Value: v})
	return nil
}

func cmdIncGameVar(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	name := args.Get("Nid")
	old, _ := w.GameVar(name)
	next, err := increment(vm, old, args.Get("Expression"))
	if err != nil {
		return fmt.Errorf("game var %q: %w", name, err)
	}
	vm.Actions().Do(&action.SetGameVar{Name: name, Value: next})
	return nil
}

func cmdIncLevelVar(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	name := args.Get("Nid")
	old, _ := w.LevelVar(name)
	next, err := increment(vm, old, args.Get("Expression"))
	if err != nil {
		return fmt.Errorf("level var %q: %w", name, err)
	}
	vm.Actions().Do(&action.SetLevelVar{Name: name, Value: next})
	return nil
}

// increment adds the value of expr (1 when empty) to old. A missing variable counts as 0.
func increment(vm types.VMInterface, old any, expr string) (any, error) {
	var delta any = 1
	if expr != "" {
		v, err := vm.Evaluate(expr)
		if err != nil {
			return nil, err
		}
		delta = v
	}
	if old == nil {
		old = 0
	}
	a, aInt, ok := number(old)
	if !ok {
		return nil, fmt.Errorf("current value %v is not a number", old)
	}
	b, bInt, ok := number(delta)
	if !ok {
		return nil, fmt.Errorf("increment %v is not a number", delta)
	}
	if aInt && bInt {
		return int(a) + int(b), nil
	}
	return a + b, nil
}

func number(v any) (float64, bool, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true, true
	case int64:
		return float64(x), true, true
	case float64:
		return x, x == float64(int(x)), true
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return float64(n), true, true
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f, false, true
		}
	}
	return 0, false, false
}

func cmdGiveMoney(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	amount, err := mustInt("Integer", args.Get("Integer"))
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.GainMoney{Party: args.Get("Party"), Amount: amount})
	if !args.Flag("no_banner") {
		text := fmt.Sprintf("Got %d gold", amount)
		if amount < 0 {
			text = fmt.Sprintf("Lost %d gold", -amount)
		}
		vm.Present(types.Request{Kind: types.PresentAlert, Args: argMap("text", text), Blocking: true})
	}
	return nil
}

func cmdWinGame(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	vm.Actions().Do(&action.SetLevelVar{Name: LevelVarWin, Value: true})
	return nil
}

func cmdLoseGame(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	vm.Actions().Do(&action.SetLevelVar{Name: LevelVarLose, Value: true})
	return nil
}

func cmdSetNextChapter(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	vm.Actions().Do(&action.SetSetting{Key: types.SettingNextChapter, Value: args.Get("Chapter")})
	return nil
}
