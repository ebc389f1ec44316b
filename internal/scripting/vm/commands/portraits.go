package commands

import (
	"strconv"

	"eventide/internal/scripting/types"
)

// RegisterPortraitCommands registers the dialogue portrait commands
func RegisterPortraitCommands(vm CommandRegistry) {
	vm.RegisterCommand("add_portrait", cmdAddPortrait)
	vm.RegisterCommand("multi_add_portrait", cmdMultiAddPortrait)
	vm.RegisterCommand("remove_portrait", cmdRemovePortrait)
	vm.RegisterCommand("multi_remove_portrait", cmdMultiRemovePortrait)
	vm.RegisterCommand("remove_all_portraits", cmdRemoveAllPortraits)
	vm.RegisterCommand("move_portrait", cmdMovePortrait)
	vm.RegisterCommand("bop_portrait", cmdBopPortrait)
	vm.RegisterCommand("expression", cmdExpression)
	vm.RegisterCommand("mirror_portrait", cmdMirrorPortrait)
}

// portraitName maps {unit} and {unit2} to the unit's portrait
func portraitName(vm types.VMInterface, ref string) (string, error) {
	if ref != types.RefUnit && ref != types.RefUnit2 {
		return ref, nil
	}
	u, err := resolveUnit(vm, ref)
	if err != nil {
		return "", err
	}
	if u.Portrait != "" {
		return u.Portrait, nil
	}
	return u.NID, nil
}

func blocking(args *types.Args) bool {
	return !args.Flag("immediate") && !args.Flag("no_block")
}

func cmdAddPortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind: types.PresentPortrait,
		Args: argMap(
			"portrait", name,
			"position", args.Get("ScreenPosition"),
			"slide", args.Get("Slide"),
			"expressions", args.Get("ExpressionList"),
		),
		Flags:    flagList(args),
		Blocking: blocking(args),
	})
	return nil
}

// cmdMultiAddPortrait expands into one add_portrait per pair. Only the last
// one blocks.
func cmdMultiAddPortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	var cmds []*types.Command
	for i := 1; i <= 4; i++ {
		suffix := ""
		if i > 1 {
			suffix = strconv.Itoa(i)
		}
		portrait, pos := args.Get("Portrait"+suffix), args.Get("ScreenPosition"+suffix)
		if portrait == "" || pos == "" {
			continue
		}
		cmds = append(cmds, synth("add_portrait", portrait, pos))
	}
	for _, c := range cmds[:max(len(cmds)-1, 0)] {
		c.Values = append(c.Values, "no_block")
	}
	return vm.Splice(cmds...)
}

func cmdRemovePortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind:     types.PresentRemovePortrait,
		Args:     argMap("portrait", name, "speed", args.Get("Speed")),
		Flags:    flagList(args),
		Blocking: blocking(args),
	})
	return nil
}

func cmdMultiRemovePortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	var cmds []*types.Command
	for _, kw := range []string{"Portrait", "Portrait2", "Portrait3", "Portrait4"} {
		if p := args.Get(kw); p != "" {
			cmds = append(cmds, synth("remove_portrait", p))
		}
	}
	for _, c := range cmds[:max(len(cmds)-1, 0)] {
		c.Values = append(c.Values, "no_block")
	}
	return vm.Splice(cmds...)
}

func cmdRemoveAllPortraits(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{Kind: types.PresentClearPortraits})
	return nil
}

func cmdMovePortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind:     types.PresentMovePortrait,
		Args:     argMap("portrait", name, "position", args.Get("ScreenPosition"), "speed", args.Get("Speed")),
		Flags:    flagList(args),
		Blocking: blocking(args),
	})
	return nil
}

func cmdBopPortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	bops := intOr(args.Get("NumBops"), 2)
	vm.Present(types.Request{
		Kind: types.PresentBop,
		Args: argMap("portrait", name, "bops", strconv.Itoa(bops)),
	})
	return nil
}

func cmdExpression(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind: types.PresentExpression,
		Args: argMap("portrait", name, "expressions", args.Get("ExpressionList")),
	})
	return nil
}

func cmdMirrorPortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	name, err := portraitName(vm, args.Get("Portrait"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind:     types.PresentMirror,
		Args:     argMap("portrait", name, "speed", args.Get("Speed")),
		Blocking: true,
	})
	return nil
}
