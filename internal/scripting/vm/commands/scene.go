package commands

import (
	"strconv"

	"eventide/internal/scripting/types"
	"eventide/internal/scripting/validate"
)

// RegisterSceneCommands registers background, screen effect and cursor commands
func RegisterSceneCommands(vm CommandRegistry) {
	vm.RegisterCommand("transition", cmdTransition)
	vm.RegisterCommand("change_background", cmdChangeBackground)
	vm.RegisterCommand("location_card", cmdLocationCard)
	vm.RegisterCommand("credits", cmdCredits)
	vm.RegisterCommand("ending", cmdEnding)
	vm.RegisterCommand("chapter_title", cmdChapterTitle)
	vm.RegisterCommand("screen_shake", cmdScreenShake)
	vm.RegisterCommand("set_cursor", cmdSetCursor)
	vm.RegisterCommand("center_cursor", cmdCenterCursor)
	vm.RegisterCommand("disp_cursor", cmdDispCursor)
	vm.RegisterCommand("flicker_cursor", cmdFlickerCursor)
}

// cmdTransition fades the screen and waits out the fade
func cmdTransition(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	direction := args.Get("Direction")
	if direction == "" {
		direction = "close"
	}
	speed := millis(args.Get("Speed"), DefaultTransition)
	vm.Present(types.Request{
		Kind: types.PresentTransition,
		Args: argMap("direction", direction, "speed", strconv.Itoa(int(speed.Milliseconds())), "color", args.Get("Color3")),
	})
	vm.Wait(speed)
	return nil
}

func cmdChangeBackground(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind:  types.PresentBackground,
		Args:  argMap("panorama", args.Get("Panorama")),
		Flags: flagList(args),
	})
	if !args.Flag("keep_portraits") {
		vm.Present(types.Request{Kind: types.PresentClearPortraits})
	}
	return nil
}

func cmdLocationCard(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind:     types.PresentLocationCard,
		Args:     argMap("text", vm.Substitute(args.Get("String"))),
		Blocking: true,
	})
	return nil
}

func cmdCredits(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind:     types.PresentCredits,
		Args:     argMap("role", args.Get("Role"), "credits", args.Get("Credits")),
		Flags:    flagList(args),
		Blocking: true,
	})
	return nil
}

func cmdEnding(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind:     types.PresentEnding,
		Args:     argMap("portrait", args.Get("Portrait"), "title", args.Get("Title"), "text", vm.Substitute(args.Get("Text"))),
		Blocking: true,
	})
	return nil
}

func cmdChapterTitle(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Pause(types.Handoff{
		State: StateChapterTitle,
		Args:  argMap("music", args.Get("Music"), "title", args.Get("String")),
	})
	return nil
}

func cmdScreenShake(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	d := millis(args.Get("Time"), 0)
	shake := args.Get("ShakeType")
	if shake == "" {
		shake = "default"
	}
	vm.Present(types.Request{
		Kind: types.PresentShake,
		Args: argMap("type", shake, "time", strconv.Itoa(int(d.Milliseconds()))),
	})
	if !args.Flag("no_block") {
		vm.Wait(d)
	}
	return nil
}

func moveCursor(vm types.VMInterface, args *types.Args, mode string) error {
	pos, err := resolvePosition(vm, args.Get("Position"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind:  types.PresentCursor,
		Args:  argMap("mode", mode, "position", pos.String()),
		Flags: flagList(args),
	})
	if !args.Flag("immediate") {
		vm.Wait(CursorTime)
	}
	return nil
}

func cmdSetCursor(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return moveCursor(vm, args, "set")
}

func cmdCenterCursor(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return moveCursor(vm, args, "center")
}

func cmdDispCursor(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	show, err := validate.ParseBool(args.Get("Bool"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind: types.PresentCursor,
		Args: argMap("mode", "display", "visible", strconv.FormatBool(show)),
	})
	return nil
}

func cmdFlickerCursor(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	pos, err := resolvePosition(vm, args.Get("Position"))
	if err != nil {
		return err
	}
	vm.Present(types.Request{
		Kind: types.PresentCursor,
		Args: argMap("mode", "flicker", "position", pos.String()),
	})
	vm.Wait(FlickerTime)
	return nil
}
