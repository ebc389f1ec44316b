package commands

import (
	"fmt"

	"eventide/internal/scripting/types"
)

// Host states handed off to by paused commands
const (
	StateChoice       = "choice"
	StateTextEntry    = "text_entry"
	StateChapterTitle = "chapter_title"
	StatePrep         = "prep"
	StateBase         = "base"
	StateShop         = "shop"
	StateCombat       = "combat"
)

// RegisterDialogueCommands registers dialogue and player prompt commands
func RegisterDialogueCommands(vm CommandRegistry) {
	vm.RegisterCommand("speak", cmdSpeak)
	vm.RegisterCommand("narrate", cmdNarrate)
	vm.RegisterCommand("unhold", cmdUnhold)
	vm.RegisterCommand("alert", cmdAlert)
	vm.RegisterCommand("choice", cmdChoice)
	vm.RegisterCommand("text_entry", cmdTextEntry)
}

// speakerName maps {unit} and {unit2} to the unit's display name
func speakerName(vm types.VMInterface, ref string) string {
	if ref != types.RefUnit && ref != types.RefUnit2 {
		return ref
	}
	u, err := resolveUnit(vm, ref)
	if err != nil {
		return ref
	}
	if u.Name != "" {
		return u.Name
	}
	return u.NID
}

func cmdSpeak(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind: types.PresentSpeak,
		Args: argMap(
			"speaker", speakerName(vm, args.Get("Speaker")),
			"text", vm.Substitute(args.Get("Text")),
			"position", args.Get("ScreenPosition"),
			"width", args.Get("Width"),
			"variant", args.Get("DialogVariant"),
		),
		Flags:    flagList(args),
		Blocking: !args.Flag("no_block"),
	})
	return nil
}

func cmdNarrate(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind: types.PresentSpeak,
		Args: argMap(
			"speaker", speakerName(vm, args.Get("Speaker")),
			"text", vm.Substitute(args.Get("Text")),
			"variant", "narration",
		),
		Flags:    flagList(args),
		Blocking: !args.Flag("no_block"),
	})
	return nil
}

func cmdUnhold(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{Kind: types.PresentUnhold, Args: argMap("nid", args.Get("Nid"))})
	return nil
}

func cmdAlert(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Present(types.Request{
		Kind:     types.PresentAlert,
		Args:     argMap("text", vm.Substitute(args.Get("String")), "sound", args.Get("Sound"), "icon", args.Get("Icon")),
		Blocking: true,
	})
	return nil
}

// cmdChoice hands the menu to the host. The host writes the pick to the game
// variable named by Nid before popping the state.
func cmdChoice(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	choices := splitList(args.Get("Choices"))
	if len(choices) == 0 {
		return fmt.Errorf("choice %q has no options", args.Get("Nid"))
	}
	h := types.Handoff{
		State: StateChoice,
		Args: argMap(
			"nid", args.Get("Nid"),
			"title", args.Get("Title"),
			"choices", args.Get("Choices"),
			"row_width", args.Get("RowWidth"),
		),
	}
	if args.Flag("persist") {
		h.Args["persist"] = "true"
	}
	vm.Pause(h)
	return nil
}

func cmdTextEntry(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Pause(types.Handoff{
		State: StateTextEntry,
		Args:  argMap("nid", args.Get("Nid"), "prompt", args.Get("String"), "limit", args.Get("Limit")),
	})
	return nil
}
