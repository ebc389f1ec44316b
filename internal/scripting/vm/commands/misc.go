package commands

import (
	"strconv"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/validate"
)

// RegisterMiscCommands registers talk, lore, market and base screen commands
func RegisterMiscCommands(vm CommandRegistry) {
	vm.RegisterCommand("add_talk", talk(true))
	vm.RegisterCommand("remove_talk", talk(false))
	vm.RegisterCommand("add_lore", flag(types.FlagLore, "Lore", true))
	vm.RegisterCommand("remove_lore", flag(types.FlagLore, "Lore", false))
	vm.RegisterCommand("add_market_item", flag(types.FlagMarket, "Item", true))
	vm.RegisterCommand("remove_market_item", flag(types.FlagMarket, "Item", false))
	vm.RegisterCommand("prep", cmdPrep)
	vm.RegisterCommand("base", cmdBase)
	vm.RegisterCommand("shop", cmdShop)
}

// TalkKey is the talk flag key for a pair of units
func TalkKey(unit, unit2 string) string {
	return unit + "|" + unit2
}

func talk(on bool) types.CommandHandler {
	return func(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
		u1, err := resolveUnit(vm, args.Get("Unit"))
		if err != nil {
			return err
		}
		u2, err := resolveUnit(vm, args.Get("Unit2"))
		if err != nil {
			return err
		}
		vm.Actions().Do(&action.SetFlag{Set: types.FlagTalk, Key: TalkKey(u1.NID, u2.NID), On: on})
		return nil
	}
}

func flag(set, keyword string, on bool) types.CommandHandler {
	return func(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
		if _, err := world(vm); err != nil {
			return err
		}
		vm.Actions().Do(&action.SetFlag{Set: set, Key: args.Get(keyword), On: on})
		return nil
	}
}

func cmdPrep(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	pick := true
	if v := args.Get("Bool"); v != "" {
		b, err := validate.ParseBool(v)
		if err != nil {
			return err
		}
		pick = b
	}
	vm.Pause(types.Handoff{
		State: StatePrep,
		Args:  argMap("pick_units", strconv.FormatBool(pick), "music", args.Get("Music")),
	})
	return nil
}

func cmdBase(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	h := types.Handoff{
		State: StateBase,
		Args:  argMap("panorama", args.Get("Panorama"), "music", args.Get("Music")),
	}
	if args.Flag("show_map") {
		h.Args["show_map"] = "true"
	}
	vm.Pause(h)
	return nil
}

func cmdShop(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	vm.Pause(types.Handoff{
		State: StateShop,
		Args:  argMap("unit", u.NID, "items", args.Get("ItemList"), "flavor", args.Get("ShopFlavor")),
	})
	return nil
}
