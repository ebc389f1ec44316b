package commands

import (
	"fmt"
	"strconv"
	"strings"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
)

// RegisterMapCommands registers region, layer, tilemap, lock and objective commands
func RegisterMapCommands(vm CommandRegistry) {
	vm.RegisterCommand("add_region", cmdAddRegion)
	vm.RegisterCommand("region_condition", cmdRegionCondition)
	vm.RegisterCommand("remove_region", cmdRemoveRegion)
	vm.RegisterCommand("show_layer", cmdShowLayer)
	vm.RegisterCommand("hide_layer", cmdHideLayer)
	vm.RegisterCommand("change_tilemap", cmdChangeTilemap)
	vm.RegisterCommand("unlock", cmdUnlock)
	vm.RegisterCommand("find_unlock", cmdFindUnlock)
	vm.RegisterCommand("spend_unlock", cmdSpendUnlock)
	vm.RegisterCommand("change_objective_simple", objective(types.SettingObjectiveSimple))
	vm.RegisterCommand("change_objective_win", objective(types.SettingObjectiveWin))
	vm.RegisterCommand("change_objective_loss", objective(types.SettingObjectiveLoss))
}

func parseSize(value string) ([2]int, error) {
	ws, hs, ok := strings.Cut(value, ",")
	if !ok {
		return [2]int{}, fmt.Errorf("size %q: expected w,h", value)
	}
	wv, err1 := strconv.Atoi(strings.TrimSpace(ws))
	hv, err2 := strconv.Atoi(strings.TrimSpace(hs))
	if err1 != nil || err2 != nil || wv <= 0 || hv <= 0 {
		return [2]int{}, fmt.Errorf("size %q: expected positive w,h", value)
	}
	return [2]int{wv, hv}, nil
}

func cmdAddRegion(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	nid := args.Get("Region")
	if w.Region(nid) != nil {
		return fmt.Errorf("region %q already exists", nid)
	}
	pos, err := resolvePosition(vm, args.Get("Position"))
	if err != nil {
		return err
	}
	size, err := parseSize(args.Get("Size"))
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.AddRegion{Region: &types.Region{
		NID:           nid,
		Type:          strings.ToLower(args.Get("RegionType")),
		Position:      pos,
		Size:          size,
		SubNID:        args.Get("String"),
		OnlyOnce:      args.Flag("only_once"),
		InterruptMove: args.Flag("interrupt_move"),
	}})
	return nil
}

func cmdRegionCondition(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	nid := args.Get("Region")
	if w.Region(nid) == nil {
		return refErr("region", nid)
	}
	vm.Actions().Do(&action.SetRegionCondition{NID: nid, Condition: args.Get("Condition")})
	return nil
}

func cmdRemoveRegion(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	nid := args.Get("Region")
	if w.Region(nid) == nil {
		return refErr("region", nid)
	}
	vm.Actions().Do(&action.RemoveRegion{NID: nid})
	return nil
}

func setLayer(vm types.VMInterface, args *types.Args, visible bool) error {
	if _, err := world(vm); err != nil {
		return err
	}
	vm.Actions().Do(&action.SetFlag{Set: types.FlagLayer, Key: args.Get("Layer"), On: visible})
	if strings.ToLower(args.Get("LayerTransition")) != "immediate" {
		vm.Wait(UnitEntryTime)
	}
	return nil
}

func cmdShowLayer(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return setLayer(vm, args, true)
}

func cmdHideLayer(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return setLayer(vm, args, false)
}

// cmdChangeTilemap swaps the tilemap. Units are taken off the old map unless
// reload asks to keep them in place.
func cmdChangeTilemap(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	if !args.Flag("reload") {
		if err := removeWhere(vm, func(*types.Unit) bool { return false }); err != nil {
			return err
		}
	}
	vm.Actions().Do(&action.SetSetting{Key: types.SettingTilemap, Value: args.Get("Tilemap")})
	return nil
}

// cmdUnlock expands into find_unlock followed by spend_unlock
func cmdUnlock(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	unit := args.Get("Unit")
	return vm.Splice(synth("find_unlock", unit), synth("spend_unlock", unit))
}

func usable(it *types.Item) bool {
	return it.Unlock && it.Uses != 0
}

// cmdFindUnlock remembers the item the unit will spend in the event context
func cmdFindUnlock(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	if vm.Context().Region == "" {
		return fmt.Errorf("%w: find_unlock outside a region event", types.ErrReference)
	}
	for _, it := range u.Items {
		if usable(it) {
			vm.SetItem(it.UID)
			return nil
		}
	}
	return fmt.Errorf("%w: unit %q has no item that can unlock", types.ErrReference, u.NID)
}

// cmdSpendUnlock uses the chosen item and clears a one-shot lock region
func cmdSpendUnlock(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	uid := vm.Context().ItemUID
	match := func(it *types.Item) bool { return it.UID == uid && usable(it) }
	found := false
	for _, it := range u.Items {
		found = found || match(it)
	}
	if uid == 0 || !found {
		return fmt.Errorf("%w: unit %q holds no unlock item %d", types.ErrReference, u.NID, uid)
	}
	vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: func(u *types.Unit) {
		var kept []*types.Item
		for _, it := range u.Items {
			if it.UID == uid && it.Uses > 0 {
				it = it.Clone()
				it.Uses--
				if it.Uses == 0 {
					continue
				}
			}
			kept = append(kept, it)
		}
		u.Items = kept
	}})
	if r := vm.World().Region(vm.Context().Region); r != nil && r.OnlyOnce {
		vm.Actions().Do(&action.RemoveRegion{NID: r.NID})
	}
	return nil
}

func objective(key string) types.CommandHandler {
	return func(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
		if _, err := world(vm); err != nil {
			return err
		}
		vm.Actions().Do(&action.SetSetting{Key: key, Value: args.Get("String")})
		return nil
	}
}
