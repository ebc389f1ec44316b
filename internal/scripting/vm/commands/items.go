package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
)

// RegisterItemCommands registers inventory commands
func RegisterItemCommands(vm CommandRegistry) {
	vm.RegisterCommand("give_item", cmdGiveItem)
	vm.RegisterCommand("give_items", cmdGiveItems)
	vm.RegisterCommand("remove_item", cmdRemoveItem)
}

func isConvoy(ref string) bool {
	return strings.EqualFold(ref, Convoy)
}

func cmdGiveItem(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	target := args.Get("GlobalUnitOrConvoy")
	var u *types.Unit
	if !isConvoy(target) {
		if u, err = resolveUnit(vm, target); err != nil {
			return err
		}
	}
	item, err := w.NewItem(args.Get("Item"))
	if err != nil {
		return fmt.Errorf("%w: item %q: %v", types.ErrReference, args.Get("Item"), err)
	}
	vm.Actions().Do(&action.ClaimItemUID{UID: item.UID})
	if args.Flag("droppable") {
		item.Droppable = true
	}

	switch {
	case u != nil && len(u.Items) < MaxInventory:
		vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: func(u *types.Unit) {
			u.Items = append(u.Items, item)
		}})
	default:
		party := ""
		if u != nil {
			party = u.Party
		}
		items := append(slices.Clone(w.ConvoyItems(party)), item)
		vm.Actions().Do(&action.SetConvoy{Party: party, Items: items})
	}
	if u != nil {
		vm.SetItem(item.UID)
	}

	if !args.Flag("no_banner") {
		text := "Got " + itemName(item)
		if u != nil && !slices.Contains(u.Items, item) {
			text += " (sent to convoy)"
		}
		vm.Present(types.Request{Kind: types.PresentAlert, Args: argMap("text", text), Blocking: true})
	}
	return nil
}

func itemName(it *types.Item) string {
	if it.Name != "" {
		return it.Name
	}
	return it.NID
}

// cmdGiveItems expands into one give_item per listed item
func cmdGiveItems(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	target := args.Get("GlobalUnitOrConvoy")
	flags := flagList(args)
	var cmds []*types.Command
	for _, nid := range splitList(args.Get("ItemList")) {
		c := synth("give_item", target, nid)
		c.Values = append(c.Values, flags...)
		cmds = append(cmds, c)
	}
	return vm.Splice(cmds...)
}

// matchItem matches by nid or, for a numeric reference, by uid
func matchItem(ref string) func(*types.Item) bool {
	uid, err := strconv.Atoi(ref)
	return func(it *types.Item) bool {
		if err == nil && it.UID == uid {
			return true
		}
		return it.NID == ref
	}
}

func cmdRemoveItem(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	target, ref := args.Get("GlobalUnitOrConvoy"), args.Get("Item")
	match := matchItem(ref)

	if isConvoy(target) {
		items := slices.Clone(w.ConvoyItems(""))
		idx := slices.IndexFunc(items, match)
		if idx < 0 {
			return fmt.Errorf("%w: convoy has no item %q", types.ErrReference, ref)
		}
		vm.Actions().Do(&action.SetConvoy{Items: slices.Delete(items, idx, idx+1)})
		return nil
	}

	u, err := resolveUnit(vm, target)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(u.Items, match) {
		return fmt.Errorf("%w: unit %q has no item %q", types.ErrReference, u.NID, ref)
	}
	vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: func(u *types.Unit) {
		idx := slices.IndexFunc(u.Items, match)
		u.Items = slices.Delete(slices.Clone(u.Items), idx, idx+1)
	}})
	return nil
}
