package commands

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/validate"
)

// RegisterUnitCommands registers commands that place or modify single units
func RegisterUnitCommands(vm CommandRegistry) {
	vm.RegisterCommand("add_unit", cmdAddUnit)
	vm.RegisterCommand("move_unit", cmdMoveUnit)
	vm.RegisterCommand("remove_unit", cmdRemoveUnit)
	vm.RegisterCommand("kill_unit", cmdKillUnit)
	vm.RegisterCommand("resurrect", cmdResurrect)
	vm.RegisterCommand("remove_all_units", cmdRemoveAllUnits)
	vm.RegisterCommand("remove_all_enemies", cmdRemoveAllEnemies)
	vm.RegisterCommand("give_exp", cmdGiveExp)
	vm.RegisterCommand("give_skill", cmdGiveSkill)
	vm.RegisterCommand("remove_skill", cmdRemoveSkill)
	vm.RegisterCommand("change_ai", cmdChangeAI)
	vm.RegisterCommand("change_team", cmdChangeTeam)
	vm.RegisterCommand("change_portrait", cmdChangePortrait)
	vm.RegisterCommand("change_stats", cmdChangeStats)
	vm.RegisterCommand("set_current_hp", cmdSetCurrentHP)
	vm.RegisterCommand("reset_unit", cmdResetUnit)
	vm.RegisterCommand("add_tag", cmdAddTag)
	vm.RegisterCommand("remove_tag", cmdRemoveTag)
	vm.RegisterCommand("interact_unit", cmdInteractUnit)
}

func animate(vm types.VMInterface, u *types.Unit, kind string, from, to *types.Position) {
	a := argMap("unit", u.NID, "type", kind)
	if from != nil {
		a["from"] = from.String()
	}
	if to != nil {
		a["to"] = to.String()
	}
	vm.Present(types.Request{Kind: types.PresentUnitAnimation, Args: a})
}

func cmdAddUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	if u.OnMap() {
		return fmt.Errorf("unit %q is already on the map", u.NID)
	}
	if u.Dead {
		return fmt.Errorf("unit %q is dead", u.NID)
	}
	var pos types.Position
	if ref := args.Get("Position"); ref != "" {
		if pos, err = resolvePosition(vm, ref); err != nil {
			return err
		}
	} else if u.Start != nil {
		pos = *u.Start
	} else {
		return fmt.Errorf("%w: unit %q has no starting position", types.ErrReference, u.NID)
	}
	pos, err = place(vm, u, pos, args.Get("Placement"))
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.MoveUnit{NID: u.NID, To: &pos})

	entry := strings.ToLower(args.Get("EntryType"))
	if entry == "" {
		entry = "fade"
	}
	animate(vm, u, entry, nil, &pos)
	if entry != "immediate" {
		vm.Wait(UnitEntryTime)
	}
	return nil
}

func cmdMoveUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveOnMap(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	var pos types.Position
	if ref := args.Get("Position"); ref != "" {
		if pos, err = resolvePosition(vm, ref); err != nil {
			return err
		}
	} else if u.Start != nil {
		pos = *u.Start
	} else {
		return fmt.Errorf("%w: unit %q has no starting position", types.ErrReference, u.NID)
	}
	pos, err = place(vm, u, pos, args.Get("Placement"))
	if err != nil {
		return err
	}
	from := *u.Position
	vm.Actions().Do(&action.MoveUnit{NID: u.NID, To: &pos})

	movement := strings.ToLower(args.Get("MovementType"))
	if movement == "" {
		movement = "normal"
	}
	animate(vm, u, movement, &from, &pos)
	if args.Flag("no_block") || movement == "immediate" {
		return nil
	}
	if movement == "normal" {
		vm.Wait(time.Duration(from.Distance(pos)) * UnitMoveTimePerTile)
	} else {
		vm.Wait(UnitEntryTime)
	}
	return nil
}

func cmdRemoveUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveOnMap(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	from := *u.Position
	vm.Actions().Do(&action.MoveUnit{NID: u.NID})
	kind := strings.ToLower(args.Get("RemoveType"))
	if kind == "" {
		kind = "fade"
	}
	animate(vm, u, kind, &from, nil)
	if kind != "immediate" {
		vm.Wait(UnitEntryTime)
	}
	return nil
}

func cmdKillUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	if u.Dead {
		return fmt.Errorf("unit %q is already dead", u.NID)
	}
	from := u.Position
	vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: func(u *types.Unit) {
		u.Dead = true
		u.HP = 0
		u.Position = nil
	}})
	if from != nil && !args.Flag("immediate") {
		animate(vm, u, "death", from, nil)
		vm.Wait(UnitEntryTime)
	}
	return nil
}

func cmdResurrect(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveUnit(vm, args.Get("GlobalUnit"))
	if err != nil {
		return err
	}
	if !u.Dead {
		return fmt.Errorf("unit %q is not dead", u.NID)
	}
	vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: func(u *types.Unit) {
		u.Dead = false
		u.HP = u.MaxHP
	}})
	return nil
}

func removeWhere(vm types.VMInterface, keep func(u *types.Unit) bool) error {
	w, err := world(vm)
	if err != nil {
		return err
	}
	for _, u := range w.Units() {
		if u.OnMap() && !keep(u) {
			vm.Actions().Do(&action.MoveUnit{NID: u.NID})
		}
	}
	return nil
}

func cmdRemoveAllUnits(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return removeWhere(vm, func(*types.Unit) bool { return false })
}

func cmdRemoveAllEnemies(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return removeWhere(vm, func(u *types.Unit) bool {
		return !strings.HasPrefix(u.Team, "enemy")
	})
}

// update resolves a global unit and applies mutate through the action log
func update(vm types.VMInterface, ref string, mutate func(u *types.Unit)) error {
	u, err := resolveUnit(vm, ref)
	if err != nil {
		return err
	}
	vm.Actions().Do(&action.UpdateUnit{NID: u.NID, Mutate: mutate})
	return nil
}

// ExpPerLevel is the experience needed for one level
const ExpPerLevel = 100

func cmdGiveExp(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	exp, err := mustInt("Experience", args.Get("Experience"))
	if err != nil {
		return err
	}
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		u.Exp += exp
		for u.Exp >= ExpPerLevel {
			u.Exp -= ExpPerLevel
			u.Level++
		}
	})
}

func cmdGiveSkill(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	skill := args.Get("Skill")
	if err := update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		if !slices.Contains(u.Skills, skill) {
			u.Skills = append(u.Skills, skill)
		}
	}); err != nil {
		return err
	}
	if !args.Flag("no_banner") {
		vm.Present(types.Request{Kind: types.PresentAlert, Args: argMap("text", "Gained "+skill), Blocking: true})
	}
	return nil
}

func cmdRemoveSkill(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	skill := args.Get("Skill")
	u, err := resolveUnit(vm, args.Get("GlobalUnit"))
	if err != nil {
		return err
	}
	if !slices.Contains(u.Skills, skill) {
		return fmt.Errorf("%w: unit %q has no skill %q", types.ErrReference, u.NID, skill)
	}
	return update(vm, u.NID, func(u *types.Unit) {
		u.Skills = slices.DeleteFunc(u.Skills, func(s string) bool { return s == skill })
	})
}

func cmdChangeAI(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	ai := args.Get("AI")
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) { u.AI = ai })
}

func cmdChangeTeam(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	team := strings.ToLower(args.Get("Team"))
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) { u.Team = team })
}

func cmdChangePortrait(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	portrait := args.Get("PortraitNid")
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) { u.Portrait = portrait })
}

func cmdChangeStats(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	changes, err := validate.ParseStatList(args.Get("StatList"))
	if err != nil {
		return err
	}
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		if u.Stats == nil {
			u.Stats = make(map[string]int, len(changes))
		}
		for stat, delta := range changes {
			u.Stats[stat] += delta
		}
	})
}

func cmdSetCurrentHP(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	hp, err := mustInt("HP", args.Get("HP"))
	if err != nil {
		return err
	}
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		v := max(hp, 1)
		if u.MaxHP > 0 {
			v = min(v, u.MaxHP)
		}
		u.HP = v
	})
}

func cmdResetUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) { u.Finished = false })
}

func cmdAddTag(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	tag := args.Get("Tag")
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		if !slices.Contains(u.Tags, tag) {
			u.Tags = append(u.Tags, tag)
		}
	})
}

func cmdRemoveTag(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	tag := args.Get("Tag")
	return update(vm, args.Get("GlobalUnit"), func(u *types.Unit) {
		u.Tags = slices.DeleteFunc(u.Tags, func(t string) bool { return t == tag })
	})
}

// cmdInteractUnit hands a scripted combat to the host's combat state
func cmdInteractUnit(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	u, err := resolveOnMap(vm, args.Get("Unit"))
	if err != nil {
		return err
	}
	pos, err := resolvePosition(vm, args.Get("Position"))
	if err != nil {
		return err
	}
	h := types.Handoff{
		State: StateCombat,
		Args: argMap(
			"attacker", u.NID,
			"position", pos.String(),
			"script", args.Get("CombatScript"),
			"ability", args.Get("Ability"),
		),
	}
	if target := vm.World().UnitAt(pos); target != nil {
		h.Args["defender"] = target.NID
	}
	if args.Flag("immediate") {
		h.Args["immediate"] = "true"
	}
	vm.Pause(h)
	return nil
}
