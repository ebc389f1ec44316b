package commands

import (
	"fmt"
	"strings"

	"eventide/internal/log"
	"eventide/internal/scripting/types"
)

// RegisterGroupCommands registers the group commands. Each expands into
// per-unit commands spliced after itself.
func RegisterGroupCommands(vm CommandRegistry) {
	vm.RegisterCommand("add_group", cmdAddGroup)
	vm.RegisterCommand("spawn_group", cmdSpawnGroup)
	vm.RegisterCommand("move_group", cmdMoveGroup)
	vm.RegisterCommand("remove_group", cmdRemoveGroup)
}

func resolveGroup(vm types.VMInterface, nid string) (*types.Group, error) {
	w, err := world(vm)
	if err != nil {
		return nil, err
	}
	g := w.Group(nid)
	if g == nil {
		return nil, refErr("group", nid)
	}
	return g, nil
}

// formation returns the tile each unit of g should take, using start's
// positions and falling back to the unit's own starting tile
func formation(vm types.VMInterface, g, start *types.Group) []unitTile {
	var out []unitTile
	for _, nid := range g.Units {
		if pos, ok := start.Positions[nid]; ok {
			out = append(out, unitTile{nid: nid, pos: pos})
			continue
		}
		if u := vm.World().Unit(nid); u != nil && u.Start != nil {
			out = append(out, unitTile{nid: nid, pos: *u.Start})
			continue
		}
		log.Warn("group unit has no position", "group", g.NID, "starting_group", start.NID, "unit", nid)
	}
	return out
}

type unitTile struct {
	nid string
	pos types.Position
}

// startingGroup resolves the optional StartingGroup argument, defaulting to g
func startingGroup(vm types.VMInterface, args *types.Args, g *types.Group) (*types.Group, error) {
	if nid := args.Get("StartingGroup"); nid != "" {
		return resolveGroup(vm, nid)
	}
	return g, nil
}

// blockLast marks every move but the last as non-blocking, or all of them
// when the macro itself was given no_block
func blockLast(cmds []*types.Command, allNonBlocking bool) {
	for i, c := range cmds {
		if c.ID == "move_unit" && (allNonBlocking || i < len(cmds)-1) {
			c.Values = append(c.Values, "no_block")
		}
	}
}

func cmdAddGroup(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	g, err := resolveGroup(vm, args.Get("Group"))
	if err != nil {
		return err
	}
	start, err := startingGroup(vm, args, g)
	if err != nil {
		return err
	}
	var cmds []*types.Command
	for _, t := range formation(vm, g, start) {
		if u := vm.World().Unit(t.nid); u == nil || u.OnMap() || u.Dead {
			continue
		}
		cmds = append(cmds, synth("add_unit", t.nid, t.pos.String(), args.Get("EntryType"), args.Get("Placement")))
	}
	return vm.Splice(cmds...)
}

// edgeOf projects pos onto the map edge in the given direction
func edgeOf(w types.World, pos types.Position, direction string) (types.Position, error) {
	width, height := w.Size()
	switch strings.ToLower(direction) {
	case "north":
		return types.Position{X: pos.X, Y: 0}, nil
	case "south":
		return types.Position{X: pos.X, Y: height - 1}, nil
	case "west":
		return types.Position{X: 0, Y: pos.Y}, nil
	case "east":
		return types.Position{X: width - 1, Y: pos.Y}, nil
	}
	return pos, fmt.Errorf("unknown direction %q", direction)
}

func cmdSpawnGroup(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	g, err := resolveGroup(vm, args.Get("Group"))
	if err != nil {
		return err
	}
	start, err := startingGroup(vm, args, g)
	if err != nil {
		return err
	}
	var cmds []*types.Command
	for _, t := range formation(vm, g, start) {
		if u := vm.World().Unit(t.nid); u == nil || u.OnMap() || u.Dead {
			continue
		}
		edge, err := edgeOf(vm.World(), t.pos, args.Get("CardinalDirection"))
		if err != nil {
			return err
		}
		cmds = append(cmds,
			synth("add_unit", t.nid, edge.String(), "immediate", PlaceClosest),
			synth("move_unit", t.nid, t.pos.String(), args.Get("MovementType"), args.Get("Placement")),
		)
	}
	blockLast(cmds, args.Flag("no_block"))
	return vm.Splice(cmds...)
}

func cmdMoveGroup(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	g, err := resolveGroup(vm, args.Get("Group"))
	if err != nil {
		return err
	}
	start, err := resolveGroup(vm, args.Get("StartingGroup"))
	if err != nil {
		return err
	}
	var cmds []*types.Command
	for _, t := range formation(vm, g, start) {
		if u := vm.World().Unit(t.nid); u == nil || !u.OnMap() {
			continue
		}
		cmds = append(cmds, synth("move_unit", t.nid, t.pos.String(), args.Get("MovementType"), args.Get("Placement")))
	}
	blockLast(cmds, args.Flag("no_block"))
	return vm.Splice(cmds...)
}

func cmdRemoveGroup(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	g, err := resolveGroup(vm, args.Get("Group"))
	if err != nil {
		return err
	}
	var cmds []*types.Command
	for _, nid := range g.Units {
		if u := vm.World().Unit(nid); u == nil || !u.OnMap() {
			continue
		}
		cmds = append(cmds, synth("remove_unit", nid, args.Get("RemoveType")))
	}
	return vm.Splice(cmds...)
}
