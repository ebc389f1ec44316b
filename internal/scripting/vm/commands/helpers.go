package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventide/internal/scripting/types"
)

// CommandRegistry is implemented by the interpreter's dispatch table
type CommandRegistry interface {
	RegisterCommand(id string, handler types.CommandHandler)
}

var ErrNoWorld = errors.New("no world attached")

// Animation timings used when a command waits for its own effect
const (
	DefaultMusicFade    = 400 * time.Millisecond
	DefaultTransition   = 1000 * time.Millisecond
	UnitEntryTime       = 250 * time.Millisecond
	UnitMoveTimePerTile = 100 * time.Millisecond
	CursorTime          = 400 * time.Millisecond
	FlickerTime         = 1000 * time.Millisecond
)

// MaxInventory is the number of items a unit carries before extras go to the convoy
const MaxInventory = 5

// Convoy is the GlobalUnitOrConvoy value naming the party convoy
const Convoy = "convoy"

func refErr(kind, name string) error {
	return fmt.Errorf("%w: %s %q", types.ErrReference, kind, name)
}

func world(vm types.VMInterface) (types.World, error) {
	w := vm.World()
	if w == nil || vm.Actions() == nil {
		return nil, ErrNoWorld
	}
	return w, nil
}

// unitNID maps the {unit} and {unit2} pseudo references to the context's nids
func unitNID(vm types.VMInterface, ref string) string {
	switch ref {
	case types.RefUnit:
		return vm.Context().Unit
	case types.RefUnit2:
		return vm.Context().Unit2
	}
	return ref
}

// resolveUnit finds the unit a script argument names
func resolveUnit(vm types.VMInterface, ref string) (*types.Unit, error) {
	w, err := world(vm)
	if err != nil {
		return nil, err
	}
	nid := unitNID(vm, ref)
	if nid == "" {
		return nil, refErr("unit", ref)
	}
	u := w.Unit(nid)
	if u == nil {
		return nil, refErr("unit", ref)
	}
	return u, nil
}

// resolveOnMap is resolveUnit for units that must stand on a tile
func resolveOnMap(vm types.VMInterface, ref string) (*types.Unit, error) {
	u, err := resolveUnit(vm, ref)
	if err != nil {
		return nil, err
	}
	if !u.OnMap() {
		return nil, fmt.Errorf("%w: unit %q is not on the map", types.ErrReference, u.NID)
	}
	return u, nil
}

// resolvePosition accepts x,y, {position}, or a unit reference standing on the map
func resolvePosition(vm types.VMInterface, ref string) (types.Position, error) {
	w, err := world(vm)
	if err != nil {
		return types.Position{}, err
	}
	if ref == types.RefPosition {
		if p := vm.Context().Position; p != nil {
			return *p, nil
		}
		return types.Position{}, refErr("position", ref)
	}
	if pos, err := types.ParsePosition(ref); err == nil {
		if !w.InBounds(pos) {
			return types.Position{}, fmt.Errorf("%w: position %s off the map", types.ErrReference, pos)
		}
		return pos, nil
	}
	u, err := resolveOnMap(vm, ref)
	if err != nil {
		return types.Position{}, refErr("position", ref)
	}
	return *u.Position, nil
}

func millis(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

func intOr(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}

func mustInt(keyword, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", keyword, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flagList returns the command's flags in schema order
func flagList(args *types.Args) []string {
	var out []string
	for _, f := range args.Schema.Flags {
		if args.Flags[f] {
			out = append(out, f)
		}
	}
	return out
}

// synth builds a command for splicing, dropping trailing empty values
func synth(id string, values ...string) *types.Command {
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return types.NewCommand(id, values[:end]...)
}

func argMap(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			m[kv[i]] = kv[i+1]
		}
	}
	return m
}

func noop(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	return nil
}
