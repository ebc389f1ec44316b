package commands

import (
	"fmt"
	"strings"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
)

// Placement policies for a unit arriving on an occupied tile
const (
	PlaceGiveUp  = "giveup"
	PlaceStack   = "stack"
	PlaceClosest = "closest"
	PlacePush    = "push"
)

var ErrTileOccupied = fmt.Errorf("%w: tile occupied", types.ErrReference)

// place decides where u ends up when it wants pos. With push the occupant is
// moved out of the way first.
func place(vm types.VMInterface, u *types.Unit, pos types.Position, policy string) (types.Position, error) {
	w := vm.World()
	occupant := w.UnitAt(pos)
	if occupant == nil || occupant.NID == u.NID {
		return pos, nil
	}
	switch strings.ToLower(policy) {
	case PlaceGiveUp:
		return pos, fmt.Errorf("%w: %s wants %s held by %s", ErrTileOccupied, u.NID, pos, occupant.NID)
	case PlaceStack:
		return pos, nil
	case PlacePush:
		to, err := nearestOpen(vm, pos, occupant)
		if err != nil {
			return pos, err
		}
		vm.Actions().Do(&action.MoveUnit{NID: occupant.NID, To: &to})
		return pos, nil
	default:
		return nearestOpen(vm, pos, u)
	}
}

// nearestOpen picks one of the closest free tiles. Ties are broken with the
// event random source so replays choose the same tile.
func nearestOpen(vm types.VMInterface, pos types.Position, u *types.Unit) (types.Position, error) {
	tiles := vm.World().OpenTilesNear(pos, u)
	if len(tiles) == 0 {
		return pos, fmt.Errorf("%w: no open tile near %s for %s", types.ErrReference, pos, u.NID)
	}
	return tiles[vm.Random().Intn(len(tiles))], nil
}
