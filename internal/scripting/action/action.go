// Package action holds the reversible world mutations event commands perform
// and the log that records them for undo and rewind.
package action

import (
	"eventide/internal/scripting/types"
)

// SetGameVar sets or, with Delete, removes a game variable
type SetGameVar struct {
	Name   string
	Value  any
	Delete bool

	old any
	had bool
}

func (a *SetGameVar) Do(w types.World) {
	a.old, a.had = w.GameVar(a.Name)
	if a.Delete {
		w.DeleteGameVar(a.Name)
		return
	}
	w.SetGameVar(a.Name, a.Value)
}

func (a *SetGameVar) Reverse(w types.World) {
	if a.had {
		w.SetGameVar(a.Name, a.old)
	} else {
		w.DeleteGameVar(a.Name)
	}
}

// SetLevelVar sets or, with Delete, removes a level variable
type SetLevelVar struct {
	Name   string
	Value  any
	Delete bool

	old any
	had bool
}

func (a *SetLevelVar) Do(w types.World) {
	a.old, a.had = w.LevelVar(a.Name)
	if a.Delete {
		w.DeleteLevelVar(a.Name)
		return
	}
	w.SetLevelVar(a.Name, a.Value)
}

func (a *SetLevelVar) Reverse(w types.World) {
	if a.had {
		w.SetLevelVar(a.Name, a.old)
	} else {
		w.DeleteLevelVar(a.Name)
	}
}

// GainMoney adds Amount (possibly negative) to a party's funds
type GainMoney struct {
	Party  string
	Amount int
}

func (a *GainMoney) Do(w types.World) {
	w.SetMoney(a.Party, w.Money(a.Party)+a.Amount)
}

func (a *GainMoney) Reverse(w types.World) {
	w.SetMoney(a.Party, w.Money(a.Party)-a.Amount)
}

// SetSetting changes one of the level settings such as the objective text
type SetSetting struct {
	Key   string
	Value string

	old string
}

func (a *SetSetting) Do(w types.World) {
	a.old = w.Setting(a.Key)
	w.SetSetting(a.Key, a.Value)
}

func (a *SetSetting) Reverse(w types.World) {
	w.SetSetting(a.Key, a.old)
}

// SetFlag turns a keyed flag (talk pair, lore entry, market item, layer) on or off
type SetFlag struct {
	Set string
	Key string
	On  bool

	old bool
}

func (a *SetFlag) Do(w types.World) {
	a.old = w.Flag(a.Set, a.Key)
	w.SetFlag(a.Set, a.Key, a.On)
}

func (a *SetFlag) Reverse(w types.World) {
	w.SetFlag(a.Set, a.Key, a.old)
}

// UpdateUnit applies Mutate to a unit. Reverse restores the unit as it was
// before, so any combination of field changes is undoable.
type UpdateUnit struct {
	NID    string
	Mutate func(u *types.Unit)

	before *types.Unit
}

func (a *UpdateUnit) Do(w types.World) {
	u := w.Unit(a.NID)
	if u == nil {
		return
	}
	a.before = u.Clone()
	a.Mutate(u)
}

func (a *UpdateUnit) Reverse(w types.World) {
	if a.before == nil {
		return
	}
	if u := w.Unit(a.NID); u != nil {
		*u = *a.before.Clone()
	}
}

// MoveUnit places a unit on a tile, or takes it off the map when To is nil
type MoveUnit struct {
	NID string
	To  *types.Position

	from *types.Position
	done bool
}

func (a *MoveUnit) Do(w types.World) {
	u := w.Unit(a.NID)
	if u == nil {
		return
	}
	a.from = clonePos(u.Position)
	u.Position = clonePos(a.To)
	a.done = true
}

func (a *MoveUnit) Reverse(w types.World) {
	if !a.done {
		return
	}
	if u := w.Unit(a.NID); u != nil {
		u.Position = clonePos(a.from)
	}
}

func clonePos(p *types.Position) *types.Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ClaimItemUID records that the world handed out UID. Reversing it gives the
// uid back so a replay grants the same one.
type ClaimItemUID struct {
	UID int
}

func (a *ClaimItemUID) Do(w types.World) {
	if w.NextItemUID() <= a.UID {
		w.SetNextItemUID(a.UID + 1)
	}
}

func (a *ClaimItemUID) Reverse(w types.World) {
	w.SetNextItemUID(a.UID)
}

// SetConvoy replaces a party's convoy contents
type SetConvoy struct {
	Party string
	Items []*types.Item

	old []*types.Item
}

func (a *SetConvoy) Do(w types.World) {
	a.old = w.ConvoyItems(a.Party)
	w.SetConvoyItems(a.Party, a.Items)
}

func (a *SetConvoy) Reverse(w types.World) {
	w.SetConvoyItems(a.Party, a.old)
}

// AddRegion adds a region, replacing one with the same nid
type AddRegion struct {
	Region *types.Region

	replaced *types.Region
}

func (a *AddRegion) Do(w types.World) {
	a.replaced = w.Region(a.Region.NID)
	w.AddRegion(a.Region)
}

func (a *AddRegion) Reverse(w types.World) {
	w.RemoveRegion(a.Region.NID)
	if a.replaced != nil {
		w.AddRegion(a.replaced)
	}
}

// RemoveRegion removes a region by nid
type RemoveRegion struct {
	NID string

	removed *types.Region
}

func (a *RemoveRegion) Do(w types.World) {
	a.removed = w.Region(a.NID)
	w.RemoveRegion(a.NID)
}

func (a *RemoveRegion) Reverse(w types.World) {
	if a.removed != nil {
		w.AddRegion(a.removed)
	}
}

// SetRegionCondition replaces the trigger condition of a region
type SetRegionCondition struct {
	NID       string
	Condition string

	old string
}

func (a *SetRegionCondition) Do(w types.World) {
	r := w.Region(a.NID)
	if r == nil {
		return
	}
	a.old = r.Condition
	r.Condition = a.Condition
}

func (a *SetRegionCondition) Reverse(w types.World) {
	if r := w.Region(a.NID); r != nil {
		r.Condition = a.old
	}
}
