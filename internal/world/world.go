// Package world is the in-memory world model used by the console host and
// the tests: units, groups, regions, inventory, variables and the map grid.
package world

import (
	"fmt"
	"sort"

	"eventide/internal/scripting/types"
)

// World implements types.World. It is not safe for concurrent use.
type World struct {
	width, height int
	blocked       map[types.Position]bool
	grid          *grid

	items   map[string]ItemDef
	nextUID int

	units     map[string]*types.Unit
	unitOrder []string
	groups    map[string]*types.Group
	regions   map[string]*types.Region

	convoy    map[string][]*types.Item
	gameVars  map[string]any
	levelVars map[string]any
	money     map[string]int
	flags     map[string]map[string]bool
	settings  map[string]string
}

var _ types.World = (*World)(nil)

// New builds a world from a fixture. The fixture is copied.
func New(f *Fixture) (*World, error) {
	if f.Map.Width <= 0 || f.Map.Height <= 0 {
		return nil, fmt.Errorf("map size %dx%d must be positive", f.Map.Width, f.Map.Height)
	}
	w := &World{
		width:     f.Map.Width,
		height:    f.Map.Height,
		blocked:   map[types.Position]bool{},
		items:     map[string]ItemDef{},
		nextUID:   max(f.NextUID, 1),
		units:     map[string]*types.Unit{},
		groups:    map[string]*types.Group{},
		regions:   map[string]*types.Region{},
		convoy:    map[string][]*types.Item{},
		gameVars:  copyVars(f.GameVars),
		levelVars: copyVars(f.LevelVars),
		money:     map[string]int{},
		flags:     map[string]map[string]bool{},
		settings:  map[string]string{},
	}
	for _, p := range f.Map.Blocked {
		w.blocked[p] = true
	}
	gr, err := newGrid(w.width, w.height, w.blocked)
	if err != nil {
		return nil, fmt.Errorf("build map grid: %w", err)
	}
	w.grid = gr

	for _, def := range f.Items {
		if _, dup := w.items[def.NID]; dup {
			return nil, fmt.Errorf("duplicate item %q", def.NID)
		}
		w.items[def.NID] = def
	}
	for _, u := range f.Units {
		if _, dup := w.units[u.NID]; dup {
			return nil, fmt.Errorf("duplicate unit %q", u.NID)
		}
		c := u.Clone()
		if c.MaxHP == 0 {
			c.MaxHP = c.HP
		}
		for _, it := range c.Items {
			w.claimUID(it)
		}
		w.RegisterUnit(c)
	}
	for _, g := range f.Groups {
		w.groups[g.NID] = cloneGroup(g)
	}
	for _, r := range f.Regions {
		c := *r
		w.regions[r.NID] = &c
	}
	for party, items := range f.Convoy {
		w.convoy[party] = cloneItems(items)
		for _, it := range w.convoy[party] {
			w.claimUID(it)
		}
	}
	for k, v := range f.Money {
		w.money[k] = v
	}
	for set, keys := range f.Flags {
		for k, on := range keys {
			w.SetFlag(set, k, on)
		}
	}
	for k, v := range f.Settings {
		w.settings[k] = v
	}
	return w, nil
}

// claimUID assigns a uid to authored items without one and keeps nextUID ahead
func (w *World) claimUID(it *types.Item) {
	if it.UID == 0 {
		it.UID = w.nextUID
	}
	if it.UID >= w.nextUID {
		w.nextUID = it.UID + 1
	}
}

// Clone returns an independent copy of the world
func (w *World) Clone() *World {
	c, err := New(w.Export())
	if err != nil {
		// Export of a valid world always rebuilds
		panic(fmt.Sprintf("clone world: %v", err))
	}
	return c
}

func (w *World) Unit(nid string) *types.Unit {
	return w.units[nid]
}

// Units returns every unit in registration order
func (w *World) Units() []*types.Unit {
	out := make([]*types.Unit, 0, len(w.unitOrder))
	for _, nid := range w.unitOrder {
		out = append(out, w.units[nid])
	}
	return out
}

// UnitAt returns the first unit standing on pos
func (w *World) UnitAt(pos types.Position) *types.Unit {
	for _, nid := range w.unitOrder {
		u := w.units[nid]
		if u.OnMap() && *u.Position == pos {
			return u
		}
	}
	return nil
}

func (w *World) RegisterUnit(u *types.Unit) {
	if _, ok := w.units[u.NID]; !ok {
		w.unitOrder = append(w.unitOrder, u.NID)
	}
	w.units[u.NID] = u
}

func (w *World) UnregisterUnit(nid string) {
	if _, ok := w.units[nid]; !ok {
		return
	}
	delete(w.units, nid)
	for i, n := range w.unitOrder {
		if n == nid {
			w.unitOrder = append(w.unitOrder[:i], w.unitOrder[i+1:]...)
			break
		}
	}
}

func (w *World) Group(nid string) *types.Group {
	return w.groups[nid]
}

func (w *World) Region(nid string) *types.Region {
	return w.regions[nid]
}

// Regions returns every region sorted by nid
func (w *World) Regions() []*types.Region {
	out := make([]*types.Region, 0, len(w.regions))
	for _, nid := range sortedKeys(w.regions) {
		out = append(out, w.regions[nid])
	}
	return out
}

func (w *World) AddRegion(r *types.Region) {
	w.regions[r.NID] = r
}

func (w *World) RemoveRegion(nid string) {
	delete(w.regions, nid)
}

// RegionsAt returns the regions covering pos
func (w *World) RegionsAt(pos types.Position) []*types.Region {
	var out []*types.Region
	for _, r := range w.Regions() {
		if r.Contains(pos) {
			out = append(out, r)
		}
	}
	return out
}

// NewItem creates an instance of the item template nid with a fresh uid
func (w *World) NewItem(nid string) (*types.Item, error) {
	def, ok := w.items[nid]
	if !ok {
		return nil, fmt.Errorf("no item template %q", nid)
	}
	it := &types.Item{UID: w.nextUID, NID: def.NID, Name: def.Name, Uses: def.Uses, Unlock: def.Unlock}
	w.nextUID++
	return it, nil
}

// NextItemUID returns the uid the next NewItem will hand out
func (w *World) NextItemUID() int {
	return w.nextUID
}

// SetNextItemUID moves the uid counter, used when an item grant is undone
func (w *World) SetNextItemUID(uid int) {
	w.nextUID = max(uid, 1)
}

func (w *World) ConvoyItems(party string) []*types.Item {
	return w.convoy[party]
}

func (w *World) SetConvoyItems(party string, items []*types.Item) {
	if len(items) == 0 {
		delete(w.convoy, party)
		return
	}
	w.convoy[party] = items
}

func (w *World) GameVar(name string) (any, bool) {
	v, ok := w.gameVars[name]
	return v, ok
}

func (w *World) SetGameVar(name string, value any) {
	w.gameVars[name] = value
}

func (w *World) DeleteGameVar(name string) {
	delete(w.gameVars, name)
}

func (w *World) LevelVar(name string) (any, bool) {
	v, ok := w.levelVars[name]
	return v, ok
}

func (w *World) SetLevelVar(name string, value any) {
	w.levelVars[name] = value
}

func (w *World) DeleteLevelVar(name string) {
	delete(w.levelVars, name)
}

// ClearLevelVars drops every level variable at the end of a chapter
func (w *World) ClearLevelVars() {
	w.levelVars = map[string]any{}
}

func (w *World) Money(party string) int {
	return w.money[party]
}

func (w *World) SetMoney(party string, amount int) {
	if amount == 0 {
		delete(w.money, party)
		return
	}
	w.money[party] = amount
}

func (w *World) Flag(set, key string) bool {
	return w.flags[set][key]
}

func (w *World) SetFlag(set, key string, on bool) {
	if !on {
		delete(w.flags[set], key)
		if len(w.flags[set]) == 0 {
			delete(w.flags, set)
		}
		return
	}
	if w.flags[set] == nil {
		w.flags[set] = map[string]bool{}
	}
	w.flags[set][key] = true
}

// FlagKeys returns the keys set in a flag set, sorted
func (w *World) FlagKeys(set string) []string {
	keys := sortedKeys(w.flags[set])
	return keys
}

func (w *World) Setting(key string) string {
	return w.settings[key]
}

// SetSetting sets a level setting. An empty value unsets it.
func (w *World) SetSetting(key, value string) {
	if value == "" {
		delete(w.settings, key)
		return
	}
	w.settings[key] = value
}

func (w *World) Size() (int, int) {
	return w.width, w.height
}

func (w *World) InBounds(pos types.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < w.width && pos.Y < w.height
}

// OpenTilesNear returns the free tiles closest to pos by walking distance
func (w *World) OpenTilesNear(pos types.Position, u *types.Unit) []types.Position {
	if !w.InBounds(pos) {
		return nil
	}
	return w.grid.nearest(pos, func(p types.Position) bool {
		other := w.UnitAt(p)
		return other == nil || (u != nil && other.NID == u.NID)
	})
}

// sortPositions orders tiles by row then column
func sortPositions(ps []types.Position) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Y < ps[j].Y || (ps[i].Y == ps[j].Y && ps[i].X < ps[j].X)
	})
}
