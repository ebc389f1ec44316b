package world

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"eventide/internal/scripting/types"
)

// ItemDef is an item template instances are created from
type ItemDef struct {
	NID    string `yaml:"nid"`
	Name   string `yaml:"name"`
	Uses   int    `yaml:"uses"`
	Unlock bool   `yaml:"unlock"`
}

// MapDef is the size and impassable tiles of the current map
type MapDef struct {
	Width   int              `yaml:"width"`
	Height  int              `yaml:"height"`
	Blocked []types.Position `yaml:"blocked"`
}

// Fixture is the YAML form of a world. It is both the authored starting
// state and the saved state.
type Fixture struct {
	Map       MapDef                     `yaml:"map"`
	Items     []ItemDef                  `yaml:"items"`
	Units     []*types.Unit              `yaml:"units"`
	Groups    []*types.Group             `yaml:"groups"`
	Regions   []*types.Region            `yaml:"regions"`
	Convoy    map[string][]*types.Item   `yaml:"convoy,omitempty"`
	GameVars  map[string]any             `yaml:"game_vars,omitempty"`
	LevelVars map[string]any             `yaml:"level_vars,omitempty"`
	Money     map[string]int             `yaml:"money,omitempty"`
	Flags     map[string]map[string]bool `yaml:"flags,omitempty"`
	Settings  map[string]string          `yaml:"settings,omitempty"`
	NextUID   int                        `yaml:"next_uid,omitempty"`
}

// Load reads a world fixture file
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world %s: %w", path, err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", path, err)
	}
	return w, nil
}

// Parse decodes a YAML fixture
func Parse(data []byte) (*World, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}
	return New(&f)
}

// Marshal encodes the world's current state as a fixture
func (w *World) Marshal() ([]byte, error) {
	return yaml.Marshal(w.Export())
}

// Export returns a deep copy of the world's state
func (w *World) Export() *Fixture {
	f := &Fixture{
		Map:       MapDef{Width: w.width, Height: w.height},
		Convoy:    map[string][]*types.Item{},
		GameVars:  copyVars(w.gameVars),
		LevelVars: copyVars(w.levelVars),
		Money:     map[string]int{},
		Flags:     map[string]map[string]bool{},
		Settings:  map[string]string{},
		NextUID:   w.nextUID,
	}
	for p := range w.blocked {
		f.Map.Blocked = append(f.Map.Blocked, p)
	}
	sortPositions(f.Map.Blocked)
	for _, nid := range sortedKeys(w.items) {
		f.Items = append(f.Items, w.items[nid])
	}
	for _, u := range w.Units() {
		f.Units = append(f.Units, u.Clone())
	}
	for _, nid := range sortedKeys(w.groups) {
		f.Groups = append(f.Groups, cloneGroup(w.groups[nid]))
	}
	for _, r := range w.Regions() {
		c := *r
		f.Regions = append(f.Regions, &c)
	}
	for party, items := range w.convoy {
		f.Convoy[party] = cloneItems(items)
	}
	for k, v := range w.money {
		f.Money[k] = v
	}
	for set, keys := range w.flags {
		f.Flags[set] = map[string]bool{}
		for k, v := range keys {
			f.Flags[set][k] = v
		}
	}
	for k, v := range w.settings {
		f.Settings[k] = v
	}
	return f
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyVars(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneItems(items []*types.Item) []*types.Item {
	out := make([]*types.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneGroup(g *types.Group) *types.Group {
	c := &types.Group{NID: g.NID, Units: append([]string(nil), g.Units...), Positions: map[string]types.Position{}}
	for k, v := range g.Positions {
		c.Positions[k] = v
	}
	return c
}
