package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a map tile coordinate
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// ParsePosition parses "x,y"
func ParsePosition(s string) (Position, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Position{}, fmt.Errorf("position %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return Position{X: x, Y: y}, nil
}

// Distance is the manhattan distance between two tiles
func (p Position) Distance(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Item is one owned item instance
type Item struct {
	UID       int    `yaml:"uid"`
	NID       string `yaml:"nid"`
	Name      string `yaml:"name"`
	Uses      int    `yaml:"uses"` // -1 for unlimited
	Unlock    bool   `yaml:"unlock"`
	Droppable bool   `yaml:"droppable"`
}

// Clone returns a copy of the item
func (i *Item) Clone() *Item {
	c := *i
	return &c
}

// Unit is a world unit. Units are referenced by NID in scripts and saves.
type Unit struct {
	NID      string         `yaml:"nid"`
	Name     string         `yaml:"name"`
	Team     string         `yaml:"team"`
	AI       string         `yaml:"ai"`
	Portrait string         `yaml:"portrait"`
	Party    string         `yaml:"party"`
	Position *Position      `yaml:"position"`
	Start    *Position      `yaml:"start"` // default tile for add_unit
	HP       int            `yaml:"hp"`
	MaxHP    int            `yaml:"max_hp"`
	Level    int            `yaml:"level"`
	Exp      int            `yaml:"exp"`
	Stats    map[string]int `yaml:"stats"`
	Items    []*Item        `yaml:"items"`
	Skills   []string       `yaml:"skills"`
	Tags     []string       `yaml:"tags"`
	Dead     bool           `yaml:"dead"`
	Finished bool           `yaml:"finished"`
}

// OnMap reports whether the unit currently occupies a tile
func (u *Unit) OnMap() bool {
	return u.Position != nil && !u.Dead
}

// Clone deep-copies the unit
func (u *Unit) Clone() *Unit {
	c := *u
	if u.Position != nil {
		p := *u.Position
		c.Position = &p
	}
	if u.Start != nil {
		p := *u.Start
		c.Start = &p
	}
	c.Stats = nil
	if len(u.Stats) > 0 {
		c.Stats = make(map[string]int, len(u.Stats))
		for k, v := range u.Stats {
			c.Stats[k] = v
		}
	}
	c.Items = make([]*Item, len(u.Items))
	for i, it := range u.Items {
		c.Items[i] = it.Clone()
	}
	c.Skills = append([]string(nil), u.Skills...)
	c.Tags = append([]string(nil), u.Tags...)
	return &c
}

// Group is a named set of units with their default formation
type Group struct {
	NID       string              `yaml:"nid"`
	Units     []string            `yaml:"units"`
	Positions map[string]Position `yaml:"positions"`
}

// Region is a named rectangle of tiles
type Region struct {
	NID           string   `yaml:"nid"`
	Type          string   `yaml:"type"`
	Position      Position `yaml:"position"`
	Size          [2]int   `yaml:"size"`
	SubNID        string   `yaml:"sub_nid"`
	Condition     string   `yaml:"condition"`
	OnlyOnce      bool     `yaml:"only_once"`
	InterruptMove bool     `yaml:"interrupt_move"`
}

// Contains reports whether pos lies inside the region
func (r *Region) Contains(pos Position) bool {
	w, h := max(r.Size[0], 1), max(r.Size[1], 1)
	return pos.X >= r.Position.X && pos.X < r.Position.X+w &&
		pos.Y >= r.Position.Y && pos.Y < r.Position.Y+h
}

// Flag sets tracked by World.Flag
const (
	FlagTalk   = "talk"
	FlagLore   = "lore"
	FlagMarket = "market"
	FlagLayer  = "layer"
)

// Settings tracked by World.Setting
const (
	SettingTilemap         = "tilemap"
	SettingObjectiveSimple = "objective_simple"
	SettingObjectiveWin    = "objective_win"
	SettingObjectiveLoss   = "objective_loss"
	SettingNextChapter     = "next_chapter"
	SettingPhaseMusic      = "phase_music"
)

// World is the persistent world model commands mutate.
// Handlers read through it freely and write only through Actions.
type World interface {
	Unit(nid string) *Unit
	Units() []*Unit // deterministic order
	UnitAt(pos Position) *Unit
	RegisterUnit(u *Unit)
	UnregisterUnit(nid string)

	Group(nid string) *Group

	Region(nid string) *Region
	Regions() []*Region
	AddRegion(r *Region)
	RemoveRegion(nid string)

	NewItem(nid string) (*Item, error)
	NextItemUID() int
	SetNextItemUID(uid int)
	ConvoyItems(party string) []*Item
	SetConvoyItems(party string, items []*Item)

	GameVar(name string) (any, bool)
	SetGameVar(name string, value any)
	DeleteGameVar(name string)
	LevelVar(name string) (any, bool)
	SetLevelVar(name string, value any)
	DeleteLevelVar(name string)

	Money(party string) int
	SetMoney(party string, amount int)

	Flag(set, key string) bool
	SetFlag(set, key string, on bool)
	Setting(key string) string
	SetSetting(key, value string)

	Size() (width, height int)
	InBounds(pos Position) bool
	// OpenTilesNear returns the closest unoccupied tiles u could stand on,
	// all at the same distance from pos, in a deterministic order
	OpenTilesNear(pos Position, u *Unit) []Position
}
