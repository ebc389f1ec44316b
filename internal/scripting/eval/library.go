package eval

import (
	"slices"

	"github.com/Shopify/go-lua"

	"eventide/internal/scripting/types"
)

// registerHelpers exposes read-only world queries to expressions
func (e *LuaEvaluator) registerHelpers() {
	l := e.state

	l.Register("game_var", func(l *lua.State) int {
		v, ok := e.world(l).GameVar(lua.CheckString(l, 1))
		if !ok {
			l.PushNil()
			return 1
		}
		pushAny(l, v)
		return 1
	})
	l.Register("level_var", func(l *lua.State) int {
		v, ok := e.world(l).LevelVar(lua.CheckString(l, 1))
		if !ok {
			l.PushNil()
			return 1
		}
		pushAny(l, v)
		return 1
	})
	l.Register("unit_exists", func(l *lua.State) int {
		l.PushBoolean(e.unit(l, 1) != nil)
		return 1
	})
	l.Register("unit_alive", func(l *lua.State) int {
		u := e.unit(l, 1)
		l.PushBoolean(u != nil && !u.Dead)
		return 1
	})
	l.Register("unit_on_map", func(l *lua.State) int {
		u := e.unit(l, 1)
		l.PushBoolean(u != nil && u.OnMap())
		return 1
	})
	l.Register("unit_team", func(l *lua.State) int {
		if u := e.unit(l, 1); u != nil {
			l.PushString(u.Team)
		} else {
			l.PushNil()
		}
		return 1
	})
	l.Register("unit_hp", func(l *lua.State) int {
		if u := e.unit(l, 1); u != nil {
			l.PushInteger(u.HP)
		} else {
			l.PushNil()
		}
		return 1
	})
	l.Register("unit_level", func(l *lua.State) int {
		if u := e.unit(l, 1); u != nil {
			l.PushInteger(u.Level)
		} else {
			l.PushNil()
		}
		return 1
	})
	l.Register("unit_stat", func(l *lua.State) int {
		u := e.unit(l, 1)
		stat := lua.CheckString(l, 2)
		if u == nil {
			l.PushNil()
			return 1
		}
		l.PushInteger(u.Stats[stat])
		return 1
	})
	l.Register("has_item", func(l *lua.State) int {
		u := e.unit(l, 1)
		nid := lua.CheckString(l, 2)
		found := false
		if u != nil {
			found = slices.ContainsFunc(u.Items, func(it *types.Item) bool { return it.NID == nid })
		}
		l.PushBoolean(found)
		return 1
	})
	l.Register("has_skill", func(l *lua.State) int {
		u := e.unit(l, 1)
		skill := lua.CheckString(l, 2)
		l.PushBoolean(u != nil && slices.Contains(u.Skills, skill))
		return 1
	})
	l.Register("has_tag", func(l *lua.State) int {
		u := e.unit(l, 1)
		tag := lua.CheckString(l, 2)
		l.PushBoolean(u != nil && slices.Contains(u.Tags, tag))
		return 1
	})
	l.Register("unit_at", func(l *lua.State) int {
		pos := types.Position{X: lua.CheckInteger(l, 1), Y: lua.CheckInteger(l, 2)}
		if u := e.world(l).UnitAt(pos); u != nil {
			l.PushString(u.NID)
		} else {
			l.PushNil()
		}
		return 1
	})
	l.Register("money", func(l *lua.State) int {
		l.PushInteger(e.world(l).Money(lua.OptString(l, 1, "")))
		return 1
	})
	l.Register("region_exists", func(l *lua.State) int {
		l.PushBoolean(e.world(l).Region(lua.CheckString(l, 1)) != nil)
		return 1
	})
	l.Register("setting", func(l *lua.State) int {
		pushString(l, e.world(l).Setting(lua.CheckString(l, 1)))
		return 1
	})
}

func (e *LuaEvaluator) world(l *lua.State) types.World {
	if e.ctx.World == nil {
		lua.Errorf(l, "no world bound to expression")
	}
	return e.ctx.World
}

// unit resolves the nid argument at idx. A nil argument yields nil so that
// `unit_alive(unit2)` is false rather than an error when unit2 is unset.
func (e *LuaEvaluator) unit(l *lua.State, idx int) *types.Unit {
	w := e.world(l)
	if l.IsNoneOrNil(idx) {
		return nil
	}
	return w.Unit(lua.CheckString(l, idx))
}
