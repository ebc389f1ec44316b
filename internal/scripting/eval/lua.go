// Package eval evaluates the expressions embedded in event scripts. The
// expression language is Lua; the world and the event context are exposed
// as globals and helper functions.
package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"

	"eventide/internal/scripting/types"
)

var (
	ErrSyntax = errors.New("expression syntax error")
	ErrRun    = errors.New("expression failed")
	ErrType   = errors.New("unsupported expression result")
)

// LuaEvaluator evaluates expressions in one reusable Lua state. It is not
// safe for concurrent use; the interpreter only ever evaluates from the
// single stepping context.
type LuaEvaluator struct {
	state *lua.State
	ctx   types.EvalContext
}

// NewLuaEvaluator creates an evaluator with the helper library registered
func NewLuaEvaluator() *LuaEvaluator {
	l := lua.NewState()
	lua.OpenLibraries(l)
	e := &LuaEvaluator{state: l}
	e.registerHelpers()
	return e
}

// Evaluate returns the value of expr as nil, bool, int, float64 or string
func (e *LuaEvaluator) Evaluate(expr string, ctx types.EvalContext) (any, error) {
	l := e.state
	e.ctx = ctx
	defer func() { e.ctx = types.EvalContext{} }()

	top := l.Top()
	defer l.SetTop(top)

	e.bindContext()
	if err := lua.LoadString(l, "return "+expr); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, expr, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRun, expr, err)
	}
	return toGo(l, -1)
}

func (e *LuaEvaluator) bindContext() {
	l := e.state
	ev := e.ctx.Event
	pushString(l, ev.Unit)
	l.SetGlobal("unit")
	pushString(l, ev.Unit2)
	l.SetGlobal("unit2")
	pushString(l, ev.Region)
	l.SetGlobal("region")
	if ev.ItemUID != 0 {
		l.PushInteger(ev.ItemUID)
	} else {
		l.PushNil()
	}
	l.SetGlobal("item")
	if ev.Position != nil {
		l.NewTable()
		l.PushInteger(ev.Position.X)
		l.SetField(-2, "x")
		l.PushInteger(ev.Position.Y)
		l.SetField(-2, "y")
	} else {
		l.PushNil()
	}
	l.SetGlobal("position")
}

func pushString(l *lua.State, s string) {
	if s == "" {
		l.PushNil()
		return
	}
	l.PushString(s)
}

func pushAny(l *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(x)
	case int:
		l.PushInteger(x)
	case int64:
		l.PushNumber(float64(x))
	case float64:
		l.PushNumber(x)
	case string:
		l.PushString(x)
	default:
		l.PushString(fmt.Sprint(x))
	}
}

func toGo(l *lua.State, idx int) (any, error) {
	switch l.TypeOf(idx) {
	case lua.TypeNil, lua.TypeNone:
		return nil, nil
	case lua.TypeBoolean:
		return l.ToBoolean(idx), nil
	case lua.TypeNumber:
		n, _ := l.ToNumber(idx)
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int(n), nil
		}
		return n, nil
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrType, lua.TypeNameOf(l, idx))
}

// Truthy is the condition rule for scripts: nil, false, zero and the empty
// string are false, everything else is true
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	return true
}
