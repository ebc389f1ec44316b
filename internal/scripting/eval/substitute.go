package eval

import (
	"fmt"
	"strconv"
	"strings"

	"eventide/internal/log"
	"eventide/internal/scripting/types"
)

// Unknown replaces a template that could not be expanded
const Unknown = "??"

const (
	evalPrefix = "eval:"
	varPrefix  = "var:"
)

// Substitute expands {eval:expr}, {var:name}, {unit} and {unit2} in text.
// Braces that do not form one of these templates are left alone.
func Substitute(text string, ev types.Evaluator, ctx types.EvalContext) string {
	if !strings.Contains(text, "{") {
		return text
	}
	var b strings.Builder
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			b.WriteString(text)
			break
		}
		closing := matchBrace(text, open)
		if closing < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:open])
		inner := text[open+1 : closing]
		if out, ok := expand(inner, ev, ctx); ok {
			b.WriteString(out)
		} else {
			b.WriteString(text[open : closing+1])
		}
		text = text[closing+1:]
	}
	return b.String()
}

// matchBrace returns the index of the brace closing the one at open, counting
// nested braces so Lua table constructors survive inside {eval:...}
func matchBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func expand(inner string, ev types.Evaluator, ctx types.EvalContext) (string, bool) {
	switch {
	case strings.HasPrefix(inner, evalPrefix):
		expr := inner[len(evalPrefix):]
		if ev == nil {
			return Unknown, true
		}
		v, err := ev.Evaluate(expr, ctx)
		if err != nil {
			log.Warn("text substitution failed", "expression", expr, "error", err)
			return Unknown, true
		}
		return Format(v), true
	case strings.HasPrefix(inner, varPrefix):
		name := inner[len(varPrefix):]
		if ctx.World == nil {
			return Unknown, true
		}
		if v, ok := ctx.World.GameVar(name); ok {
			return Format(v), true
		}
		if v, ok := ctx.World.LevelVar(name); ok {
			return Format(v), true
		}
		log.Warn("text substitution of unknown variable", "name", name)
		return Unknown, true
	case "{"+inner+"}" == types.RefUnit:
		return unitName(ctx, ctx.Event.Unit), true
	case "{"+inner+"}" == types.RefUnit2:
		return unitName(ctx, ctx.Event.Unit2), true
	}
	return "", false
}

func unitName(ctx types.EvalContext, nid string) string {
	if nid == "" {
		return Unknown
	}
	if ctx.World != nil {
		if u := ctx.World.Unit(nid); u != nil && u.Name != "" {
			return u.Name
		}
	}
	return nid
}

// Format renders an evaluated value for display
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return Unknown
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
