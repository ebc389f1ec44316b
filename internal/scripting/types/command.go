package types

import (
	"slices"
	"strings"
)

// Category groups command schemas for editor tooling
type Category string

const (
	CategoryFlow      Category = "Flow Control"
	CategoryAudio     Category = "Music/Sound"
	CategoryPortrait  Category = "Portrait"
	CategoryDialogue  Category = "Dialogue/Text"
	CategoryScene     Category = "Background/Foreground"
	CategoryCursor    Category = "Cursor/Camera"
	CategoryVariables Category = "Game-Wide Unlocks/Variables"
	CategoryUnits     Category = "Modifying Units"
	CategoryMap       Category = "Modifying the Map"
	CategoryMisc      Category = "Additional/Miscellaneous"
	CategoryHidden    Category = "Hidden"
)

// CommentID is the schema id of full-line comments. Comments are never dispatched.
const CommentID = "comment"

// UnlabeledKeyword names an argument past every declared keyword
const UnlabeledKeyword = "N/A"

// Keywords whose argument text is always taken verbatim
var alwaysVerbatim = []string{"Condition", "Expression"}

// CommandSchema declares the shape of one command kind
type CommandSchema struct {
	ID          string
	Alias       string
	Category    Category
	Keywords    []string // required, in positional order
	Optional    []string // optional, in positional order after Keywords
	Flags       []string
	Verbatim    []string // keywords exempt from parenthetical true-value splitting
	Description string
}

// KeywordAt returns the keyword bound to positional argument idx
func (s *CommandSchema) KeywordAt(idx int) string {
	if idx < len(s.Keywords) {
		return s.Keywords[idx]
	}
	idx -= len(s.Keywords)
	if idx < len(s.Optional) {
		return s.Optional[idx]
	}
	return UnlabeledKeyword
}

// IsVerbatim reports whether arguments bound to keyword keep their full text
func (s *CommandSchema) IsVerbatim(keyword string) bool {
	return slices.Contains(alwaysVerbatim, keyword) || slices.Contains(s.Verbatim, keyword)
}

// HasFlag reports whether name is a declared flag
func (s *CommandSchema) HasFlag(name string) bool {
	return slices.Contains(s.Flags, name)
}

// Arity is the number of positional slots (required plus optional)
func (s *CommandSchema) Arity() int {
	return len(s.Keywords) + len(s.Optional)
}

// Command is one parsed instruction bound to a schema id.
// DisplayValues keeps the authored text of each argument and is nil when
// identical to Values.
type Command struct {
	ID            string
	Values        []string
	DisplayValues []string
}

// NewCommand builds a command whose display text equals its values
func NewCommand(id string, values ...string) *Command {
	return &Command{ID: id, Values: values}
}

// Display returns the values used for serialization
func (c *Command) Display() []string {
	if c.DisplayValues != nil {
		return c.DisplayValues
	}
	return c.Values
}

// IsComment reports whether the command is an opaque comment
func (c *Command) IsComment() bool {
	return c.ID == CommentID
}

// Value returns the true value at idx or "" when absent
func (c *Command) Value(idx int) string {
	if idx < 0 || idx >= len(c.Values) {
		return ""
	}
	return c.Values[idx]
}

// Equal compares id, true values and display values
func (c *Command) Equal(o *Command) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID == o.ID && slices.Equal(c.Values, o.Values) && slices.Equal(c.Display(), o.Display())
}

// String renders the command in script syntax for diagnostics
func (c *Command) String() string {
	if c.IsComment() {
		return c.Value(0)
	}
	return strings.Join(append([]string{c.ID}, c.Display()...), ";")
}

// Args is the keyword-bound view of a command's true values
type Args struct {
	Schema *CommandSchema
	Values []string // len == Schema.Arity(), missing slots are ""
	Extra  []string // unlabeled values past every keyword
	Flags  map[string]bool
}

// Get returns the value bound to keyword or "" when the keyword is unknown or unset
func (a *Args) Get(keyword string) string {
	if idx := slices.Index(a.Schema.Keywords, keyword); idx >= 0 {
		return a.Values[idx]
	}
	if idx := slices.Index(a.Schema.Optional, keyword); idx >= 0 {
		return a.Values[len(a.Schema.Keywords)+idx]
	}
	return ""
}

// At returns the positional value at idx or ""
func (a *Args) At(idx int) string {
	if idx < 0 || idx >= len(a.Values) {
		return ""
	}
	return a.Values[idx]
}

// Has reports whether keyword has a non-empty value
func (a *Args) Has(keyword string) bool {
	return a.Get(keyword) != ""
}

// Flag reports whether the flag was given
func (a *Args) Flag(name string) bool {
	return a.Flags[name]
}
