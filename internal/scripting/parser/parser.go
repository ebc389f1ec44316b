// Package parser converts event script lines to commands and back.
//
// A line is `name;arg1;arg2;...;flagA;flagB`. A line starting with # is a
// comment. An argument such as `Eirika (the princess)` carries its true value
// inside the parentheses; the whole text is kept as the display value so the
// script serializes back unchanged.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"eventide/internal/log"
	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/validate"
)

const (
	Delimiter     = ";"
	CommentMarker = "#"
)

var (
	ErrEmptyLine      = errors.New("empty line")
	ErrUnknownCommand = errors.New("unknown command")
)

// LineError is a diagnostic for a line dropped by ParseScript
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parser binds script text to the schemas of one catalog
type Parser struct {
	catalog    *catalog.Catalog
	validators *validate.Set
}

// Option configures a Parser
type Option func(*Parser)

// WithValidators rejects lines whose arguments fail their keyword validator
func WithValidators(v *validate.Set) Option {
	return func(p *Parser) {
		p.validators = v
	}
}

// New creates a parser for the given catalog
func New(cat *catalog.Catalog, opts ...Option) *Parser {
	p := &Parser{catalog: cat}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the catalog the parser resolves names against
func (p *Parser) Catalog() *catalog.Catalog {
	return p.catalog
}

// ParseLine parses one line of script
func (p *Parser) ParseLine(text string) (*types.Command, error) {
	line := strings.TrimSpace(text)
	if line == "" {
		return nil, ErrEmptyLine
	}
	if strings.HasPrefix(line, CommentMarker) {
		return types.NewCommand(types.CommentID, line), nil
	}

	parts := strings.Split(line, Delimiter)
	schema, ok := p.catalog.Lookup(strings.TrimSpace(parts[0]))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
	if schema.ID == types.CommentID {
		return types.NewCommand(types.CommentID, line), nil
	}

	args := parts[1:]
	values := make([]string, len(args))
	display := make([]string, len(args))
	split := false
	for i, arg := range args {
		display[i] = arg
		values[i] = arg
		keyword := schema.KeywordAt(i)
		if schema.IsVerbatim(keyword) {
			continue
		}
		if inner, ok := trueValue(arg); ok {
			values[i] = inner
			split = true
		}
		if p.validators != nil {
			if i >= len(schema.Keywords) && schema.HasFlag(values[i]) {
				continue
			}
			if err := p.validators.Validate(keyword, values[i]); err != nil {
				return nil, fmt.Errorf("%s: %w", schema.ID, err)
			}
		}
	}

	cmd := &types.Command{ID: schema.ID, Values: values}
	if split {
		cmd.DisplayValues = display
	}
	return cmd, nil
}

// trueValue extracts the text between the first ( and the last ) of an
// argument, wherever they sit: `x (y)` and `x (y) z` both yield y
func trueValue(arg string) (string, bool) {
	open := strings.Index(arg, "(")
	if open < 0 {
		return "", false
	}
	end := strings.LastIndex(arg, ")")
	if end < open {
		return "", false
	}
	return arg[open+1 : end], true
}

// Serialize renders a command back to script text
func (p *Parser) Serialize(cmd *types.Command) string {
	return Serialize(cmd)
}

// Serialize renders a command back to script text. It is the left inverse
// of ParseLine.
func Serialize(cmd *types.Command) string {
	if cmd.IsComment() {
		return cmd.Value(0)
	}
	var b strings.Builder
	b.WriteString(cmd.ID)
	for _, v := range cmd.Display() {
		b.WriteString(Delimiter)
		b.WriteString(v)
	}
	return b.String()
}

// SerializeScript renders commands one per line
func SerializeScript(cmds []*types.Command) string {
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = Serialize(c)
	}
	return strings.Join(lines, "\n")
}

// ParseScript parses a whole script. Blank lines are ignored; lines that
// fail to parse are dropped and reported, the rest of the script is kept.
func (p *Parser) ParseScript(source string) ([]*types.Command, []error) {
	var cmds []*types.Command
	var errs []error
	for i, line := range strings.Split(source, "\n") {
		cmd, err := p.ParseLine(line)
		if errors.Is(err, ErrEmptyLine) {
			continue
		}
		if err != nil {
			lineErr := &LineError{Line: i + 1, Text: strings.TrimSpace(line), Err: err}
			log.Warn("dropping script line", "line", i+1, "text", lineErr.Text, "error", err)
			errs = append(errs, lineErr)
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, errs
}

// Parse binds a command's true values to its schema's keywords. Values past
// the required keywords that name a declared flag become flags; the rest
// fill the optional keywords in order.
func (p *Parser) Parse(cmd *types.Command) (*types.Args, error) {
	schema, ok := p.catalog.Lookup(cmd.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.ID)
	}
	return Bind(schema, cmd), nil
}

// Bind is Parse for a known schema
func Bind(schema *types.CommandSchema, cmd *types.Command) *types.Args {
	args := &types.Args{
		Schema: schema,
		Values: make([]string, schema.Arity()),
		Flags:  map[string]bool{},
	}
	required := len(schema.Keywords)
	for i := 0; i < required && i < len(cmd.Values); i++ {
		args.Values[i] = cmd.Values[i]
	}
	slot := required
	for i := required; i < len(cmd.Values); i++ {
		v := cmd.Values[i]
		if schema.HasFlag(v) {
			args.Flags[v] = true
			continue
		}
		if slot < len(args.Values) {
			args.Values[slot] = v
			slot++
			continue
		}
		args.Extra = append(args.Extra, v)
	}
	return args
}
