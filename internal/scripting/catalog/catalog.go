// Package catalog holds the registry of command schemas. A Catalog is built
// once at startup and handed to the parser and the dispatcher; it is never
// mutated afterwards.
package catalog

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"

	"eventide/internal/scripting/types"
)

var ErrDuplicate = errors.New("duplicate command schema")

// Catalog is an immutable set of command schemas
type Catalog struct {
	schemas []*types.CommandSchema
	byKey   map[string]*types.CommandSchema
}

// New registers schemas in order. Ids and aliases share one namespace.
func New(schemas ...*types.CommandSchema) (*Catalog, error) {
	c := &Catalog{
		schemas: make([]*types.CommandSchema, 0, len(schemas)),
		byKey:   make(map[string]*types.CommandSchema, len(schemas)*2),
	}
	for _, s := range schemas {
		if s.ID == "" {
			return nil, fmt.Errorf("schema with empty id")
		}
		for _, key := range []string{s.ID, s.Alias} {
			if key == "" {
				continue
			}
			folded := fold(key)
			if prev, ok := c.byKey[folded]; ok {
				return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicate, key, prev.ID, s.ID)
			}
			c.byKey[folded] = s
		}
		c.schemas = append(c.schemas, s)
	}
	return c, nil
}

// Standard builds the catalog of every command the interpreter dispatches
func Standard() *Catalog {
	var all []*types.CommandSchema
	all = append(all, flowSchemas...)
	all = append(all, audioSchemas...)
	all = append(all, portraitSchemas...)
	all = append(all, dialogueSchemas...)
	all = append(all, sceneSchemas...)
	all = append(all, variableSchemas...)
	all = append(all, unitSchemas...)
	all = append(all, mapSchemas...)
	all = append(all, miscSchemas...)
	c, err := New(all...)
	if err != nil {
		panic(fmt.Sprintf("standard catalog: %v", err))
	}
	return c
}

// Lookup resolves a command id or alias, ignoring case
func (c *Catalog) Lookup(idOrAlias string) (*types.CommandSchema, bool) {
	s, ok := c.byKey[fold(idOrAlias)]
	return s, ok
}

// All returns every schema in declaration order. Used by editor tooling,
// not by the interpreter.
func (c *Catalog) All() []*types.CommandSchema {
	out := make([]*types.CommandSchema, len(c.schemas))
	copy(out, c.schemas)
	return out
}

// Len returns the number of schemas
func (c *Catalog) Len() int {
	return len(c.schemas)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
