package mock

import (
	"context"
	"fmt"
	"strings"
)

// SelectorKind distinguishes what a Selector addresses.
type SelectorKind int

const (
	// SelectorType addresses every value of a named type.
	SelectorType SelectorKind = iota + 1
	// SelectorRoot addresses one field of a root operation type.
	SelectorRoot
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorType:
		return "type"
	case SelectorRoot:
		return "root"
	}
	return fmt.Sprintf("SelectorKind(%d)", int(k))
}

// Selector identifies the target of an override. Field is set for root
// selectors, and for type selectors when the value came from an entry of
// that type's object map.
type Selector struct {
	Kind  SelectorKind
	Type  string
	Field string
}

// TypeSelector addresses the named type.
func TypeSelector(name string) Selector {
	return Selector{Kind: SelectorType, Type: name}
}

// RootSelector addresses field on the root operation type rootType.
func RootSelector(rootType, field string) Selector {
	return Selector{Kind: SelectorRoot, Type: rootType, Field: field}
}

// ParseSelector parses "Type" into a type selector and "Root.field" into a
// root selector.
func ParseSelector(s string) (Selector, error) {
	typ, field, ok := strings.Cut(strings.TrimSpace(s), ".")
	if typ == "" || (ok && field == "") || strings.Contains(field, ".") {
		return Selector{}, fmt.Errorf("invalid selector %q", s)
	}
	if ok {
		return RootSelector(typ, field), nil
	}
	return TypeSelector(typ), nil
}

func (s Selector) String() string {
	if s.Field == "" {
		return s.Type
	}
	return s.Type + "." + s.Field
}

// Generator fabricates a value. parent is the value of the enclosing
// object (a map for mocked objects) and args holds the coerced field
// arguments.
type Generator func(ctx context.Context, parent any, args map[string]any) (any, error)

// Value returns a Generator that always yields v.
func Value(v any) Generator {
	return func(context.Context, any, map[string]any) (any, error) { return v, nil }
}

// RootGenerator produces a map of per-field values or generators for one
// root operation type.
type RootGenerator func(ctx context.Context) (map[string]any, error)

// List is a generator result for list types: Len elements, each produced by
// Item or by default resolution when Item is nil.
type List struct {
	Len  int
	Item Generator
}

// Rules is a set of overrides. The zero value is not usable; call NewRules.
// A nil *Rules is treated as empty.
type Rules struct {
	generators map[Selector]Generator
	roots      map[string]RootGenerator
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{
		generators: make(map[Selector]Generator),
		roots:      make(map[string]RootGenerator),
	}
}

// Type overrides every value of the named type.
func (r *Rules) Type(name string, g Generator) *Rules {
	return r.Set(TypeSelector(name), g)
}

// Field overrides one field of a root operation type.
func (r *Rules) Field(rootType, field string, g Generator) *Rules {
	return r.Set(RootSelector(rootType, field), g)
}

// Root registers a generator for the whole root type rootType. Entries of
// the returned map supply values or generators for its fields; fields
// missing from the map fall back to type and built-in generators.
func (r *Rules) Root(rootType string, g RootGenerator) *Rules {
	r.roots[rootType] = g
	return r
}

// Set registers g for sel, replacing an earlier registration.
func (r *Rules) Set(sel Selector, g Generator) *Rules {
	r.generators[sel] = g
	return r
}

// Lookup returns the generator registered for sel.
func (r *Rules) Lookup(sel Selector) (Generator, bool) {
	if r == nil {
		return nil, false
	}
	g, ok := r.generators[sel]
	return g, ok
}

// Len returns the number of registered overrides.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.generators) + len(r.roots)
}

// asGenerator recognizes the function shapes accepted inside object maps.
func asGenerator(v any) (Generator, bool) {
	switch fn := v.(type) {
	case Generator:
		return fn, fn != nil
	case func(context.Context, any, map[string]any) (any, error):
		return fn, fn != nil
	case func() any:
		if fn == nil {
			return nil, false
		}
		return func(context.Context, any, map[string]any) (any, error) { return fn(), nil }, true
	}
	return nil, false
}
