// Package rulefile loads mock override rules from YAML.
//
//	listLength: 2
//	seed: 42
//	types:
//	  Int: { value: 99 }
//	  String: { expr: '"Survey " + string(index)' }
//	roots:
//	  Query.questionnaires:
//	    value: [{ id: 1, title: something }]
//	  Mutation.updateQuestionnaire:
//	    expr: args
//
// A rule has exactly one of value, returned as a fresh copy on every call,
// or expr, an expr-lang expression evaluated per call.
package rulefile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"google.golang.org/grpc/metadata"
	"gopkg.in/yaml.v3"

	"github.com/hanpama/mockgraph/internal/mock"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// File is a parsed rule file.
type File struct {
	ListLength *int            `yaml:"listLength"`
	Seed       *uint64         `yaml:"seed"`
	Types      map[string]Rule `yaml:"types"`
	Roots      map[string]Rule `yaml:"roots"`
}

// Rule is one override.
type Rule struct {
	Value    any
	Expr     string
	hasValue bool
	program  *vm.Program
}

// Env is what expressions see.
type Env struct {
	Parent   map[string]any    `expr:"parent"`
	Args     map[string]any    `expr:"args"`
	Index    int               `expr:"index"`
	Typename string            `expr:"typename"`
	Field    string            `expr:"field"`
	Headers  map[string]string `expr:"headers"`
}

func (r *Rule) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rule must be a mapping with value or expr", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "value":
			if err := val.Decode(&r.Value); err != nil {
				return err
			}
			r.hasValue = true
		case "expr":
			if err := val.Decode(&r.Expr); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: unknown rule key %q", key.Line, key.Value)
		}
	}
	return nil
}

// Load reads and parses the rule file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses and compiles a rule file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if f.ListLength != nil && *f.ListLength < 0 {
		return nil, fmt.Errorf("listLength must not be negative, got %d", *f.ListLength)
	}
	for _, name := range sortedKeys(f.Types) {
		sel, err := mock.ParseSelector(name)
		if err != nil {
			return nil, err
		}
		if sel.Kind != mock.SelectorType {
			return nil, fmt.Errorf("types: %q is not a type name", name)
		}
		if err := compile(f.Types, name); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(f.Roots) {
		sel, err := mock.ParseSelector(name)
		if err != nil {
			return nil, err
		}
		if sel.Kind != mock.SelectorRoot {
			return nil, fmt.Errorf("roots: %q must have the form Root.field", name)
		}
		if err := compile(f.Roots, name); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func compile(rules map[string]Rule, name string) error {
	r := rules[name]
	switch {
	case r.hasValue && r.Expr != "":
		return fmt.Errorf("rule %s: value and expr are mutually exclusive", name)
	case !r.hasValue && r.Expr == "":
		return fmt.Errorf("rule %s: one of value or expr is required", name)
	case r.Expr != "":
		program, err := expr.Compile(r.Expr, expr.Env(Env{}))
		if err != nil {
			return fmt.Errorf("rule %s: compile %q: %w", name, r.Expr, err)
		}
		r.program = program
		rules[name] = r
	}
	return nil
}

// Validate checks that every selector names a type or root field of sch.
func (f *File) Validate(sch *schema.Schema) error {
	for _, name := range sortedKeys(f.Types) {
		if sch.Types[name] == nil {
			return fmt.Errorf("types: unknown type %q", name)
		}
	}
	for _, name := range sortedKeys(f.Roots) {
		sel, _ := mock.ParseSelector(name)
		if !sch.IsRootType(sel.Type) {
			return fmt.Errorf("roots: %q is not a root operation type", sel.Type)
		}
		if sch.Types[sel.Type].Field(sel.Field) == nil {
			return fmt.Errorf("roots: %s has no field %q", sel.Type, sel.Field)
		}
	}
	return nil
}

// Rules converts the file into mock rules.
func (f *File) Rules() *mock.Rules {
	rules := mock.NewRules()
	for name, r := range f.Types {
		rules.Type(name, r.generator())
	}
	for name, r := range f.Roots {
		sel, _ := mock.ParseSelector(name)
		rules.Set(sel, r.generator())
	}
	return rules
}

// Options returns the server options set by the file.
func (f *File) Options() []mock.Option {
	var opts []mock.Option
	if f.ListLength != nil {
		opts = append(opts, mock.WithListLength(*f.ListLength))
	}
	if f.Seed != nil {
		opts = append(opts, mock.WithSeed(*f.Seed))
	}
	return opts
}

func (r Rule) generator() mock.Generator {
	if r.program == nil {
		value := r.Value
		return func(context.Context, any, map[string]any) (any, error) {
			return copyValue(value), nil
		}
	}
	program := r.program
	return func(ctx context.Context, parent any, args map[string]any) (any, error) {
		out, err := expr.Run(program, newEnv(ctx, parent, args))
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func newEnv(ctx context.Context, parent any, args map[string]any) Env {
	env := Env{Args: args, Index: -1}
	if m, ok := parent.(map[string]any); ok {
		env.Parent = m
	}
	if fi, ok := mock.FieldFromContext(ctx); ok {
		env.Typename, env.Field, env.Index = fi.ParentType, fi.Field, fi.Index
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		env.Headers = make(map[string]string, len(md))
		for k, vs := range md {
			if len(vs) > 0 {
				env.Headers[k] = vs[0]
			}
		}
	}
	return env
}

// copyValue deep-copies decoded YAML so generated values never share maps.
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}

func sortedKeys(m map[string]Rule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
