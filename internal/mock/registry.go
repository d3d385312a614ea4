package mock

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/hanpama/mockgraph/internal/eventbus"
	"github.com/hanpama/mockgraph/internal/events"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// Registry decides which generator produces the value of a field. It is
// read-only after construction and safe for concurrent use.
type Registry struct {
	schema     *schema.Schema
	types      map[string]Generator
	fields     map[Selector]Generator
	roots      map[string]Generator
	listLength int
	rand       *source
}

// NewRegistry builds a Registry over sch. rules are copied; later changes to
// rules do not affect the Registry.
func NewRegistry(sch *schema.Schema, rules *Rules, opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Registry{
		schema:     sch,
		types:      make(map[string]Generator),
		fields:     make(map[Selector]Generator),
		roots:      make(map[string]Generator),
		listLength: cfg.listLength,
		rand:       newSource(cfg.seed),
	}
	if rules == nil {
		return r
	}
	for sel, g := range rules.generators {
		if g == nil {
			continue
		}
		switch sel.Kind {
		case SelectorType:
			r.types[sel.Type] = guard(sel, g)
		case SelectorRoot:
			r.fields[sel] = guard(sel, g)
		}
	}
	for rootType, rg := range rules.roots {
		if rg == nil {
			continue
		}
		rg := rg
		r.roots[rootType] = guard(Selector{Kind: SelectorRoot, Type: rootType}, func(ctx context.Context, _ any, _ map[string]any) (any, error) {
			return rg(ctx)
		})
	}
	return r
}

// Schema returns the schema the Registry resolves against.
func (r *Registry) Schema() *schema.Schema { return r.schema }

// ListLength returns the default length of generated lists.
func (r *Registry) ListLength() int { return r.listLength }

// Resolve returns the generator for fieldName of parentType, whose declared
// type is declared. Root-field overrides win over type overrides, which win
// over built-in generators.
func (r *Registry) Resolve(parentType, fieldName string, declared *schema.TypeRef) (Generator, error) {
	g, _, err := r.resolve(parentType, fieldName, declared)
	return g, err
}

type origin int

const (
	originOverride origin = iota
	originType
)

// typeValue marks a value produced by type-level resolution when the
// generator itself was selected by a root override.
type typeValue struct{ v any }

func (r *Registry) resolve(parentType, fieldName string, declared *schema.TypeRef) (Generator, origin, error) {
	if r.schema.IsRootType(parentType) {
		sel := RootSelector(parentType, fieldName)
		if g, ok := r.fields[sel]; ok {
			return g, originOverride, nil
		}
		if rg, ok := r.roots[parentType]; ok {
			fallback, ferr := r.TypeGenerator(declared)
			return func(ctx context.Context, parent any, args map[string]any) (any, error) {
				out, err := rg(ctx, parent, args)
				if err != nil {
					return nil, err
				}
				if m, ok := out.(map[string]any); ok {
					if entry, ok := m[fieldName]; ok {
						if g, ok := asGenerator(entry); ok {
							return guard(sel, g)(ctx, parent, args)
						}
						return entry, nil
					}
				}
				if ferr != nil {
					return nil, ferr
				}
				v, err := fallback(ctx, parent, args)
				if err != nil {
					return nil, err
				}
				return typeValue{v}, nil
			}, originOverride, nil
		}
	}
	g, err := r.TypeGenerator(declared)
	return g, originType, err
}

// TypeGenerator returns the generator for values of declared, ignoring
// root-field overrides: the type override of its named type, or the
// built-in generator. List types yield a List of the default length whose
// elements are resolved the same way.
func (r *Registry) TypeGenerator(declared *schema.TypeRef) (Generator, error) {
	if declared == nil {
		return nil, &UnresolvableTypeError{}
	}
	if declared.Kind == schema.TypeRefKindNonNull {
		return r.TypeGenerator(declared.OfType)
	}
	if declared.Kind == schema.TypeRefKindList {
		if _, err := r.TypeGenerator(declared.OfType); err != nil {
			return nil, err
		}
		n := r.listLength
		return func(context.Context, any, map[string]any) (any, error) {
			return List{Len: n}, nil
		}, nil
	}
	if g, ok := r.types[declared.Named]; ok {
		return g, nil
	}
	if g := r.builtin(declared.Named); g != nil {
		return g, nil
	}
	return nil, &UnresolvableTypeError{Type: declared.Named}
}

// shape converts a generated value into the form the executor completes:
// lists become []any and object maps become *objectSource. merge is set when
// v did not come from the type override of its own type, so that override
// is merged under object maps.
func (r *Registry) shape(ctx context.Context, in fieldInput, declared *schema.TypeRef, v any, index int, merge bool) (any, error) {
	if tv, ok := v.(typeValue); ok {
		v, merge = tv.v, false
	}
	if v == nil || declared == nil {
		return v, nil
	}
	if declared.Kind == schema.TypeRefKindNonNull {
		return r.shape(ctx, in, declared.OfType, v, index, merge)
	}
	if declared.Kind == schema.TypeRefKindList {
		return r.shapeList(ctx, in, declared.OfType, v, merge)
	}
	if _, ok := v.(List); ok {
		return nil, fmt.Errorf("list value for non-list type %s", declared.Named)
	}
	t := r.schema.Types[declared.Named]
	if t == nil {
		return v, nil
	}
	switch t.Kind {
	case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindUnion:
		return r.shapeObject(ctx, t, v, index, merge)
	}
	return v, nil
}

func (r *Registry) shapeList(ctx context.Context, in fieldInput, elem *schema.TypeRef, v any, merge bool) (any, error) {
	if l, ok := v.(List); ok {
		item := l.Item
		if item == nil {
			g, err := r.TypeGenerator(elem)
			if err != nil {
				return nil, err
			}
			item, merge = g, false
		} else {
			fi, _ := FieldFromContext(ctx)
			item, merge = guard(fieldSelector(r.schema, fi.ParentType, fi.Field), item), true
		}
		out := make([]any, max(l.Len, 0))
		for i := range out {
			ictx := withIndex(ctx, i)
			raw, err := item(ictx, in.parent, in.args)
			if err != nil {
				return nil, err
			}
			if out[i], err = r.shape(ictx, in, elem, raw, i, merge); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return v, nil
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}
	out := make([]any, len(items))
	for i, item := range items {
		var err error
		if out[i], err = r.shape(withIndex(ctx, i), in, elem, item, i, merge); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Registry) shapeObject(ctx context.Context, t *schema.Type, v any, index int, merge bool) (any, error) {
	switch x := v.(type) {
	case *objectSource:
		return x, nil
	case map[string]any:
		values := x
		if merge {
			if g, ok := r.types[t.Name]; ok {
				base, err := g(ctx, x, nil)
				if err != nil {
					return nil, err
				}
				if bm, ok := base.(map[string]any); ok {
					values = make(map[string]any, len(bm)+len(x))
					for k, bv := range bm {
						values[k] = bv
					}
					for k, xv := range x {
						values[k] = xv
					}
				}
			}
		}
		return &objectSource{typename: r.typename(t, values), values: values, index: index}, nil
	}
	return &objectSource{typename: r.typename(t, nil), raw: v, index: index}, nil
}

// typename picks the concrete type of an object value: the type itself for
// objects, otherwise the value's __typename or the first possible type.
func (r *Registry) typename(t *schema.Type, values map[string]any) string {
	if t.Kind == schema.TypeKindObject {
		return t.Name
	}
	if name, ok := values["__typename"].(string); ok && name != "" {
		return name
	}
	if len(t.PossibleTypes) > 0 {
		return t.PossibleTypes[0]
	}
	return ""
}

// fieldInput is the parent and arguments of the field being shaped, handed
// to List item generators.
type fieldInput struct {
	parent any
	args   map[string]any
}

// objectSource is the parent value of a mocked object's fields.
type objectSource struct {
	typename string
	values   map[string]any
	raw      any
	index    int
}

// parent returns the value handed to generators as their parent.
func (s *objectSource) parent() any {
	if s.values != nil {
		return s.values
	}
	if s.raw != nil {
		return s.raw
	}
	return map[string]any{}
}

// fieldSelector names the override responsible for a field value.
func fieldSelector(sch *schema.Schema, parentType, field string) Selector {
	if sch.IsRootType(parentType) {
		return RootSelector(parentType, field)
	}
	return Selector{Kind: SelectorType, Type: parentType, Field: field}
}

// guard wraps a user generator: panics are recovered, failures are wrapped
// in a GeneratorError and each call is published as generator events.
func guard(sel Selector, g Generator) Generator {
	return func(ctx context.Context, parent any, args map[string]any) (v any, err error) {
		fi, _ := FieldFromContext(ctx)
		eventbus.Publish(ctx, events.GeneratorStart{Selector: sel.String(), ParentType: fi.ParentType, Field: fi.Field})
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				v, err = nil, &GeneratorError{Selector: sel, Err: fmt.Errorf("panic: %v", rec)}
			}
			eventbus.Publish(ctx, events.GeneratorFinish{
				Selector:   sel.String(),
				ParentType: fi.ParentType,
				Field:      fi.Field,
				Err:        err,
				Duration:   time.Since(start),
			})
		}()
		v, err = g(ctx, parent, args)
		if err != nil {
			var ge *GeneratorError
			var ue *UnresolvableTypeError
			if !errors.As(err, &ge) && !errors.As(err, &ue) {
				err = &GeneratorError{Selector: sel, Err: err}
			}
			return nil, err
		}
		return v, nil
	}
}
