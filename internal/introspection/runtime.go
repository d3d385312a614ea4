package introspection

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	executor "github.com/hanpama/mockgraph/internal/executor"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// IntrospectionWrapper holds both the runtime and extended schema
type IntrospectionWrapper struct {
	Runtime executor.Runtime
	Schema  *schema.Schema
}

// Wrap returns a Runtime answering __schema and __type from sch. The
// returned Schema is sch extended with the introspection types; fields that
// are not introspection are delegated to base.
func Wrap(base executor.Runtime, sch *schema.Schema) *IntrospectionWrapper {
	extended := extend(sch)
	return &IntrospectionWrapper{
		Runtime: &runtime{base: base, schema: sch},
		Schema:  extended,
	}
}

type runtime struct {
	base   executor.Runtime
	schema *schema.Schema // reported to clients, without introspection types
}

func (r *runtime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	var (
		v  any
		ok bool
	)
	switch src := source.(type) {
	case *schema.Schema:
		v, ok = schemaField(src, field)
	case *schema.Type:
		v, ok = r.typeField(src, field, args)
	case *schema.TypeRef:
		v, ok = r.typeRefField(src, field, args)
	case *schema.Field:
		v, ok = fieldField(src, field, args)
	case *schema.InputValue:
		v, ok = r.inputValueField(src, field)
	case *schema.EnumValue:
		v, ok = enumValueField(src, field)
	case *schema.Directive:
		v, ok = directiveField(src, field, args)
	}
	if ok {
		return v, nil
	}

	if objectType == r.schema.QueryType {
		switch field {
		case "__schema":
			return r.schema, nil
		case "__type":
			name, _ := args["name"].(string)
			if t := r.schema.Types[name]; t != nil {
				return t, nil
			}
			return nil, nil
		}
	}
	return r.base.ResolveSync(ctx, objectType, field, source, args)
}

func (r *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	return r.base.ResolveType(ctx, abstractType, value)
}

func (r *runtime) SerializeLeafValue(ctx context.Context, typ string, value any) (any, error) {
	if strings.HasPrefix(typ, "__") {
		return value, nil
	}
	return r.base.SerializeLeafValue(ctx, typ, value)
}

func schemaField(sch *schema.Schema, field string) (any, bool) {
	switch field {
	case "types":
		return byName(sch.Types, func(t *schema.Type) string { return t.Name }), true
	case "queryType":
		return sch.GetQueryType(), true
	case "mutationType":
		return nullable(sch.GetMutationType()), true
	case "subscriptionType":
		return nullable(sch.GetSubscriptionType()), true
	case "directives":
		return byName(sch.Directives, func(d *schema.Directive) string { return d.Name }), true
	case "description":
		return nullableString(sch.Description), true
	}
	return nil, false
}

func (r *runtime) typeField(t *schema.Type, field string, args map[string]any) (any, bool) {
	switch field {
	case "kind":
		return string(t.Kind), true
	case "name":
		return t.Name, true
	case "description":
		return nullableString(t.Description), true
	case "specifiedByURL":
		if t.SpecifiedByURL == nil {
			return nil, true
		}
		return *t.SpecifiedByURL, true
	case "fields":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		return visible(t.Fields, args, func(f *schema.Field) bool { return f.IsDeprecated }), true
	case "interfaces":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		out := make([]*schema.Type, 0, len(t.Interfaces))
		for _, name := range t.Interfaces {
			if def := r.schema.Types[name]; def != nil {
				out = append(out, def)
			}
		}
		return out, true
	case "possibleTypes":
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil, true
		}
		return r.schema.PossibleTypes(t.Name), true
	case "enumValues":
		if t.Kind != schema.TypeKindEnum {
			return nil, true
		}
		return visible(t.EnumValues, args, func(v *schema.EnumValue) bool { return v.IsDeprecated }), true
	case "inputFields":
		if t.Kind != schema.TypeKindInputObject {
			return nil, true
		}
		return visibleInputs(t.InputFields, args), true
	case "isOneOf":
		if t.Kind != schema.TypeKindInputObject {
			return nil, true
		}
		return t.OneOf, true
	case "ofType":
		// Named types never wrap; LIST and NON_NULL are *schema.TypeRef.
		return nil, true
	}
	return nil, false
}

func (r *runtime) typeRefField(ref *schema.TypeRef, field string, args map[string]any) (any, bool) {
	if ref.Kind == schema.TypeRefKindNonNull || ref.Kind == schema.TypeRefKindList {
		switch field {
		case "kind":
			return string(ref.Kind), true
		case "ofType":
			return ref.OfType, true
		}
		return nil, true
	}
	def := r.schema.Types[ref.Named]
	if def == nil {
		if field == "name" {
			return ref.Named, true
		}
		return nil, true
	}
	return r.typeField(def, field, args)
}

func fieldField(f *schema.Field, field string, args map[string]any) (any, bool) {
	switch field {
	case "name":
		return f.Name, true
	case "description":
		return nullableString(f.Description), true
	case "args":
		return visibleInputs(f.Arguments, args), true
	case "type":
		return f.Type, true
	case "isDeprecated":
		return f.IsDeprecated, true
	case "deprecationReason":
		return deprecationReason(f.IsDeprecated, f.DeprecationReason), true
	}
	return nil, false
}

func (r *runtime) inputValueField(in *schema.InputValue, field string) (any, bool) {
	switch field {
	case "name":
		return in.Name, true
	case "description":
		return nullableString(in.Description), true
	case "type":
		return in.Type, true
	case "defaultValue":
		if in.DefaultValue == nil {
			return nil, true
		}
		return r.schema.PrintValue(in.DefaultValue, in.Type), true
	case "isDeprecated":
		return in.IsDeprecated, true
	case "deprecationReason":
		return deprecationReason(in.IsDeprecated, in.DeprecationReason), true
	}
	return nil, false
}

func enumValueField(v *schema.EnumValue, field string) (any, bool) {
	switch field {
	case "name":
		return v.Name, true
	case "description":
		return nullableString(v.Description), true
	case "isDeprecated":
		return v.IsDeprecated, true
	case "deprecationReason":
		return deprecationReason(v.IsDeprecated, v.DeprecationReason), true
	}
	return nil, false
}

func directiveField(d *schema.Directive, field string, args map[string]any) (any, bool) {
	switch field {
	case "name":
		return d.Name, true
	case "description":
		return nullableString(d.Description), true
	case "isRepeatable":
		return d.IsRepeatable, true
	case "locations":
		return slices.Sorted(slices.Values(d.Locations)), true
	case "args":
		return visibleInputs(d.Arguments, args), true
	}
	return nil, false
}

// byName returns the values of m sorted by name.
func byName[T any](m map[string]T, name func(T) string) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(name(a), name(b)) })
	return out
}

// visible drops hidden items unless the includeDeprecated argument is set.
// Declaration order is kept.
func visible[T any](items []T, args map[string]any, hidden func(T) bool) []T {
	include, _ := args["includeDeprecated"].(bool)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if hidden(it) && !include {
			continue
		}
		out = append(out, it)
	}
	return out
}

func visibleInputs(items []*schema.InputValue, args map[string]any) []*schema.InputValue {
	return visible(items, args, func(in *schema.InputValue) bool { return in.IsDeprecated })
}

// nullable turns a typed nil into an untyped one.
func nullable(t *schema.Type) any {
	if t == nil {
		return nil
	}
	return t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deprecationReason(deprecated bool, reason string) any {
	if deprecated {
		return reason
	}
	return nil
}
