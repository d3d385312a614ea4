package mock

import (
	"context"
	"fmt"
	"math"
	"strconv"

	executor "github.com/hanpama/mockgraph/internal/executor"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// runtime implements executor.Runtime on top of a Registry.
type runtime struct {
	registry *Registry
	schema   *schema.Schema
}

var _ executor.Runtime = (*runtime)(nil)

func newRuntime(reg *Registry) *runtime {
	return &runtime{registry: reg, schema: reg.schema}
}

func (rt *runtime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	parentDef := rt.schema.Types[objectType]
	if parentDef == nil {
		return nil, &executor.SchemaMismatchError{TypeCondition: objectType}
	}
	fieldDef := parentDef.Field(field)
	if fieldDef == nil {
		return nil, &executor.SchemaMismatchError{Type: objectType, Field: field}
	}

	src := rt.source(objectType, source)
	ctx = withFieldInfo(ctx, FieldInfo{ParentType: objectType, Field: field, Index: src.index})
	in := fieldInput{parent: src.parent(), args: args}

	if entry, ok := src.values[field]; ok {
		if g, ok := asGenerator(entry); ok {
			out, err := guard(fieldSelector(rt.schema, objectType, field), g)(ctx, in.parent, args)
			if err != nil {
				return nil, err
			}
			entry = out
		}
		return rt.registry.shape(ctx, in, fieldDef.Type, entry, src.index, true)
	}

	g, from, err := rt.registry.resolve(objectType, field, fieldDef.Type)
	if err != nil {
		return nil, err
	}
	out, err := g(ctx, in.parent, args)
	if err != nil {
		return nil, err
	}
	return rt.registry.shape(ctx, in, fieldDef.Type, out, src.index, from == originOverride)
}

// source normalizes the parent value of a field.
func (rt *runtime) source(objectType string, v any) *objectSource {
	switch x := v.(type) {
	case *objectSource:
		return x
	case map[string]any:
		return &objectSource{typename: objectType, values: x, index: -1}
	case nil:
		return &objectSource{typename: objectType, index: -1}
	}
	return &objectSource{typename: objectType, raw: v, index: -1}
}

func (rt *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	var name string
	switch x := value.(type) {
	case *objectSource:
		name = x.typename
	case map[string]any:
		name, _ = x["__typename"].(string)
	}
	if name == "" {
		if t := rt.schema.Types[abstractType]; t != nil && len(t.PossibleTypes) > 0 {
			return t.PossibleTypes[0], nil
		}
		return "", &UnresolvableTypeError{Type: abstractType}
	}
	return name, nil
}

func (rt *runtime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	t := rt.schema.Types[typeName]
	if t == nil {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	if t.Kind == schema.TypeKindEnum {
		name, ok := value.(string)
		if !ok || !t.HasEnumValue(name) {
			return nil, fmt.Errorf("Enum %q cannot represent value: %v", typeName, value)
		}
		return name, nil
	}
	switch typeName {
	case "Int":
		return serializeInt(value)
	case "Float":
		return serializeFloat(value)
	case "String":
		return serializeString(value)
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
	case "ID":
		switch x := value.(type) {
		case string:
			return x, nil
		case int, int32, int64, uint, uint32, uint64:
			return fmt.Sprint(x), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", value)
	}
	return value, nil
}

func serializeInt(v any) (any, error) {
	switch x := v.(type) {
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return x, nil
		}
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int(x), nil
		}
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		if x <= math.MaxInt32 {
			return int(x), nil
		}
	case uint:
		if x <= math.MaxInt32 {
			return int(x), nil
		}
	case uint64:
		if x <= math.MaxInt32 {
			return int(x), nil
		}
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32 {
			return int(x), nil
		}
	case float32:
		if f := float64(x); f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return int(f), nil
		}
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return nil, fmt.Errorf("Int cannot represent value: %v", v)
}

func serializeFloat(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return nil, fmt.Errorf("Float cannot represent value: %v", v)
}

func serializeString(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int, int32, int64:
		return fmt.Sprint(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", v)
}
