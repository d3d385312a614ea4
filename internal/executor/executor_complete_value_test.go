package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// Pattern: Result comparison
func TestCompleteValue_NonNull_Propagation_Result(t *testing.T) {
	newSchema := func() *schema.Schema {
		// type Query { obj: Obj }
		// type Obj { a: String! b: String! }
		return newSchemaWithQueryType(
			newObjectType("Query", schema.NewField("obj", "", schema.NamedType("Obj"))),
			newObjectType("Obj",
				schema.NewField("a", "", schema.NonNullType(schema.NamedType("String"))),
				schema.NewField("b", "", schema.NonNullType(schema.NamedType("String"))),
			),
			newScalarType("String"),
		)
	}

	t.Run("Resolver error", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.obj": NewMockValueResolver(map[string]any{}),
			"Obj.a":     NewMockErrorResolver(fmt.Errorf("boom")),
			"Obj.b":     NewMockValueResolver("B"),
		})
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { a b } }"), "", nil, nil)
		gotCalls := rt.GetCalls()

		wantRes := &ExecutionResult{
			Data:   map[string]any{"obj": nil},
			Errors: []GraphQLError{{Message: "boom", Path: Path{"obj", "a"}}},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}

		// b is never resolved once a nulled its parent
		wantCalls := []Call{
			{ObjectType: "Query", Field: "obj", Source: nil, Args: map[string]any{}},
			{ObjectType: "Obj", Field: "a", Source: map[string]any{}, Args: map[string]any{}},
		}
		if diff := cmp.Diff(wantCalls, gotCalls); diff != "" {
			t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Resolver returns null", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.obj": NewMockValueResolver(map[string]any{}),
			"Obj.a":     NewMockValueResolver(nil),
			"Obj.b":     NewMockValueResolver("B"),
		})
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { a b } }"), "", nil, nil)

		wantRes := &ExecutionResult{
			Data: map[string]any{"obj": nil},
			Errors: []GraphQLError{
				{Message: "Cannot return null for non-nullable field obj.a", Path: Path{"obj", "a"}},
			},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

// Pattern: Result comparison
func TestCompleteValue_List_Nullability_Result(t *testing.T) {
	cases := []struct {
		name     string
		listType *schema.TypeRef
		value    any
		want     *ExecutionResult
	}{
		{
			name:     "List contains values",
			listType: schema.ListType(schema.NamedType("String")),
			value:    []any{"A", "B"},
			want:     &ExecutionResult{Data: map[string]any{"list": []any{"A", "B"}}, Errors: []GraphQLError{}},
		},
		{
			name:     "Typed slice",
			listType: schema.ListType(schema.NamedType("String")),
			value:    []string{"A", "B"},
			want:     &ExecutionResult{Data: map[string]any{"list": []any{"A", "B"}}, Errors: []GraphQLError{}},
		},
		{
			name:     "List contains null",
			listType: schema.ListType(schema.NamedType("String")),
			value:    []any{"A", nil, "B"},
			want:     &ExecutionResult{Data: map[string]any{"list": []any{"A", nil, "B"}}, Errors: []GraphQLError{}},
		},
		{
			name:     "List is null",
			listType: schema.ListType(schema.NamedType("String")),
			value:    nil,
			want:     &ExecutionResult{Data: map[string]any{"list": nil}, Errors: []GraphQLError{}},
		},
		{
			name:     "Item non-null violation",
			listType: schema.ListType(schema.NonNullType(schema.NamedType("String"))),
			value:    []any{"A", nil, "B"},
			want: &ExecutionResult{
				Data: map[string]any{"list": nil},
				Errors: []GraphQLError{
					{Message: "Cannot return null for non-nullable field list[1]", Path: Path{"list", 1}},
				},
			},
		},
		{
			name:     "Not a list",
			listType: schema.ListType(schema.NamedType("String")),
			value:    "A",
			want: &ExecutionResult{
				Data:   map[string]any{"list": nil},
				Errors: []GraphQLError{{Message: "Expected list value, got string", Path: Path{"list"}}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sch := newSchemaWithQueryType(
				newObjectType("Query", schema.NewField("list", "", tc.listType)),
				newScalarType("String"),
			)
			rt := NewMockRuntime(map[string]MockResolver{"Query.list": NewMockValueResolver(tc.value)})
			exec := NewExecutor(rt, sch)

			gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ list }"), "", nil, nil)
			if diff := cmp.Diff(tc.want, plainResult(gotRes)); diff != "" {
				t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Pattern: Result comparison
func TestCompleteValue_Leaf_Serialization_Result(t *testing.T) {
	sch := newSchemaWithQueryType(
		newObjectType("Query", schema.NewField("a", "", schema.NamedType("String"))),
		newScalarType("String"),
	)

	t.Run("SerializeLeafValue success", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{"Query.a": NewMockValueResolver("ok")})
		SetSerializer(rt, func(val any, t schema.TypeRef) (any, error) {
			if s, ok := val.(string); ok {
				return fmt.Sprintf("%s!", s), nil
			}
			return nil, fmt.Errorf("not string")
		})
		exec := NewExecutor(rt, sch)

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ a }"), "", nil, nil)
		wantRes := &ExecutionResult{Data: map[string]any{"a": "ok!"}, Errors: []GraphQLError{}}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SerializeLeafValue error", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{"Query.a": NewMockValueResolver("bad")})
		SetSerializer(rt, func(val any, t schema.TypeRef) (any, error) {
			return nil, fmt.Errorf("serialize error")
		})
		exec := NewExecutor(rt, sch)

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ a }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"a": nil},
			Errors: []GraphQLError{{Message: "serialize error", Path: Path{"a"}}},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

// Pattern: Result comparison
func TestCompleteValue_Abstract_ResolveType_Result(t *testing.T) {
	newSchema := func() *schema.Schema {
		return newSchemaWithQueryType(
			newObjectType("Query", schema.NewField("iface", "", schema.NamedType("Node"))),
			schema.NewType("Node", schema.TypeKindInterface, "").AddPossibleType("Obj"),
			newObjectType("Obj", schema.NewField("a", "", schema.NamedType("String"))).AddInterface("Node"),
			newObjectType("Other", schema.NewField("a", "", schema.NamedType("String"))),
			newScalarType("String"),
		)
	}

	t.Run("ResolveType returns concrete subtype", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.iface": NewMockValueResolver(map[string]any{"val": "A"}),
			"Obj.a":       NewMockValueResolver("A"),
		})
		SetTypeResolver(rt, func(value any) (string, error) { return "Obj", nil })
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ iface { a __typename ... on Obj { again: a } } }"), "", nil, nil)
		gotCalls := rt.GetCalls()

		wantRes := &ExecutionResult{
			Data:   map[string]any{"iface": map[string]any{"a": "A", "__typename": "Obj", "again": "A"}},
			Errors: []GraphQLError{},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
		wantCalls := []Call{
			{ObjectType: "Query", Field: "iface", Source: nil, Args: map[string]any{}},
			{ObjectType: "Obj", Field: "a", Source: map[string]any{"val": "A"}, Args: map[string]any{}},
			{ObjectType: "Obj", Field: "a", Source: map[string]any{"val": "A"}, Args: map[string]any{}},
		}
		if diff := cmp.Diff(wantCalls, gotCalls); diff != "" {
			t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ResolveType error", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.iface": NewMockValueResolver(map[string]any{}),
		})
		SetTypeResolver(rt, func(value any) (string, error) { return "", fmt.Errorf("boom") })
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ iface { a } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"iface": nil},
			Errors: []GraphQLError{{Message: "boom", Path: Path{"iface"}}},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ResolveType invalid type name", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.iface": NewMockValueResolver(map[string]any{}),
		})
		SetTypeResolver(rt, func(value any) (string, error) { return "Unknown", nil })
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ iface { a } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"iface": nil},
			Errors: []GraphQLError{{Message: "Abstract type Node must resolve to an Object type at runtime. Got: Unknown", Path: Path{"iface"}}},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ResolveType not a possible type", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.iface": NewMockValueResolver(map[string]any{}),
		})
		SetTypeResolver(rt, func(value any) (string, error) { return "Other", nil })
		exec := NewExecutor(rt, newSchema())

		gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ iface { a } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"iface": nil},
			Errors: []GraphQLError{{Message: "Runtime Object type Other is not a possible type for Node", Path: Path{"iface"}}},
		}
		if diff := cmp.Diff(wantRes, plainResult(gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}
