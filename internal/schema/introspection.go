package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Introspection result shapes, as returned by the standard introspection query.
type introspectionResult struct {
	Data   *introspectionData   `json:"data"`
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionData struct {
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionSchema struct {
	Description      string                   `json:"description"`
	QueryType        *introspectionTypeName   `json:"queryType"`
	MutationType     *introspectionTypeName   `json:"mutationType"`
	SubscriptionType *introspectionTypeName   `json:"subscriptionType"`
	Types            []introspectionFullType  `json:"types"`
	Directives       []introspectionDirective `json:"directives"`
}

type introspectionTypeName struct {
	Name string `json:"name"`
}

type introspectionFullType struct {
	Kind           string                    `json:"kind"`
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	SpecifiedByURL *string                   `json:"specifiedByURL"`
	IsOneOf        bool                      `json:"isOneOf"`
	Fields         []introspectionField      `json:"fields"`
	InputFields    []introspectionInputValue `json:"inputFields"`
	Interfaces     []introspectionTypeRef    `json:"interfaces"`
	EnumValues     []introspectionEnumValue  `json:"enumValues"`
	PossibleTypes  []introspectionTypeRef    `json:"possibleTypes"`
}

type introspectionField struct {
	Name              string                    `json:"name"`
	Description       string                    `json:"description"`
	Args              []introspectionInputValue `json:"args"`
	Type              introspectionTypeRef      `json:"type"`
	IsDeprecated      bool                      `json:"isDeprecated"`
	DeprecationReason *string                   `json:"deprecationReason"`
}

type introspectionInputValue struct {
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Type              introspectionTypeRef `json:"type"`
	DefaultValue      *string              `json:"defaultValue"`
	IsDeprecated      bool                 `json:"isDeprecated"`
	DeprecationReason *string              `json:"deprecationReason"`
}

type introspectionTypeRef struct {
	Kind   string                `json:"kind"`
	Name   *string               `json:"name"`
	OfType *introspectionTypeRef `json:"ofType"`
}

type introspectionEnumValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type introspectionDirective struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	Locations    []string                  `json:"locations"`
	Args         []introspectionInputValue `json:"args"`
	IsRepeatable bool                      `json:"isRepeatable"`
}

// BuildFromIntrospection reconstructs a Schema from an introspection result.
// It accepts a full response ({"data":{"__schema":...}}), the data object
// ({"__schema":...}) or the bare __schema object.
func BuildFromIntrospection(data []byte) (*Schema, error) {
	var res introspectionResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode introspection result: %w", err)
	}
	is := res.Schema
	if is == nil && res.Data != nil {
		is = res.Data.Schema
	}
	if is == nil {
		var bare introspectionSchema
		if err := json.Unmarshal(data, &bare); err != nil {
			return nil, fmt.Errorf("decode introspection schema: %w", err)
		}
		if bare.QueryType == nil && len(bare.Types) == 0 {
			return nil, fmt.Errorf("introspection result has no __schema")
		}
		is = &bare
	}
	if is.QueryType == nil || is.QueryType.Name == "" {
		return nil, fmt.Errorf("introspection result has no query type")
	}

	s := NewSchema(is.Description)
	s.SetQueryType(is.QueryType.Name)
	if is.MutationType != nil {
		s.SetMutationType(is.MutationType.Name)
	}
	if is.SubscriptionType != nil {
		s.SetSubscriptionType(is.SubscriptionType.Name)
	}
	addBuiltins(s)

	for _, it := range is.Types {
		if strings.HasPrefix(it.Name, "__") || IsBuiltinScalar(it.Name) {
			continue
		}
		t, err := typeFromIntrospection(it)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
	}
	for _, id := range is.Directives {
		switch id.Name {
		case "include", "skip", "deprecated", "specifiedBy", "oneOf", "defer":
			continue
		}
		d := NewDirective(id.Name, id.Description).SetRepeatable(id.IsRepeatable)
		d.Locations = append(d.Locations, id.Locations...)
		for _, a := range id.Args {
			in, err := inputValueFromIntrospection(a)
			if err != nil {
				return nil, fmt.Errorf("directive @%s: %w", id.Name, err)
			}
			d.AddArgument(in)
		}
		s.AddDirective(d)
	}
	if s.GetQueryType() == nil {
		return nil, fmt.Errorf("query type %q is not defined", s.QueryType)
	}
	return s, nil
}

// Load reads a schema file: *.json files are treated as introspection
// results, anything else as SDL.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return BuildFromIntrospection(data)
	}
	return BuildFromSources(&ast.Source{Name: path, Input: string(data)})
}

func typeFromIntrospection(it introspectionFullType) (*Type, error) {
	switch TypeKind(it.Kind) {
	case TypeKindObject, TypeKindInterface:
		t := NewType(it.Name, TypeKind(it.Kind), it.Description)
		for _, ref := range it.Interfaces {
			if ref.Name != nil {
				t.AddInterface(*ref.Name)
			}
		}
		for _, ref := range it.PossibleTypes {
			if ref.Name != nil {
				t.AddPossibleType(*ref.Name)
			}
		}
		for _, f := range it.Fields {
			typ, err := typeRefFromIntrospection(f.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", it.Name, f.Name, err)
			}
			field := NewField(f.Name, f.Description, typ)
			if f.IsDeprecated {
				field.Deprecate(stringOr(f.DeprecationReason, defaultDeprecationReason))
			}
			for _, a := range f.Args {
				in, err := inputValueFromIntrospection(a)
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", it.Name, f.Name, err)
				}
				field.AddArgument(in)
			}
			t.AddField(field)
		}
		return t, nil
	case TypeKindUnion:
		t := NewType(it.Name, TypeKindUnion, it.Description)
		for _, ref := range it.PossibleTypes {
			if ref.Name != nil {
				t.AddPossibleType(*ref.Name)
			}
		}
		return t, nil
	case TypeKindEnum:
		t := NewType(it.Name, TypeKindEnum, it.Description)
		for _, v := range it.EnumValues {
			e := NewEnumValue(v.Name, v.Description)
			if v.IsDeprecated {
				e.Deprecate(stringOr(v.DeprecationReason, defaultDeprecationReason))
			}
			t.AddEnumValue(e)
		}
		return t, nil
	case TypeKindInputObject:
		t := NewType(it.Name, TypeKindInputObject, it.Description).SetOneOf(it.IsOneOf)
		for _, f := range it.InputFields {
			in, err := inputValueFromIntrospection(f)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", it.Name, f.Name, err)
			}
			t.AddInputField(in)
		}
		return t, nil
	case TypeKindScalar:
		t := NewType(it.Name, TypeKindScalar, it.Description)
		if it.SpecifiedByURL != nil {
			t.SetSpecifiedByURL(*it.SpecifiedByURL)
		}
		return t, nil
	}
	return nil, fmt.Errorf("type %s has unknown kind %q", it.Name, it.Kind)
}

func inputValueFromIntrospection(v introspectionInputValue) (*InputValue, error) {
	typ, err := typeRefFromIntrospection(v.Type)
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", v.Name, err)
	}
	in := NewInputValue(v.Name, v.Description, typ)
	if v.DefaultValue != nil {
		def, err := parseDefaultValue(*v.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("argument %s default value: %w", v.Name, err)
		}
		in.SetDefault(def)
	}
	if v.IsDeprecated {
		in.Deprecate(stringOr(v.DeprecationReason, defaultDeprecationReason))
	}
	return in, nil
}

func typeRefFromIntrospection(ref introspectionTypeRef) (*TypeRef, error) {
	switch ref.Kind {
	case "NON_NULL":
		if ref.OfType == nil {
			return nil, fmt.Errorf("NON_NULL type reference without ofType")
		}
		inner, err := typeRefFromIntrospection(*ref.OfType)
		if err != nil {
			return nil, err
		}
		return NonNullType(inner), nil
	case "LIST":
		if ref.OfType == nil {
			return nil, fmt.Errorf("LIST type reference without ofType")
		}
		inner, err := typeRefFromIntrospection(*ref.OfType)
		if err != nil {
			return nil, err
		}
		return ListType(inner), nil
	}
	if ref.Name == nil || *ref.Name == "" {
		return nil, fmt.Errorf("named type reference of kind %q without name", ref.Kind)
	}
	return NamedType(*ref.Name), nil
}

// parseDefaultValue parses a GraphQL literal as printed in an introspection
// defaultValue by embedding it in a throwaway input definition.
func parseDefaultValue(lit string) (any, error) {
	doc, err := parser.ParseSchema(&ast.Source{Input: "input D { v: D = " + lit + " }"})
	if err != nil {
		return nil, err
	}
	if len(doc.Definitions) != 1 || len(doc.Definitions[0].Fields) != 1 {
		return nil, fmt.Errorf("unexpected literal %q", lit)
	}
	return constValue(doc.Definitions[0].Fields[0].DefaultValue), nil
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
