package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Render produces SDL for s. Types and directives are sorted by name and the
// standard scalars and @skip/@include are left out, so equal schemas render
// to equal text.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "), formatter.WithBuiltin())
	// One document per definition keeps a blank line between them.
	emit := func(doc *ast.SchemaDocument) {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		f.FormatSchemaDocument(doc)
	}

	if def := schemaDefinition(s); def != nil {
		emit(&ast.SchemaDocument{Schema: ast.SchemaDefinitionList{def}})
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		if !IsBuiltinScalar(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		emit(&ast.SchemaDocument{Definitions: ast.DefinitionList{s.definition(s.Types[name])}})
	}

	names = names[:0]
	for name := range s.Directives {
		if !isExecutableDirective(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		emit(&ast.SchemaDocument{Directives: ast.DirectiveDefinitionList{s.directiveDefinition(s.Directives[name])}})
	}
	return buf.String()
}

// schemaDefinition returns nil when the roots use their default names.
func schemaDefinition(s *Schema) *ast.SchemaDefinition {
	conventional := (s.QueryType == "" || s.QueryType == "Query") &&
		(s.MutationType == "" || s.MutationType == "Mutation") &&
		(s.SubscriptionType == "" || s.SubscriptionType == "Subscription")
	if conventional && s.Description == "" {
		return nil
	}
	def := &ast.SchemaDefinition{Description: s.Description}
	for _, root := range []struct {
		op   ast.Operation
		name string
	}{
		{ast.Query, s.QueryType},
		{ast.Mutation, s.MutationType},
		{ast.Subscription, s.SubscriptionType},
	} {
		if root.name != "" {
			def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{Operation: root.op, Type: root.name})
		}
	}
	return def
}

func (s *Schema) definition(t *Type) *ast.Definition {
	def := &ast.Definition{
		Description: t.Description,
		Name:        t.Name,
		Interfaces:  t.Interfaces,
	}
	switch t.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
		if t.SpecifiedByURL != nil {
			def.Directives = ast.DirectiveList{directive("specifiedBy", "url", stringValue(*t.SpecifiedByURL))}
		}
	case TypeKindObject, TypeKindInterface:
		def.Kind = ast.Object
		if t.Kind == TypeKindInterface {
			def.Kind = ast.Interface
		}
		for _, f := range t.Fields {
			fd := &ast.FieldDefinition{
				Description: f.Description,
				Name:        f.Name,
				Type:        astType(f.Type),
				Directives:  deprecatedDirective(f.IsDeprecated, f.DeprecationReason),
			}
			for _, a := range f.Arguments {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Description:  a.Description,
					Name:         a.Name,
					Type:         astType(a.Type),
					DefaultValue: s.defaultValue(a),
					Directives:   deprecatedDirective(a.IsDeprecated, a.DeprecationReason),
				})
			}
			def.Fields = append(def.Fields, fd)
		}
	case TypeKindUnion:
		def.Kind = ast.Union
		def.Types = t.PossibleTypes
	case TypeKindEnum:
		def.Kind = ast.Enum
		for _, v := range t.EnumValues {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Description: v.Description,
				Name:        v.Name,
				Directives:  deprecatedDirective(v.IsDeprecated, v.DeprecationReason),
			})
		}
	case TypeKindInputObject:
		def.Kind = ast.InputObject
		if t.OneOf {
			def.Directives = ast.DirectiveList{{Name: "oneOf"}}
		}
		for _, in := range t.InputFields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Description:  in.Description,
				Name:         in.Name,
				Type:         astType(in.Type),
				DefaultValue: s.defaultValue(in),
				Directives:   deprecatedDirective(in.IsDeprecated, in.DeprecationReason),
			})
		}
	}
	return def
}

func (s *Schema) directiveDefinition(d *Directive) *ast.DirectiveDefinition {
	def := &ast.DirectiveDefinition{
		Description:  d.Description,
		Name:         d.Name,
		IsRepeatable: d.IsRepeatable,
	}
	for _, a := range d.Arguments {
		def.Arguments = append(def.Arguments, &ast.ArgumentDefinition{
			Description:  a.Description,
			Name:         a.Name,
			Type:         astType(a.Type),
			DefaultValue: s.defaultValue(a),
		})
	}
	for _, loc := range d.Locations {
		def.Locations = append(def.Locations, ast.DirectiveLocation(loc))
	}
	return def
}

func astType(ref *TypeRef) *ast.Type {
	if ref == nil {
		return nil
	}
	switch ref.Kind {
	case TypeRefKindNonNull:
		t := astType(ref.OfType)
		t.NonNull = true
		return t
	case TypeRefKindList:
		return ast.ListType(astType(ref.OfType), nil)
	}
	return ast.NamedType(ref.Named, nil)
}

func deprecatedDirective(deprecated bool, reason string) ast.DirectiveList {
	if !deprecated {
		return nil
	}
	if reason == "" || reason == defaultDeprecationReason {
		return ast.DirectiveList{{Name: "deprecated"}}
	}
	return ast.DirectiveList{directive("deprecated", "reason", stringValue(reason))}
}

func directive(name, arg string, v *ast.Value) *ast.Directive {
	return &ast.Directive{Name: name, Arguments: ast.ArgumentList{{Name: arg, Value: v}}}
}

func stringValue(s string) *ast.Value { return &ast.Value{Kind: ast.StringValue, Raw: s} }

func (s *Schema) defaultValue(in *InputValue) *ast.Value {
	if in.DefaultValue == nil {
		return nil
	}
	return s.astValue(in.DefaultValue, in.Type)
}

// astValue converts a coerced Go value back to a GraphQL literal of type
// ref. Strings of enum types become enum literals.
func (s *Schema) astValue(v any, ref *TypeRef) *ast.Value {
	for ref != nil && ref.Kind == TypeRefKindNonNull {
		ref = ref.OfType
	}
	switch x := v.(type) {
	case nil:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	case string:
		if ref != nil && ref.Kind == TypeRefKindNamed {
			if t := s.Types[ref.Named]; t != nil && t.Kind == TypeKindEnum {
				return &ast.Value{Kind: ast.EnumValue, Raw: x}
			}
		}
		return stringValue(x)
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(x)}
	case int:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(x)}
	case int32:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(int64(x), 10)}
	case int64:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(x, 10)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(x, 'g', -1, 64)}
	case []any:
		var elem *TypeRef
		if ref != nil && ref.Kind == TypeRefKindList {
			elem = ref.OfType
		}
		out := &ast.Value{Kind: ast.ListValue}
		for _, item := range x {
			out.Children = append(out.Children, &ast.ChildValue{Value: s.astValue(item, elem)})
		}
		return out
	case map[string]any:
		var input *Type
		if ref != nil && ref.Kind == TypeRefKindNamed {
			input = s.Types[ref.Named]
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := &ast.Value{Kind: ast.ObjectValue}
		for _, k := range keys {
			var fieldType *TypeRef
			if input != nil {
				if in := input.InputField(k); in != nil {
					fieldType = in.Type
				}
			}
			out.Children = append(out.Children, &ast.ChildValue{Name: k, Value: s.astValue(x[k], fieldType)})
		}
		return out
	}
	return stringValue(fmt.Sprint(v))
}

// PrintValue renders v as a GraphQL literal of type ref, the form in which
// introspection reports default values.
func (s *Schema) PrintValue(v any, ref *TypeRef) string {
	return s.astValue(v, ref).String()
}
