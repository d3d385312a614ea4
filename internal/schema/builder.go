package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSDL parses and validates SDL and returns the corresponding Schema.
// When several sources are given they are merged as one document set, so type
// extensions may live in separate sources.
func BuildFromSDL(sdl string, more ...string) (*Schema, error) {
	sources := make([]*ast.Source, 0, len(more)+1)
	sources = append(sources, &ast.Source{Name: "schema.graphql", Input: sdl})
	for i, s := range more {
		sources = append(sources, &ast.Source{Name: fmt.Sprintf("schema_%d.graphql", i+1), Input: s})
	}
	return BuildFromSources(sources...)
}

// BuildFromSources loads named SDL sources with gqlparser and converts the
// validated result.
func BuildFromSources(sources ...*ast.Source) (*Schema, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no schema sources")
	}
	doc, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return BuildFromAST(doc, sources...), nil
}

// BuildFromAST converts a validated gqlparser schema. Definitions are added in
// declaration order (by source, then offset) so that possible types of
// interfaces keep the order the author wrote them in.
func BuildFromAST(doc *ast.Schema, sources ...*ast.Source) *Schema {
	s := NewSchema(doc.Description)
	if doc.Query != nil {
		s.SetQueryType(doc.Query.Name)
	}
	if doc.Mutation != nil {
		s.SetMutationType(doc.Mutation.Name)
	}
	if doc.Subscription != nil {
		s.SetSubscriptionType(doc.Subscription.Name)
	}
	addBuiltins(s)

	defs := declaredDefinitions(doc, sources)
	for _, def := range defs {
		if t := buildDefinition(def); t != nil {
			s.AddType(t)
		}
	}

	// Possible types of interfaces, in declaration order of the implementors.
	for _, def := range defs {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		for _, iface := range def.Interfaces {
			it := s.Types[iface]
			if it == nil || it.Kind != TypeKindInterface || def.Kind != ast.Object {
				continue
			}
			it.AddPossibleType(def.Name)
		}
	}

	names := make([]string, 0, len(doc.Directives))
	for name, dir := range doc.Directives {
		if isBuiltinDirective(dir) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.AddDirective(buildDirective(doc.Directives[name]))
	}
	return s
}

func declaredDefinitions(doc *ast.Schema, sources []*ast.Source) []*ast.Definition {
	order := make(map[*ast.Source]int, len(sources))
	for i, src := range sources {
		order[src] = i
	}
	defs := make([]*ast.Definition, 0, len(doc.Types))
	for name, def := range doc.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") {
			continue
		}
		defs = append(defs, def)
	}
	sort.SliceStable(defs, func(i, j int) bool {
		pi, pj := defs[i].Position, defs[j].Position
		if pi == nil || pj == nil {
			return defs[i].Name < defs[j].Name
		}
		si, sj := order[pi.Src], order[pj.Src]
		if si != sj {
			return si < sj
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		return defs[i].Name < defs[j].Name
	})
	return defs
}

func isBuiltinDirective(d *ast.DirectiveDefinition) bool {
	if d.Position != nil && d.Position.Src != nil && d.Position.Src.BuiltIn {
		return true
	}
	switch d.Name {
	case "include", "skip", "deprecated", "specifiedBy", "oneOf", "defer":
		return true
	}
	return false
}

func buildDefinition(def *ast.Definition) *Type {
	switch def.Kind {
	case ast.Object:
		return buildObject(def)
	case ast.Interface:
		return buildInterface(def)
	case ast.Union:
		return buildUnion(def)
	case ast.Enum:
		return buildEnum(def)
	case ast.InputObject:
		return buildInput(def)
	case ast.Scalar:
		return buildScalar(def)
	}
	return nil
}

func buildObject(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindObject, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		t.AddField(buildField(f))
	}
	return t
}

func buildInterface(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindInterface, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, f := range def.Fields {
		t.AddField(buildField(f))
	}
	return t
}

func buildField(def *ast.FieldDefinition) *Field {
	f := NewField(def.Name, def.Description, buildTypeRef(def.Type))
	if reason, ok := deprecation(def.Directives); ok {
		f.Deprecate(reason)
	}
	for _, arg := range def.Arguments {
		in := NewInputValue(arg.Name, arg.Description, buildTypeRef(arg.Type)).
			SetDefault(constValue(arg.DefaultValue))
		if reason, ok := deprecation(arg.Directives); ok {
			in.Deprecate(reason)
		}
		f.AddArgument(in)
	}
	return f
}

func buildEnum(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindEnum, def.Description)
	for _, v := range def.EnumValues {
		e := NewEnumValue(v.Name, v.Description)
		if reason, ok := deprecation(v.Directives); ok {
			e.Deprecate(reason)
		}
		t.AddEnumValue(e)
	}
	return t
}

func buildInput(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindInputObject, def.Description).
		SetOneOf(def.Directives.ForName("oneOf") != nil)
	for _, f := range def.Fields {
		in := NewInputValue(f.Name, f.Description, buildTypeRef(f.Type)).
			SetDefault(constValue(f.DefaultValue))
		if reason, ok := deprecation(f.Directives); ok {
			in.Deprecate(reason)
		}
		t.AddInputField(in)
	}
	return t
}

func buildUnion(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindUnion, def.Description)
	for _, name := range def.Types {
		t.AddPossibleType(name)
	}
	return t
}

func buildScalar(def *ast.Definition) *Type {
	t := NewType(def.Name, TypeKindScalar, def.Description)
	if d := def.Directives.ForName("specifiedBy"); d != nil {
		if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
			t.SetSpecifiedByURL(arg.Value.Raw)
		}
	}
	return t
}

func buildDirective(def *ast.DirectiveDefinition) *Directive {
	d := NewDirective(def.Name, def.Description).SetRepeatable(def.IsRepeatable)
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range def.Arguments {
		d.AddArgument(NewInputValue(arg.Name, arg.Description, buildTypeRef(arg.Type)).
			SetDefault(constValue(arg.DefaultValue)))
	}
	return d
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}

const defaultDeprecationReason = "No longer supported"

func deprecation(directives ast.DirectiveList) (string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return defaultDeprecationReason, true
}

// constValue converts a constant default value. Integers are normalized to
// int to match argument coercion in the executor.
func constValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	out, err := v.Value(nil)
	if err != nil {
		return nil
	}
	return normalizeInts(out)
}

func normalizeInts(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case []any:
		for i := range x {
			x[i] = normalizeInts(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeInts(x[k])
		}
		return x
	}
	return v
}
