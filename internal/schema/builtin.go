package schema

import (
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// prelude is gqlparser's built-in document: the standard scalars, the
// executable directives and the __-prefixed introspection types.
var prelude = sync.OnceValue(func() *ast.SchemaDocument {
	doc, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		panic("schema: parse prelude: " + err.Error())
	}
	return doc
})

var builtinScalars = []string{"String", "Int", "Float", "Boolean", "ID"}

// executableDirectives are the prelude directives the executor evaluates.
var executableDirectives = []string{"include", "skip"}

// addBuiltins adds the standard scalars and the @skip/@include directives.
func addBuiltins(s *Schema) {
	doc := prelude()
	for _, name := range builtinScalars {
		s.AddType(buildScalar(doc.Definitions.ForName(name)))
	}
	for _, name := range executableDirectives {
		s.AddDirective(buildDirective(doc.Directives.ForName(name)))
	}
}

func isExecutableDirective(name string) bool {
	for _, n := range executableDirectives {
		if n == name {
			return true
		}
	}
	return false
}

// IntrospectionTypes returns new copies of __Schema, __Type and the other
// introspection types, in prelude order.
func IntrospectionTypes() []*Type {
	var out []*Type
	for _, def := range prelude().Definitions {
		if !strings.HasPrefix(def.Name, "__") {
			continue
		}
		if t := buildDefinition(def); t != nil {
			out = append(out, t)
		}
	}
	return out
}
