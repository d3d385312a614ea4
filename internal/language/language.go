package language

import (
	"bytes"
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses an executable document. Syntax errors are returned as
// *Error so callers can surface line/column information.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, asError(err)
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, asError(err)
	}
	return doc, nil
}

// Print renders a parsed query document back to GraphQL text.
func Print(doc *QueryDocument) string {
	if doc == nil {
		return ""
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

func asError(err error) *Error {
	var ge *gqlerror.Error
	if errors.As(err, &ge) {
		return ge
	}
	return &Error{Message: err.Error(), Err: err}
}
