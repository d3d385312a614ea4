package executor

import "fmt"

// SchemaMismatchError reports a query that references something the schema
// does not define: a field, a fragment or a fragment type condition.
type SchemaMismatchError struct {
	Type          string
	Field         string
	Fragment      string
	TypeCondition string
}

func (e *SchemaMismatchError) Error() string {
	switch {
	case e.Fragment != "":
		return fmt.Sprintf("Unknown fragment %q.", e.Fragment)
	case e.TypeCondition != "":
		return fmt.Sprintf("Unknown type %q.", e.TypeCondition)
	}
	return fmt.Sprintf("Cannot query field %q on type %q.", e.Field, e.Type)
}

func (e *SchemaMismatchError) ErrorCode() string { return "SCHEMA_MISMATCH" }
