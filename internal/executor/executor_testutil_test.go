package executor

import (
	"testing"

	language "github.com/hanpama/mockgraph/internal/language"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// plainResult converts ordered response objects into plain maps so results
// can be compared with cmp.Diff.
func plainResult(res *ExecutionResult) *ExecutionResult {
	if res == nil {
		return nil
	}
	return &ExecutionResult{Data: Plain(res.Data), Errors: res.Errors}
}
