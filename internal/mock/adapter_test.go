package mock

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	language "github.com/hanpama/mockgraph/internal/language"
)

func TestNewNetworkInterface_MissingSchema(t *testing.T) {
	n, err := NewNetworkInterface(nil, nil)
	require.Nil(t, n)
	require.ErrorIs(t, err, ErrMissingSchema)
	require.ErrorContains(t, err, "schema")
}

func TestNetworkInterface_Execute(t *testing.T) {
	rules := NewRules().Type("String", Value("Survey title"))
	n, err := NewNetworkInterface(questionnaireSchema(t), rules)
	require.NoError(t, err)

	doc, err := language.ParseQuery(`
		query A { questionnaire(id: 1) { id } }
		query B($id: Int!) { section(id: $id) { title } }
	`)
	require.NoError(t, err)

	res, err := n.Execute(context.Background(), Request{
		Query:         doc,
		OperationName: "B",
		Variables:     map[string]any{"id": 3},
	})
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	want := map[string]any{"section": map[string]any{"title": "Survey title"}}
	if diff := cmp.Diff(want, data(t, res)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkInterface_MissingQuery(t *testing.T) {
	n, err := NewNetworkInterface(questionnaireSchema(t), nil)
	require.NoError(t, err)

	_, err = n.Execute(context.Background(), Request{})
	require.ErrorIs(t, err, ErrMissingQuery)

	_, err = n.ExecuteAsync(context.Background(), Request{}).Await(context.Background())
	require.ErrorIs(t, err, ErrMissingQuery)
}

func TestNetworkInterface_ExecuteAsync(t *testing.T) {
	n, err := NewNetworkInterface(questionnaireSchema(t), nil, WithListLength(1))
	require.NoError(t, err)
	require.NotNil(t, n.Server())

	doc, err := language.ParseQuery(`{ questionnaires { title } }`)
	require.NoError(t, err)

	res, err := n.ExecuteAsync(context.Background(), Request{Query: doc}).Await(context.Background())
	require.NoError(t, err)
	want := map[string]any{"questionnaires": []any{map[string]any{"title": "Hello World"}}}
	if diff := cmp.Diff(want, data(t, res)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}
