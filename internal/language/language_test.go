package language

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQuerySyntaxError(t *testing.T) {
	_, err := ParseQuery("{ questionnaires { id }")
	require.Error(t, err)

	var ge *Error
	require.True(t, errors.As(err, &ge), "expected *Error, got %T", err)
	require.NotEmpty(t, ge.Locations)
}

func TestPrintRoundTrip(t *testing.T) {
	src := `mutation Update($id: Int!) { updateQuestionnaire(id: $id) { id title } }`
	doc, err := ParseQuery(src)
	require.NoError(t, err)

	printed := Print(doc)
	require.Contains(t, printed, "mutation Update")
	require.Contains(t, printed, "$id: Int!")

	again, err := ParseQuery(printed)
	require.NoError(t, err)
	require.Equal(t, Print(doc), Print(again))
	require.Equal(t, Mutation, again.Operations[0].Operation)
	require.Equal(t, "updateQuestionnaire", again.Operations[0].SelectionSet[0].(*Field).Name)
}

func TestPrintNil(t *testing.T) {
	require.Equal(t, "", strings.TrimSpace(Print(nil)))
}
