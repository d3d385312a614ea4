package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestRender(t *testing.T) {
	out, err := runCmd(t, "render", "--schema", "testdata/schema.graphql")
	require.NoError(t, err)
	require.Contains(t, out, "type Query")
	require.Contains(t, out, "books(first: Int): [Book!]!")
}

func TestRenderMissingSchemaFlag(t *testing.T) {
	_, err := runCmd(t, "render")
	require.ErrorContains(t, err, "schema")
}

func TestQueryWithRules(t *testing.T) {
	out, err := runCmd(t, "query",
		"--schema", "testdata/schema.graphql",
		"--mocks", "testdata/mocks.yaml",
		"{ hello count books { id title } }")
	require.NoError(t, err)

	want := map[string]any{"data": map[string]any{
		"hello": "Hello from rules",
		"count": float64(42),
		"books": []any{
			map[string]any{"id": "book-0", "title": "Hello World"},
			map[string]any{"id": "book-1", "title": "Hello World"},
			map[string]any{"id": "book-2", "title": "Hello World"},
		},
	}}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryFlagsOverrideRuleFile(t *testing.T) {
	out, err := runCmd(t, "query",
		"--schema", "testdata/schema.graphql",
		"--mocks", "testdata/mocks.yaml",
		"--list-length", "1",
		"{ books { id } }")
	require.NoError(t, err)

	want := map[string]any{"data": map[string]any{
		"books": []any{map[string]any{"id": "book-0"}},
	}}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryFromFileWithOperation(t *testing.T) {
	out, err := runCmd(t, "query",
		"--schema", "testdata/schema.graphql",
		"--mocks", "testdata/mocks.yaml",
		"--operation", "Count",
		"@testdata/books.graphql")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"data": map[string]any{"count": float64(42)}}, decodeJSON(t, out))
}

func TestQuerySeedIsDeterministic(t *testing.T) {
	args := []string{"query", "--schema", "testdata/schema.graphql", "--seed", "7", "{ count books { id } }"}
	first, err := runCmd(t, args...)
	require.NoError(t, err)
	second, err := runCmd(t, args...)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parse", []string{"{ hello"}, "parse query"},
		{"variables", []string{"--variables", "[", "{ hello }"}, "invalid --variables"},
		{"query file", []string{"@testdata/missing.graphql"}, "read query"},
		{"schema file", []string{"--schema", "testdata/missing.graphql", "{ hello }"}, "read schema"},
		{"rules", []string{"--mocks", "testdata/missing.yaml", "{ hello }"}, "missing.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"query", "--schema", "testdata/schema.graphql"}, tt.args...)
			_, err := runCmd(t, args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestServe(t *testing.T) {
	ready := make(chan string, 1)
	f := &serveFlags{
		mockFlags: mockFlags{
			schemaPath:    "testdata/schema.graphql",
			mocksPath:     "testdata/mocks.yaml",
			listLength:    2,
			introspection: true,
		},
		addr:      "127.0.0.1:0",
		timeout:   time.Second,
		logLevel:  "error",
		logFormat: "text",
		ready:     ready,
	}
	cmd := newServeCmd()
	cmd.SetErr(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cmd, f) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Post("http://"+addr+"/graphql", "application/json", strings.NewReader(`{"query":"{ hello }"}`))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `{"data":{"hello":"Hello from rules"}}`, strings.TrimSpace(string(body)))

	resp, err = http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
