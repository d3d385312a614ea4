// Command mockgraph serves and queries mocked GraphQL APIs.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanpama/mockgraph/internal/mock"
	"github.com/hanpama/mockgraph/internal/rulefile"
	"github.com/hanpama/mockgraph/internal/schema"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "mockgraph",
		Short:         "Mock GraphQL APIs from a schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newServeCmd(), newQueryCmd(), newRenderCmd())
	return root
}

// mockFlags are shared by commands that build a mock server.
type mockFlags struct {
	schemaPath    string
	mocksPath     string
	listLength    int
	seed          uint64
	introspection bool
}

func (f *mockFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.schemaPath, "schema", "", "schema file (SDL, or introspection JSON with a .json extension)")
	fs.StringVar(&f.mocksPath, "mocks", "", "YAML rule file with mock overrides")
	fs.IntVar(&f.listLength, "list-length", 2, "length of generated lists")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for deterministic built-in values")
	fs.BoolVar(&f.introspection, "introspection", true, "enable __schema and __type")
	_ = cmd.MarkFlagRequired("schema")
}

// build loads the schema and rules and returns a mock server. Flags given on
// the command line win over settings from the rule file.
func (f *mockFlags) build(cmd *cobra.Command) (*mock.Server, error) {
	sch, err := schema.Load(f.schemaPath)
	if err != nil {
		return nil, err
	}
	var rules *mock.Rules
	var opts []mock.Option
	if f.mocksPath != "" {
		file, err := rulefile.Load(f.mocksPath)
		if err != nil {
			return nil, err
		}
		if err := file.Validate(sch); err != nil {
			return nil, fmt.Errorf("%s: %w", f.mocksPath, err)
		}
		rules = file.Rules()
		opts = append(opts, file.Options()...)
	}
	if cmd.Flags().Changed("list-length") {
		opts = append(opts, mock.WithListLength(f.listLength))
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, mock.WithSeed(f.seed))
	}
	opts = append(opts, mock.WithIntrospection(f.introspection))
	return mock.NewServer(sch, rules, opts...)
}
