package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	f := &mockFlags{}
	var variables, operation string
	cmd := &cobra.Command{
		Use:   "query QUERY|@FILE",
		Short: "Run one query against the mock and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readQuery(args[0])
			if err != nil {
				return err
			}
			var vars map[string]any
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return fmt.Errorf("invalid --variables: %w", err)
				}
			}
			ms, err := f.build(cmd)
			if err != nil {
				return err
			}
			res, err := ms.QueryOperation(cmd.Context(), text, operation, vars)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&variables, "variables", "", "variables as a JSON object")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name to run")
	return cmd
}

// readQuery returns arg, or the contents of the file it names when it starts
// with @.
func readQuery(arg string) (string, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	return string(data), nil
}
