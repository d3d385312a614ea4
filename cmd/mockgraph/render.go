package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanpama/mockgraph/internal/schema"
)

func newRenderCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a schema file as SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sch, err := schema.Load(schemaPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), schema.Render(sch))
			return err
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (SDL, or introspection JSON with a .json extension)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
