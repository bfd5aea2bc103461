package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	assembler "github.com/goliatone/go-assembler"
	"github.com/goliatone/go-assembler/schema/openapi"
)

func newDescribeCmd(flags *rootFlags) *cobra.Command {
	var asOpenAPI bool

	cmd := &cobra.Command{
		Use:   "describe [component]",
		Short: "Print the variant groups of one or all components as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := flags.catalog(cmd)
			if err != nil {
				return err
			}
			names := catalog.Names()
			if len(args) == 1 {
				names = args[:1]
			}
			schemas := make([]assembler.Schema, 0, len(names))
			for _, name := range names {
				schema, err := catalog.Describe(name)
				if err != nil {
					return err
				}
				schemas = append(schemas, schema)
			}

			var payload any = schemas
			if asOpenAPI {
				doc, err := openapi.Generate(schemas)
				if err != nil {
					return err
				}
				payload = doc
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(payload)
		},
	}

	cmd.Flags().BoolVar(&asOpenAPI, "openapi", false, "Print an OpenAPI document instead of the raw schemas")
	return cmd
}
