package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	assembler "github.com/goliatone/go-assembler"
)

func newResolveCmd(flags *rootFlags) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "resolve <component> [group=value ...]",
		Short: "Print the class string of a component",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := parseSelections(args[1:])
			if err != nil {
				return err
			}
			catalog, err := flags.catalog(cmd)
			if err != nil {
				return err
			}
			if !trace {
				out, err := catalog.Resolve(args[0], selections...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q\n", out)
				return nil
			}
			_, report, err := catalog.ResolveWithTrace(args[0], selections...)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "Print a JSON trace of the composition")
	return cmd
}

// parseSelections reads group=value pairs. Values true and false become
// booleans; they select the same options as their string form.
func parseSelections(args []string) ([]assembler.Selection, error) {
	selections := make([]assembler.Selection, 0, len(args))
	for _, arg := range args {
		group, value, ok := strings.Cut(arg, "=")
		if !ok || group == "" {
			return nil, fmt.Errorf("invalid selection %q, expected group=value", arg)
		}
		if value == "true" || value == "false" {
			selections = append(selections, assembler.Select(group, value == "true"))
			continue
		}
		selections = append(selections, assembler.Select(group, value))
	}
	return selections, nil
}
