package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Load declarations and report problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, source, err := loadDeclarations(a.cfg, args)
			if err != nil {
				return fmt.Errorf("validate %s: %w", source, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d fields, %d settings in %d files\n",
				source, set.Fields.Len(), len(set.Settings), len(set.Sources))
			for _, d := range set.Fields.All() {
				fmt.Fprintf(out, "  field   %-40s %s\n", d.Scope(), d.DataType())
			}
			for _, d := range set.Settings {
				fmt.Fprintf(out, "  setting %-40s %s\n", d.Key(), d.DataType())
			}
			return nil
		},
	}
}
