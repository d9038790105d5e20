package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metafields/internal/prompt"
	"github.com/goliatone/go-metafields/pkg/declare"
)

type driverFactory func() prompt.Driver

func defaultDriver() prompt.Driver {
	return prompt.NewSurveyDriver()
}

func newNewCmd(a *app) *cobra.Command {
	var setting bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Interactively declare a field and print it as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decl, err := prompt.FieldWizard(cmd.Context(), a.driver())
			if err != nil {
				return fmt.Errorf("new field: %w", err)
			}

			doc := struct {
				Fields   []declare.FieldDeclaration `yaml:"fields,omitempty"`
				Settings []declare.FieldDeclaration `yaml:"settings,omitempty"`
			}{}
			if setting {
				doc.Settings = append(doc.Settings, decl)
			} else {
				doc.Fields = append(doc.Fields, decl)
			}

			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("new field: encode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&setting, "setting", false, "emit the declaration under settings instead of fields")
	return cmd
}
