package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metafields/pkg/catalog"
	"github.com/goliatone/go-metafields/pkg/meta"
)

const (
	viewArgs = "args"
	viewRest = "rest"
	viewUI   = "ui"
)

type exportDocument struct {
	Fields   map[string]any `json:"fields"`
	Settings map[string]any `json:"settings"`
}

func newExportCmd(a *app) *cobra.Command {
	var format, view string
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Print derived registration args, REST visibility or UI configs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view = strings.ToLower(strings.TrimSpace(view))
			derive, err := viewFunc(view)
			if err != nil {
				return err
			}
			set, source, err := loadDeclarations(a.cfg, args)
			if err != nil {
				return fmt.Errorf("export %s: %w", source, err)
			}

			doc := exportDocument{Fields: map[string]any{}, Settings: map[string]any{}}
			if view == viewArgs {
				fields, err := dryRunRegistration(cmd.Context(), set.Fields)
				if err != nil {
					return err
				}
				doc.Fields = fields
			} else {
				for _, d := range set.Fields.All() {
					doc.Fields[d.Scope().String()] = derive(d)
				}
			}
			for _, d := range set.Settings {
				doc.Settings[d.Key()] = derive(d)
			}

			data, err := encodeExport(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&view, "view", viewArgs, "derived view: args, rest or ui")
	return cmd
}

func viewFunc(view string) (func(meta.Descriptor) any, error) {
	switch view {
	case viewArgs:
		return func(d meta.Descriptor) any { return d.ToRegistrationArgs() }, nil
	case viewRest:
		return func(d meta.Descriptor) any { return d.ToRestSchemaVisibility() }, nil
	case viewUI:
		return func(d meta.Descriptor) any { return d.ToUiConfig() }, nil
	default:
		return nil, fmt.Errorf("unknown view %q (want args, rest or ui)", view)
	}
}

// dryRunRegistration registers every field against a recording registrar, so
// the export shows exactly what activation would hand to the host.
func dryRunRegistration(ctx context.Context, fields *catalog.Catalog) (map[string]any, error) {
	recorder := &catalog.RecordingRegistrar{}
	if err := fields.RegisterAll(ctx, recorder); err != nil {
		return nil, err
	}
	out := make(map[string]any)
	for _, reg := range recorder.Registrations() {
		subtype, _ := reg.Args[meta.ArgObjectSubtype].(string)
		scope := meta.Scope{ObjectType: reg.ObjectType, ObjectSubtype: subtype, Key: reg.Key}
		out[scope.String()] = reg.Args
	}
	return out, nil
}

// encodeExport always marshals JSON first so custom MarshalJSON methods
// (ordered options, REST visibility) shape the YAML output too.
func encodeExport(doc exportDocument, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		blockStyle(&node)
		out, err := yaml.Marshal(&node)
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// blockStyle drops the flow and quoting styles the JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
