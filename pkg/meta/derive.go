package meta

import (
	"encoding/json"

	"github.com/goliatone/go-metafields/pkg/widgets"
)

// Registration argument keys understood by the host field-registration API.
const (
	ArgType          = "type"
	ArgDescription   = "description"
	ArgSingle        = "single"
	ArgDefault       = "default"
	ArgShowInRest    = "show_in_rest"
	ArgObjectSubtype = "object_subtype"
)

// RegistrationArgs is the flat argument bundle passed to the host framework
// when registering a field.
type RegistrationArgs map[string]any

// SchemaFragment is the JSON-schema subset exposed for REST-visible fields.
type SchemaFragment struct {
	Type        DataType `json:"type"`
	Description string   `json:"description"`
	Default     any      `json:"default"`
}

// RestVisibility is either hidden (serialises as false) or visible with a
// schema fragment (serialises as {"schema": {...}}).
type RestVisibility struct {
	Visible bool
	Schema  SchemaFragment
}

// Value returns the plain representation the host REST layer consumes: false
// or a map holding the schema fragment.
func (v RestVisibility) Value() any {
	if !v.Visible {
		return false
	}
	return map[string]any{
		"schema": map[string]any{
			"type":        string(v.Schema.Type),
			"description": v.Schema.Description,
			"default":     Clone(v.Schema.Default),
		},
	}
}

// MarshalJSON emits false or {"schema": {...}}.
func (v RestVisibility) MarshalJSON() ([]byte, error) {
	if !v.Visible {
		return []byte("false"), nil
	}
	return json.Marshal(struct {
		Schema SchemaFragment `json:"schema"`
	}{Schema: v.Schema})
}

// UIConfig is the widget configuration consumed by the editor and settings
// frontends.
type UIConfig struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Type        DataType `json:"type"`
	InputType   string   `json:"inputType"`
	Options     Choices  `json:"options"`
	Default     any      `json:"default"`
}

// InputTypeResolver picks an input widget for a field. *widgets.Registry
// satisfies it.
type InputTypeResolver interface {
	Resolve(field widgets.Field) (string, bool)
}

// ToRegistrationArgs projects the descriptor onto the host registration
// arguments. object_subtype is only present when a subtype was declared; its
// absence tells the host the field applies to all subtypes.
func (d Descriptor) ToRegistrationArgs() RegistrationArgs {
	args := RegistrationArgs{
		ArgType:        string(d.dataType),
		ArgDescription: d.description,
		ArgSingle:      d.single,
		ArgDefault:     d.Default(),
		ArgShowInRest:  d.ToRestSchemaVisibility().Value(),
	}
	if d.objectSubtype != "" {
		args[ArgObjectSubtype] = d.objectSubtype
	}
	return args
}

// ToRestSchemaVisibility returns a hidden value when ShowInRest is false and
// otherwise the full schema fragment, so REST consumers get type, description
// and default without a second lookup.
func (d Descriptor) ToRestSchemaVisibility() RestVisibility {
	if !d.showInRest {
		return RestVisibility{}
	}
	return RestVisibility{
		Visible: true,
		Schema: SchemaFragment{
			Type:        d.dataType,
			Description: d.description,
			Default:     d.Default(),
		},
	}
}

// ToUiConfig builds the frontend widget configuration using the built-in
// input type inference.
func (d Descriptor) ToUiConfig() UIConfig {
	return d.uiConfig(widgets.Infer(d.widgetField()))
}

// ToUiConfigWith is ToUiConfig with a caller supplied resolver. When the
// resolver yields nothing the built-in inference is used.
func (d Descriptor) ToUiConfigWith(resolver InputTypeResolver) UIConfig {
	field := d.widgetField()
	if resolver != nil {
		if name, ok := resolver.Resolve(field); ok && name != "" {
			return d.uiConfig(name)
		}
	}
	return d.uiConfig(widgets.Infer(field))
}

func (d Descriptor) widgetField() widgets.Field {
	return widgets.Field{
		Key:         d.key,
		Type:        string(d.dataType),
		Explicit:    d.inputType,
		OptionCount: len(d.options),
	}
}

func (d Descriptor) uiConfig(inputType string) UIConfig {
	label := d.label
	if label == "" {
		label = DefaultLabeler(d.key)
	}
	return UIConfig{
		Key:         d.key,
		Label:       label,
		Description: d.description,
		Type:        d.dataType,
		InputType:   inputType,
		Options:     d.options.clone(),
		Default:     d.Default(),
	}
}
