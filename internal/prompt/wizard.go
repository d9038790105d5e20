package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-metafields/pkg/declare"
	"github.com/goliatone/go-metafields/pkg/meta"
)

const noDefault = "(none)"

// FieldWizard walks the user through one field declaration and validates it
// before returning. The declaration only carries flags that differ from the
// descriptor defaults so the emitted document stays short.
func FieldWizard(ctx context.Context, driver Driver) (declare.FieldDeclaration, error) {
	var decl declare.FieldDeclaration
	if driver == nil {
		return decl, errors.New("prompt: driver is required")
	}

	key, err := driver.Input(ctx, InputConfig{
		Message:   "Field key",
		Help:      "Storage key, e.g. project_status",
		Validator: requireKey,
	})
	if err != nil {
		return decl, err
	}
	decl.Key = strings.TrimSpace(key)

	objectTypes := meta.ObjectTypes()
	idx, err := driver.Select(ctx, SelectConfig{
		Message: "Object type",
		Options: stringsOf(objectTypes),
	})
	if err != nil {
		return decl, err
	}
	if idx < 0 || idx >= len(objectTypes) {
		return decl, fmt.Errorf("prompt: object type selection %d out of range", idx)
	}
	if objectTypes[idx] != meta.ObjectTypePost {
		decl.ObjectType = objectTypes[idx].String()
	}

	subtype, err := driver.Input(ctx, InputConfig{
		Message: "Object subtype",
		Help:    "Leave empty to register the field for every subtype",
	})
	if err != nil {
		return decl, err
	}
	decl.ObjectSubtype = strings.TrimSpace(subtype)

	dataTypes := meta.DataTypes()
	idx, err = driver.Select(ctx, SelectConfig{
		Message: "Data type",
		Options: stringsOf(dataTypes),
	})
	if err != nil {
		return decl, err
	}
	if idx < 0 || idx >= len(dataTypes) {
		return decl, fmt.Errorf("prompt: data type selection %d out of range", idx)
	}
	dataType := dataTypes[idx]
	if dataType != meta.DataTypeString {
		decl.Type = dataType.String()
	}

	derived := meta.DefaultLabeler(decl.Key)
	label, err := driver.Input(ctx, InputConfig{Message: "Label", Default: derived})
	if err != nil {
		return decl, err
	}
	if label = strings.TrimSpace(label); label != derived {
		decl.Label = label
	}

	description, err := driver.Input(ctx, InputConfig{Message: "Description"})
	if err != nil {
		return decl, err
	}
	decl.Description = strings.TrimSpace(description)

	if dataType == meta.DataTypeString || dataType == meta.DataTypeArray {
		raw, err := driver.TextArea(ctx, TextAreaConfig{
			Message: "Options",
			Help:    "One option per line as value=Label; leave empty for free input",
		})
		if err != nil {
			return decl, err
		}
		decl.Options = ParseChoices(raw)
	}

	def, err := askDefault(ctx, driver, dataType, decl.Options)
	if err != nil {
		return decl, err
	}
	decl.Default = def

	rest, err := driver.Confirm(ctx, ConfirmConfig{Message: "Expose in the REST API?", Default: true})
	if err != nil {
		return decl, err
	}
	if !rest {
		decl.ShowInRest = meta.Bool(false)
	}
	editor, err := driver.Confirm(ctx, ConfirmConfig{Message: "Show in the editor?", Default: true})
	if err != nil {
		return decl, err
	}
	if !editor {
		decl.ShowInEditor = meta.Bool(false)
	}

	if _, err := decl.Descriptor(); err != nil {
		return decl, err
	}
	return decl, nil
}

func askDefault(ctx context.Context, driver Driver, t meta.DataType, options meta.Choices) (any, error) {
	if t == meta.DataTypeBoolean {
		return driver.Confirm(ctx, ConfirmConfig{Message: "Default value"})
	}

	if t == meta.DataTypeString && len(options) > 0 {
		values := append([]string{noDefault}, options.Values()...)
		idx, err := driver.Select(ctx, SelectConfig{Message: "Default value", Options: values})
		if err != nil {
			return nil, err
		}
		if idx <= 0 || idx >= len(values) {
			return nil, nil
		}
		return values[idx], nil
	}

	help := ""
	if t == meta.DataTypeArray {
		help = "Comma separated values"
	}
	raw, err := driver.Input(ctx, InputConfig{
		Message: "Default value",
		Help:    help,
		Validator: func(s string) error {
			_, err := ParseDefault(t, s)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return ParseDefault(t, raw)
}

// ParseDefault converts prompt input into a default of type t. Empty input
// means no explicit default.
func ParseDefault(t meta.DataType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch t {
	case meta.DataTypeInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt: %q is not an integer", raw)
		}
		return v, nil
	case meta.DataTypeNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("prompt: %q is not a number", raw)
		}
		return v, nil
	case meta.DataTypeBoolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt: %q is not a boolean", raw)
		}
		return v, nil
	case meta.DataTypeArray:
		parts := strings.Split(raw, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

// ParseChoices reads "value=Label" lines. A line without "=" uses the value
// as its own label; blank lines are skipped.
func ParseChoices(raw string) meta.Choices {
	var out meta.Choices
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, label, found := strings.Cut(line, "=")
		value = strings.TrimSpace(value)
		label = strings.TrimSpace(label)
		if !found || label == "" {
			label = value
		}
		if value == "" {
			continue
		}
		out = append(out, meta.Choice{Value: value, Label: label})
	}
	return out
}

func requireKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("key is required")
	}
	return nil
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
