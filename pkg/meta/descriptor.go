package meta

import (
	"fmt"
	"strings"
)

// Options declares a metadata field. Only Key is required; zero values select
// the documented defaults:
//
//   - ObjectType: post
//   - ObjectSubtype: "" (applies to every subtype of ObjectType)
//   - DataType: string
//   - Default: nil selects the per-type default (see DefaultFor)
//   - Single, ShowInRest, ShowInEditor: nil means true
//   - InputType: "" lets ToUiConfig infer the widget
//   - Options: nil means no choices
type Options struct {
	Key           string
	ObjectType    ObjectType
	ObjectSubtype string
	DataType      DataType
	Label         string
	Description   string
	Default       any
	Single        *bool
	ShowInRest    *bool
	ShowInEditor  *bool
	InputType     string
	Options       Choices
}

// Bool returns a pointer to v, for the tri-state flags in Options.
func Bool(v bool) *bool {
	return &v
}

// Descriptor is the immutable, fully defaulted declaration of one metadata
// field. Construct it with New.
type Descriptor struct {
	key           string
	objectType    ObjectType
	objectSubtype string
	dataType      DataType
	label         string
	description   string
	defaultValue  any
	single        bool
	showInRest    bool
	showInEditor  bool
	inputType     string
	options       Choices
}

// New validates opts and returns a fully defaulted descriptor. It fails with a
// *ValidationError for an empty key, an unknown data or object type, or
// malformed options, and with a *TypeMismatchError when an explicit default
// does not match the data type.
func New(opts Options) (Descriptor, error) {
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		return Descriptor{}, &ValidationError{Field: "key", Reason: "must not be empty"}
	}

	dataType, err := ParseDataType(string(opts.DataType))
	if err != nil {
		return Descriptor{}, err
	}
	objectType, err := ParseObjectType(string(opts.ObjectType))
	if err != nil {
		return Descriptor{}, err
	}
	if err := validateChoices(opts.Options); err != nil {
		return Descriptor{}, err
	}

	defaultValue := DefaultFor(dataType)
	if opts.Default != nil {
		coerced, ok := coerceDefault(dataType, opts.Default)
		if !ok {
			return Descriptor{}, &TypeMismatchError{Key: key, DataType: dataType, Value: opts.Default}
		}
		defaultValue = coerced
	}

	return Descriptor{
		key:           key,
		objectType:    objectType,
		objectSubtype: strings.TrimSpace(opts.ObjectSubtype),
		dataType:      dataType,
		label:         strings.TrimSpace(opts.Label),
		description:   opts.Description,
		defaultValue:  defaultValue,
		single:        boolOr(opts.Single, true),
		showInRest:    boolOr(opts.ShowInRest, true),
		showInEditor:  boolOr(opts.ShowInEditor, true),
		inputType:     strings.TrimSpace(opts.InputType),
		options:       opts.Options.clone(),
	}, nil
}

// MustNew is New for static declarations; it panics on invalid options.
func MustNew(opts Options) Descriptor {
	d, err := New(opts)
	if err != nil {
		panic(err)
	}
	return d
}

func validateChoices(choices Choices) error {
	seen := make(map[string]struct{}, len(choices))
	for idx, choice := range choices {
		if strings.TrimSpace(choice.Value) == "" {
			return &ValidationError{Field: "options", Reason: fmt.Sprintf("option %d has an empty value", idx)}
		}
		if _, dup := seen[choice.Value]; dup {
			return &ValidationError{Field: "options", Value: choice.Value, Reason: "duplicate option value"}
		}
		seen[choice.Value] = struct{}{}
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (d Descriptor) Key() string            { return d.key }
func (d Descriptor) ObjectType() ObjectType { return d.objectType }
func (d Descriptor) DataType() DataType     { return d.dataType }
func (d Descriptor) Label() string          { return d.label }
func (d Descriptor) Description() string    { return d.description }
func (d Descriptor) Single() bool           { return d.single }
func (d Descriptor) ShowInRest() bool       { return d.showInRest }
func (d Descriptor) ShowInEditor() bool     { return d.showInEditor }

// ObjectSubtype returns the subtype and whether one was declared.
func (d Descriptor) ObjectSubtype() (string, bool) {
	return d.objectSubtype, d.objectSubtype != ""
}

// Default returns the effective default, explicit or inferred. Sequences are
// copied.
func (d Descriptor) Default() any {
	return Clone(d.defaultValue)
}

// InputType returns the explicitly declared input type, if any.
func (d Descriptor) InputType() (string, bool) {
	return d.inputType, d.inputType != ""
}

// Options returns a copy of the declared choices.
func (d Descriptor) Options() Choices {
	return d.options.clone()
}

// Scope returns the (objectType, objectSubtype, key) triple identifying the
// field in the host framework.
func (d Descriptor) Scope() Scope {
	return Scope{ObjectType: d.objectType, ObjectSubtype: d.objectSubtype, Key: d.key}
}

// IsZero reports whether d was not produced by New.
func (d Descriptor) IsZero() bool {
	return d.key == ""
}

// AsOptions returns Options that rebuild an equivalent descriptor through New.
func (d Descriptor) AsOptions() Options {
	return Options{
		Key:           d.key,
		ObjectType:    d.objectType,
		ObjectSubtype: d.objectSubtype,
		DataType:      d.dataType,
		Label:         d.label,
		Description:   d.description,
		Default:       d.Default(),
		Single:        Bool(d.single),
		ShowInRest:    Bool(d.showInRest),
		ShowInEditor:  Bool(d.showInEditor),
		InputType:     d.inputType,
		Options:       d.Options(),
	}
}
