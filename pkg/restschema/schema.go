package restschema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-metafields/pkg/meta"
)

// ErrValueRequired is returned when validating a nil value.
var ErrValueRequired = errors.New("restschema: value is required")

// ValueError reports a value that does not satisfy a field's schema.
type ValueError struct {
	Key string
	Err error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("restschema: %s: %v", e.Key, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Schema converts a descriptor into an OpenAPI schema carrying the same type,
// description and default as its REST schema fragment. String fields with
// options gain an enum; array fields with options constrain their items.
func Schema(d meta.Descriptor) *openapi3.Schema {
	var schema *openapi3.Schema
	choices := d.Options()

	switch d.DataType() {
	case meta.DataTypeInteger:
		schema = openapi3.NewIntegerSchema()
	case meta.DataTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case meta.DataTypeBoolean:
		schema = openapi3.NewBoolSchema()
	case meta.DataTypeArray:
		items := openapi3.NewSchema()
		if len(choices) > 0 {
			items = openapi3.NewStringSchema().WithEnum(enumValues(choices)...)
		}
		schema = openapi3.NewArraySchema().WithItems(items)
	default:
		schema = openapi3.NewStringSchema()
		if len(choices) > 0 {
			values := enumValues(choices)
			// An implicit or off-list default stays assignable.
			if def, ok := d.Default().(string); ok && !choices.Has(def) {
				values = append(values, def)
			}
			schema = schema.WithEnum(values...)
		}
	}

	schema.Description = d.Description()
	schema.Default = jsonValue(d.Default())
	if label := d.Label(); label != "" {
		schema.Title = label
	}
	return schema
}

// ObjectSchema builds an object schema keyed by field key from the
// REST-visible descriptors. Hidden fields are left out entirely.
func ObjectSchema(descriptors []meta.Descriptor) *openapi3.Schema {
	object := openapi3.NewObjectSchema()
	for _, d := range descriptors {
		if !d.ShowInRest() {
			continue
		}
		object.WithProperty(d.Key(), Schema(d))
	}
	return object
}

// Validate checks value against the descriptor schema.
func Validate(d meta.Descriptor, value any) error {
	if value == nil {
		return &ValueError{Key: d.Key(), Err: ErrValueRequired}
	}
	if err := Schema(d).VisitJSON(jsonValue(value)); err != nil {
		return &ValueError{Key: d.Key(), Err: err}
	}
	return nil
}

func enumValues(choices meta.Choices) []any {
	out := make([]any, len(choices))
	for idx, choice := range choices {
		out[idx] = choice.Value
	}
	return out
}

// jsonValue normalises Go values into the shapes encoding/json produces
// (float64 numbers, []any, map[string]any) which is what VisitJSON expects.
func jsonValue(value any) any {
	switch value.(type) {
	case nil, bool, string, float64:
		return value
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return value
	}
	return out
}
