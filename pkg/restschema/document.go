package restschema

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-metafields/pkg/meta"
)

// DocumentOptions describes the settings API being documented.
type DocumentOptions struct {
	Title    string
	Version  string
	BasePath string
	Settings []meta.Descriptor
}

// Document builds an OpenAPI 3 description of the settings REST controller:
// GET/POST {base}/settings, GET {base}/fields and GET {base}/schema.
func Document(opts DocumentOptions) *openapi3.T {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Plugin settings"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "1.0.0"
	}
	base := "/" + strings.Trim(strings.TrimSpace(opts.BasePath), "/")
	if base == "/" {
		base = ""
	}

	values := ObjectSchema(opts.Settings)
	values.AdditionalProperties = openapi3.AdditionalProperties{Has: boolPtr(false)}

	settingsEnvelope := openapi3.NewObjectSchema().
		WithProperty("data", openapi3.NewObjectSchema().
			WithProperty("values", values).
			WithProperty("fields", openapi3.NewArraySchema().WithItems(uiConfigSchema())))

	updateBody := openapi3.NewObjectSchema().WithProperty("values", values)
	updateBody.Required = []string{"values"}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())))

	fieldsEnvelope := openapi3.NewObjectSchema().
		WithProperty("data", openapi3.NewArraySchema().WithItems(uiConfigSchema()))

	paths := openapi3.NewPaths()
	paths.Set(base+"/settings", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listSettings",
			Summary:     "List settings with their current values and UI configuration",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Current settings", settingsEnvelope)),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "updateSettings",
			Summary:     "Update one or more settings",
			RequestBody: &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(updateBody),
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Updated settings", settingsEnvelope)),
				openapi3.WithStatus(http.StatusBadRequest, jsonResponse("Validation failed", errorSchema)),
			),
		},
	})
	paths.Set(base+"/fields", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listFields",
			Summary:     "List editor field configuration for an object type",
			Parameters: openapi3.Parameters{
				{Value: openapi3.NewQueryParameter("objectType").WithSchema(objectTypeSchema())},
				{Value: openapi3.NewQueryParameter("subtype").WithSchema(openapi3.NewStringSchema())},
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Field configuration", fieldsEnvelope)),
			),
		},
	})
	paths.Set(base+"/schema", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "describeSettings",
			Summary:     "This document",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("OpenAPI document", openapi3.NewObjectSchema())),
			),
		},
	})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: paths,
	}
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
	}
}

func uiConfigSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("key", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("type", dataTypeSchema()).
		WithProperty("inputType", openapi3.NewStringSchema()).
		WithProperty("options", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
		WithProperty("default", openapi3.NewSchema())
	schema.Required = []string{"key", "label", "description", "type", "inputType", "options", "default"}
	return schema
}

func dataTypeSchema() *openapi3.Schema {
	values := make([]any, 0, len(meta.DataTypes()))
	for _, t := range meta.DataTypes() {
		values = append(values, string(t))
	}
	return openapi3.NewStringSchema().WithEnum(values...)
}

func objectTypeSchema() *openapi3.Schema {
	values := make([]any, 0, len(meta.ObjectTypes()))
	for _, t := range meta.ObjectTypes() {
		values = append(values, string(t))
	}
	return openapi3.NewStringSchema().WithEnum(values...)
}

func boolPtr(v bool) *bool { return &v }
