// Package restschema turns metadata descriptors into OpenAPI schemas using
// kin-openapi. It documents the settings REST controller and validates
// incoming values against each field's declared type, default and options.
package restschema
