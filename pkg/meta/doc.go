// Package meta defines the declarative metadata descriptor used to attach custom
// fields to content objects (posts, terms, users). A Descriptor is built once,
// usually at bootstrap, through the validating New factory and never changes
// afterwards. Three read-only views are derived from it:
//
//   - ToRegistrationArgs: the flat argument bundle the host framework needs to
//     register the field against an object type/subtype.
//   - ToRestSchemaVisibility: either false (hidden from REST) or a schema
//     fragment carrying type, description and default.
//   - ToUiConfig: the JSON-serialisable widget configuration consumed by the
//     editor and settings frontends.
//
// Derivations are total and deterministic, so descriptors can be shared across
// goroutines without synchronisation.
package meta
