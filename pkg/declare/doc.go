// Package declare loads metadata field and plugin setting declarations from
// JSON or YAML files. Every entry is validated through meta.New, so a
// malformed declaration fails the load instead of registering a degraded
// field.
package declare
