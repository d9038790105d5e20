// Package settings implements the plugin settings registry behind the settings
// REST controller. Each setting is a meta.Descriptor; values are validated
// against the descriptor's REST schema and kept in memory.
package settings
