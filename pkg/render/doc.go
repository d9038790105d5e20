// Package render produces the admin page shell the settings and editor
// frontends mount into. The shell carries the widget configuration as inline
// JSON, the Vite asset tags for the entry point, and optional go-theme tokens
// exposed as CSS custom properties.
package render
