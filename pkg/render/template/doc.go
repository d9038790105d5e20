// Package template wraps a pongo2 template set behind the TemplateRenderer
// seam used by the page renderer. Templates load from an fs.FS (usually the
// embedded defaults) or a directory on disk.
package template
