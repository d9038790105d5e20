package declare

import (
	"embed"
	"io/fs"
)

//go:embed declarations/*
var embeddedDeclarations embed.FS

// EmbeddedFS returns the scaffold's bundled declarations: project post type
// fields, category term meta, user meta and plugin settings.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDeclarations, "declarations")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
