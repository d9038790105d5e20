package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page template for consumers that want to
// start an override from the default layout.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
