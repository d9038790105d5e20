package metafields

import (
	"io/fs"

	"github.com/goliatone/go-metafields/pkg/render"
)

// EmbeddedTemplates exposes the built-in admin page templates so callers can
// copy or extend them before passing an override to render.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
