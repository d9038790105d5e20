package settingsapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Mux is the minimal interface required to register the controller.
// It is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath normalises basePath the way RegisterRoutes mounts it.
func MountPath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	return "/" + strings.Trim(basePath, "/")
}

// RegisterRoutes mounts the controller under basePath on mux. An empty
// basePath falls back to DefaultBasePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	if strings.TrimSpace(basePath) != "" {
		opts.BasePath = basePath
	}
	return RegisterRoutesWithOptions(mux, opts)
}

// RegisterRoutesWithOptions mounts the controller under opts.BasePath.
func RegisterRoutesWithOptions(mux Mux, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("settingsapi: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	base := MountPath(opts.BasePath)
	opts.BasePath = base
	handler := HandlerWithOptions(opts)

	if router, ok := mux.(chi.Router); ok {
		router.Mount(orRoot(base), handler)
		return orRoot(base), nil
	}
	if base == "" {
		mux.Handle("/", handler)
		return "/", nil
	}
	mux.Handle(base+"/", http.StripPrefix(base, handler))
	return base, nil
}

func orRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
