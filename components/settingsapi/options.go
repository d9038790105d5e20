package settingsapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-metafields/pkg/catalog"
	"github.com/goliatone/go-metafields/pkg/settings"
)

// DefaultBasePath mirrors the REST namespace the plugin registers with the host.
const DefaultBasePath = "/wp-json/plugin-name/v1"

const defaultMaxBodyBytes int64 = 1 << 20

// GuardFunc decides whether a request may reach the controller. Returning an
// error carrying a StatusCode (see StatusError) selects the response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	BasePath     string
	Title        string
	Version      string
	MaxBodyBytes int64
	Guard        GuardFunc
	Logger       *zap.Logger

	Registry *settings.Registry
	Catalog  *catalog.Catalog
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		BasePath:     DefaultBasePath,
		Title:        "Plugin settings",
		Version:      "1.0.0",
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.Title == "" {
		opts.Title = "Plugin settings"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry, _ = settings.NewRegistry()
	}
	if opts.Catalog == nil {
		opts.Catalog, _ = catalog.New()
	}
	return opts
}

func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

func WithTitle(title, version string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
		o.Version = version
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithRegistry(registry *settings.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = registry
	}
}

func WithCatalog(c *catalog.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = c
	}
}
