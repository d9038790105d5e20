package settingsapi

import "net/http"

// Component bundles the controller configuration with its routing helpers.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the controller rooted at "/".
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes mounts the controller on mux under the configured base path.
func (c *Component) RegisterRoutes(mux Mux) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, "")
	}
	return RegisterRoutesWithOptions(mux, c.opts)
}
