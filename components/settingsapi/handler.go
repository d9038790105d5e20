package settingsapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/restschema"
	"github.com/goliatone/go-metafields/pkg/settings"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type settingsPayload struct {
	Values map[string]any  `json:"values"`
	Fields []meta.UIConfig `json:"fields"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type updateRequest struct {
	Values map[string]any `json:"values"`
}

type controller struct {
	opts Options
}

// Handler builds the controller with default options plus any overrides.
// Routes are relative to the handler root; see RegisterRoutes for mounting.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the controller from a pre-constructed Options
// value. Defaults are re-applied so a zero Options is usable.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	c := &controller{opts: opts}

	r := chi.NewRouter()
	r.Use(c.logRequests)
	r.Use(c.guard)
	r.Get("/settings", c.listSettings)
	r.Post("/settings", c.updateSettings)
	r.Put("/settings", c.updateSettings)
	r.Get("/fields", c.listFields)
	r.Get("/schema", c.describe)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), nil)
	})
	return r
}

func (c *controller) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.opts.Logger.Debug("settings request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (c *controller) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.opts.Guard != nil {
			if err := c.opts.Guard(r); err != nil {
				c.opts.Logger.Info("settings request rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeGuardError(w, err)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (c *controller) listSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Data: c.settingsPayload()})
}

func (c *controller) updateSettings(w http.ResponseWriter, r *http.Request) {
	var body updateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if body.Values == nil {
		writeError(w, http.StatusBadRequest, "missing values", nil)
		return
	}

	if _, err := c.opts.Registry.Update(r.Context(), body.Values); err != nil {
		if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			writeError(w, http.StatusServiceUnavailable, "request cancelled", nil)
			return
		}
		fields := settings.FieldErrors(err)
		c.opts.Logger.Info("settings update rejected", zap.Int("fields", len(fields)), zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid settings", fields)
		return
	}

	keys := make([]string, 0, len(body.Values))
	for key := range body.Values {
		keys = append(keys, key)
	}
	c.opts.Logger.Info("settings updated", zap.Strings("keys", keys))
	writeJSON(w, http.StatusOK, dataResponse{Data: c.settingsPayload()})
}

func (c *controller) listFields(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	objectType, err := meta.ParseObjectType(query.Get("objectType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	configs := c.opts.Catalog.UIConfigs(objectType, query.Get("subtype"))
	if configs == nil {
		configs = []meta.UIConfig{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: configs})
}

func (c *controller) describe(w http.ResponseWriter, _ *http.Request) {
	doc := restschema.Document(restschema.DocumentOptions{
		Title:    c.opts.Title,
		Version:  c.opts.Version,
		BasePath: c.opts.BasePath,
		Settings: c.opts.Registry.Fields(),
	})
	writeJSON(w, http.StatusOK, doc)
}

func (c *controller) settingsPayload() settingsPayload {
	fields := c.opts.Registry.UIConfigs()
	if fields == nil {
		fields = []meta.UIConfig{}
	}
	return settingsPayload{Values: c.opts.Registry.RestValues(), Fields: fields}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	writeJSON(w, status, errorResponse{Error: message, Fields: fields})
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	writeError(w, code, http.StatusText(code), nil)
}
