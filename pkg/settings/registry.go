package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/restschema"
)

var (
	// ErrUnknownSetting is returned for keys that were never declared.
	ErrUnknownSetting = errors.New("settings: unknown setting")
	// ErrNotWritable is returned when updating a setting hidden from REST.
	ErrNotWritable = errors.New("settings: setting is not exposed over REST")
)

// KeyError ties an update failure to the setting key that caused it.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("settings: %s: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// ChangeFunc observes committed updates. It receives the keys that changed and
// the full value snapshot after the update.
type ChangeFunc func(ctx context.Context, changed []string, values map[string]any)

// Registry holds the declared plugin settings and their current values. Values
// live in memory for the process lifetime; unset keys report their declared
// default. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	fields   map[string]meta.Descriptor
	values   map[string]any
	onChange []ChangeFunc
}

// NewRegistry builds a registry from setting descriptors. Keys must be unique.
func NewRegistry(descriptors ...meta.Descriptor) (*Registry, error) {
	r := &Registry{
		fields: make(map[string]meta.Descriptor, len(descriptors)),
		values: make(map[string]any),
	}
	for _, d := range descriptors {
		if d.IsZero() {
			return nil, errors.New("settings: descriptor was not constructed with meta.New")
		}
		if _, exists := r.fields[d.Key()]; exists {
			return nil, fmt.Errorf("settings: duplicate setting %q", d.Key())
		}
		r.fields[d.Key()] = d
		r.order = append(r.order, d.Key())
	}
	return r, nil
}

// OnChange registers a hook invoked after every successful Update.
func (r *Registry) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Fields returns the setting descriptors in declaration order.
func (r *Registry) Fields() []meta.Descriptor {
	out := make([]meta.Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.fields[key])
	}
	return out
}

// RestFields returns the settings exposed over REST.
func (r *Registry) RestFields() []meta.Descriptor {
	var out []meta.Descriptor
	for _, d := range r.Fields() {
		if d.ShowInRest() {
			out = append(out, d)
		}
	}
	return out
}

// UIConfigs returns the widget configuration of editor-visible settings.
func (r *Registry) UIConfigs() []meta.UIConfig {
	var out []meta.UIConfig
	for _, d := range r.Fields() {
		if d.ShowInEditor() && d.ShowInRest() {
			out = append(out, d.ToUiConfig())
		}
	}
	return out
}

// Field returns the descriptor for key.
func (r *Registry) Field(key string) (meta.Descriptor, bool) {
	d, ok := r.fields[key]
	return d, ok
}

// Get returns the current value of key, or its default when unset.
func (r *Registry) Get(key string) (any, error) {
	d, ok := r.fields[key]
	if !ok {
		return nil, &KeyError{Key: key, Err: ErrUnknownSetting}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if value, ok := r.values[key]; ok {
		return meta.Clone(value), nil
	}
	return d.Default(), nil
}

// Values returns every setting value, defaults included.
func (r *Registry) Values() map[string]any {
	return r.snapshot(func(meta.Descriptor) bool { return true })
}

// RestValues returns the values of settings exposed over REST.
func (r *Registry) RestValues() map[string]any {
	return r.snapshot(meta.Descriptor.ShowInRest)
}

func (r *Registry) snapshot(keep func(meta.Descriptor) bool) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(keep)
}

// snapshotLocked requires r.mu to be held.
func (r *Registry) snapshotLocked(keep func(meta.Descriptor) bool) map[string]any {
	out := make(map[string]any, len(r.order))
	for _, key := range r.order {
		d := r.fields[key]
		if !keep(d) {
			continue
		}
		if value, ok := r.values[key]; ok {
			out[key] = meta.Clone(value)
			continue
		}
		out[key] = d.Default()
	}
	return out
}

// Update validates and applies changes atomically: either every key is
// accepted or nothing changes. A nil value resets the key to its default.
// Failures are joined *KeyError values, one per rejected key.
func (r *Registry) Update(ctx context.Context, changes map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	pending := make(map[string]any, len(keys))
	for _, key := range keys {
		d, ok := r.fields[key]
		switch {
		case !ok:
			errs = append(errs, &KeyError{Key: key, Err: ErrUnknownSetting})
		case !d.ShowInRest():
			errs = append(errs, &KeyError{Key: key, Err: ErrNotWritable})
		case changes[key] == nil:
			pending[key] = nil
		default:
			if err := restschema.Validate(d, changes[key]); err != nil {
				errs = append(errs, &KeyError{Key: key, Err: err})
				continue
			}
			value, err := meta.Coerce(key, d.DataType(), changes[key])
			if err != nil {
				errs = append(errs, &KeyError{Key: key, Err: err})
				continue
			}
			pending[key] = value
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r.mu.Lock()
	for _, key := range keys {
		if pending[key] == nil {
			delete(r.values, key)
			continue
		}
		r.values[key] = pending[key]
	}
	hooks := append([]ChangeFunc(nil), r.onChange...)
	values := r.snapshotLocked(func(meta.Descriptor) bool { return true })
	rest := r.snapshotLocked(meta.Descriptor.ShowInRest)
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, keys, values)
	}
	return rest, nil
}

// FieldErrors groups the *KeyError values inside err by key, for REST error
// payloads.
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var keyErr *KeyError
		if errors.As(err, &keyErr) {
			out[keyErr.Key] = append(out[keyErr.Key], strings.TrimPrefix(keyErr.Err.Error(), "restschema: "+keyErr.Key+": "))
		}
	}
	walk(err)
	if len(out) == 0 {
		return nil
	}
	return out
}
