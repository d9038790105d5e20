package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-metafields/pkg/meta"
)

// ErrDuplicateField is returned when two descriptors share a scope.
var ErrDuplicateField = errors.New("catalog: duplicate field")

// Catalog holds declared descriptors in declaration order and guarantees key
// uniqueness within each (objectType, objectSubtype) scope. It is safe for
// concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	order  []meta.Scope
	fields map[meta.Scope]meta.Descriptor
}

// New constructs a catalog seeded with descriptors.
func New(descriptors ...meta.Descriptor) (*Catalog, error) {
	c := &Catalog{fields: make(map[meta.Scope]meta.Descriptor)}
	if err := c.Add(descriptors...); err != nil {
		return nil, err
	}
	return c, nil
}

// Add appends descriptors. Either all are added or, on a duplicate scope or a
// zero descriptor, none are.
func (c *Catalog) Add(descriptors ...meta.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fields == nil {
		c.fields = make(map[meta.Scope]meta.Descriptor)
	}

	pending := make(map[meta.Scope]struct{}, len(descriptors))
	for _, d := range descriptors {
		if d.IsZero() {
			return errors.New("catalog: descriptor was not constructed with meta.New")
		}
		scope := d.Scope()
		if _, exists := c.fields[scope]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateField, scope)
		}
		if _, exists := pending[scope]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateField, scope)
		}
		pending[scope] = struct{}{}
	}

	for _, d := range descriptors {
		scope := d.Scope()
		c.fields[scope] = d
		c.order = append(c.order, scope)
	}
	return nil
}

// Len returns the number of declared fields.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Lookup returns the descriptor registered under scope.
func (c *Catalog) Lookup(scope meta.Scope) (meta.Descriptor, bool) {
	if c == nil {
		return meta.Descriptor{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.fields[scope]
	return d, ok
}

// All returns every descriptor in declaration order.
func (c *Catalog) All() []meta.Descriptor {
	return c.filter(func(meta.Descriptor) bool { return true })
}

// For returns the fields that apply to objects of objectType/subtype: fields
// declared for that exact subtype plus fields declared for every subtype.
// An empty subtype only matches all-subtype fields.
func (c *Catalog) For(objectType meta.ObjectType, subtype string) []meta.Descriptor {
	return c.filter(func(d meta.Descriptor) bool {
		if d.ObjectType() != objectType {
			return false
		}
		declared, scoped := d.ObjectSubtype()
		return !scoped || declared == subtype
	})
}

// UIConfigs returns the widget configuration of editor-visible fields that
// apply to objectType/subtype.
func (c *Catalog) UIConfigs(objectType meta.ObjectType, subtype string) []meta.UIConfig {
	fields := c.For(objectType, subtype)
	out := make([]meta.UIConfig, 0, len(fields))
	for _, d := range fields {
		if !d.ShowInEditor() {
			continue
		}
		out = append(out, d.ToUiConfig())
	}
	return out
}

// RestFields returns the REST-visible fields that apply to objectType/subtype.
func (c *Catalog) RestFields(objectType meta.ObjectType, subtype string) []meta.Descriptor {
	fields := c.For(objectType, subtype)
	out := fields[:0]
	for _, d := range fields {
		if d.ShowInRest() {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) filter(keep func(meta.Descriptor) bool) []meta.Descriptor {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]meta.Descriptor, 0, len(c.order))
	for _, scope := range c.order {
		d := c.fields[scope]
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Registrar is the host field-registration API.
type Registrar interface {
	RegisterMeta(ctx context.Context, objectType meta.ObjectType, key string, args meta.RegistrationArgs) error
}

// RegisterAll registers every field with the host in declaration order. The
// first failure aborts registration so a broken declaration fails activation
// instead of leaving a degraded field set behind.
func (c *Catalog) RegisterAll(ctx context.Context, registrar Registrar) error {
	if registrar == nil {
		return errors.New("catalog: registrar is required")
	}
	for _, d := range c.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := registrar.RegisterMeta(ctx, d.ObjectType(), d.Key(), d.ToRegistrationArgs()); err != nil {
			return fmt.Errorf("catalog: register %s: %w", d.Scope(), err)
		}
	}
	return nil
}
