package widgets

import (
	"sort"
	"strings"
	"sync"
)

// Built-in input widget identifiers.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetToggle   = "toggle"
	WidgetSelect   = "select"
	WidgetTags     = "tags"
	WidgetColor    = "color"
)

// Field is the inference subject: the declared data type, any explicit input
// type and how many choice options the field carries.
type Field struct {
	Key         string
	Type        string
	Explicit    string
	OptionCount int
}

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects input widgets for fields based on an explicit input type or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry only resolves explicit widgets.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without built-ins, for hosts that
// want to supply their own widget table.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a widget matcher with the provided name and priority. Blank
// names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field. An explicit input type is returned
// verbatim before any matcher runs.
func (r *Registry) Resolve(field Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Explicit); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Names lists the registered widget names in resolution order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	names := make([]string, len(rules))
	for idx, entry := range rules {
		names[idx] = entry.name
	}
	return names
}

func (r *Registry) registerBuiltins() {
	// Choice fields render as a select whatever their storage type.
	r.Register(WidgetSelect, 100, func(field Field) bool {
		return field.OptionCount > 0
	})

	r.Register(WidgetCheckbox, 90, func(field Field) bool {
		return field.Type == "boolean"
	})

	r.Register(WidgetNumber, 80, func(field Field) bool {
		return field.Type == "integer" || field.Type == "number"
	})

	r.Register(WidgetTags, 70, func(field Field) bool {
		return field.Type == "array"
	})

	r.Register(WidgetText, 10, func(field Field) bool {
		return field.Type == "string"
	})
}

var builtin = NewRegistry()

// Infer resolves a field against the built-in table, falling back to text.
// The built-in registry is never mutated, so Infer is safe for concurrent use.
func Infer(field Field) string {
	if name, ok := builtin.Resolve(field); ok {
		return name
	}
	return WidgetText
}
