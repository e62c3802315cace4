package templates

import (
	"fmt"
	"strings"
)

// Registry holds the ordered institution templates and the generic fallback.
type Registry struct {
	ordered []*Compiled
	byName  map[string]*Compiled
	generic *Compiled
}

// NewRegistry creates a registry with only the given fallback.
func NewRegistry(generic *Compiled) *Registry {
	return &Registry{byName: make(map[string]*Compiled), generic: generic}
}

// Register appends a template to the detection order. Panics on duplicate name.
func (r *Registry) Register(c *Compiled) {
	key := strings.ToUpper(c.Name)
	if _, ok := r.byName[key]; ok {
		panic("duplicate template name: " + c.Name)
	}
	r.byName[key] = c
	r.ordered = append(r.ordered, c)
}

// Detect returns the first template, in registration order, with a
// signature found in text. Falls back to the generic template.
func (r *Registry) Detect(text string) *Compiled {
	for _, c := range r.ordered {
		if c.Matches(text) {
			return c
		}
	}
	return r.generic
}

// Get looks up an institution template by name, case-insensitively.
// The generic fallback is not returned by name.
func (r *Registry) Get(name string) (*Compiled, bool) {
	c, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	return c, ok
}

// Generic returns the fallback template.
func (r *Registry) Generic() *Compiled {
	return r.generic
}

// Names returns the institution names in detection order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		names[i] = c.Name
	}
	return names
}

// DefaultRegistry returns a registry over the built-in catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry(MustCompile(GenericTemplate()))
	for _, t := range BuiltinTemplates() {
		r.Register(MustCompile(t))
	}
	return r
}

// FromCatalog compiles a catalog into a registry.
func FromCatalog(cat Catalog) (*Registry, error) {
	if len(cat.Generic.Signatures) > 0 {
		return nil, fmt.Errorf("%w: generic template must not have signatures", ErrInvalidTemplate)
	}
	generic, err := Compile(cat.Generic)
	if err != nil {
		return nil, fmt.Errorf("compiling generic template: %w", err)
	}

	r := NewRegistry(generic)
	for i, t := range cat.Templates {
		if len(t.Signatures) == 0 {
			return nil, fmt.Errorf("%w: template %d (%s) has no signatures", ErrInvalidTemplate, i+1, t.Name)
		}
		c, err := Compile(t)
		if err != nil {
			return nil, fmt.Errorf("compiling template %d: %w", i+1, err)
		}
		if _, dup := r.Get(c.Name); dup {
			return nil, fmt.Errorf("%w: duplicate template name %q", ErrInvalidTemplate, c.Name)
		}
		r.Register(c)
	}
	return r, nil
}
