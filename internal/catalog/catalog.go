// Package catalog holds the constructed pulse templates of one application
// instance, addressable by name.
package catalog

import (
	"fmt"
	"sort"

	"github.com/qdlab/pulsec/internal/pulse"
)

// Catalog maps pulse names to their immutable templates.
type Catalog struct {
	templates map[string]pulse.Template
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{templates: make(map[string]pulse.Template)}
}

// Add registers a template under a name.
func (c *Catalog) Add(name string, tmpl pulse.Template) error {
	if _, ok := c.templates[name]; ok {
		return fmt.Errorf("pulse %q already in catalog", name)
	}
	c.templates[name] = tmpl
	return nil
}

// Lookup returns the template registered under a name.
func (c *Catalog) Lookup(name string) (pulse.Template, bool) {
	tmpl, ok := c.templates[name]
	return tmpl, ok
}

// Names returns all registered names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
