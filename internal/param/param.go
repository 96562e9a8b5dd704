package param

import (
	"fmt"
	"sort"
)

// Declaration describes a single free parameter of a pulse template. Bounds
// and default are optional; a nil pointer means "not declared".
type Declaration struct {
	Name        string
	Description string
	Min         *float64
	Max         *float64
	Default     *float64
}

// Clone returns a deep copy. Accessors that hand declarations out to callers
// clone them so mutations never reach the template.
func (d Declaration) Clone() Declaration {
	c := d
	c.Min = clonePtr(d.Min)
	c.Max = clonePtr(d.Max)
	c.Default = clonePtr(d.Default)
	return c
}

// Check validates a bound value against the declared bounds.
func (d Declaration) Check(value float64) error {
	if d.Min != nil && value < *d.Min {
		return &OutOfBoundsError{Name: d.Name, Value: value, Bound: *d.Min, Low: true}
	}
	if d.Max != nil && value > *d.Max {
		return &OutOfBoundsError{Name: d.Name, Value: value, Bound: *d.Max, Low: false}
	}
	return nil
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Values is a parameter binding: the mapping from parameter name to the
// concrete numeric value bound for one compilation.
type Values map[string]float64

// Lookup returns the bound value for a name.
func (v Values) Lookup(name string) (float64, bool) {
	value, ok := v[name]
	return value, ok
}

// Names returns the bound names in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subset returns the restriction of the binding to the given name set.
func (v Values) Subset(names map[string]struct{}) Values {
	sub := make(Values, len(names))
	for name := range names {
		if value, ok := v[name]; ok {
			sub[name] = value
		}
	}
	return sub
}

// NotBoundError reports a parameter a template requires that the binding does
// not supply.
type NotBoundError struct {
	Name string
}

func (e *NotBoundError) Error() string {
	return fmt.Sprintf("parameter %q is required but not bound", e.Name)
}

// NotDeclaredError reports a bound name the template does not declare. The
// check is symmetric with NotBoundError: a binding must match the template's
// parameter set exactly.
type NotDeclaredError struct {
	Name string
}

func (e *NotDeclaredError) Error() string {
	return fmt.Sprintf("parameter %q is bound but not declared by the template", e.Name)
}

// OutOfBoundsError reports a bound value outside a declaration's bounds.
type OutOfBoundsError struct {
	Name  string
	Value float64
	Bound float64
	Low   bool
}

func (e *OutOfBoundsError) Error() string {
	if e.Low {
		return fmt.Sprintf("parameter %q: value %v is below the declared minimum %v", e.Name, e.Value, e.Bound)
	}
	return fmt.Sprintf("parameter %q: value %v is above the declared maximum %v", e.Name, e.Value, e.Bound)
}
