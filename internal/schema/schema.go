// Package schema holds the HCL shapes of pulse definition files, decoded
// with gohcl struct tags. Translation into the format-agnostic config model
// happens in the hcl package.
package schema

import "github.com/hashicorp/hcl/v2"

// Parameter represents a `parameter "name" {}` block inside a pulse.
type Parameter struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Default     *float64 `hcl:"default,optional"`
	Min         *float64 `hcl:"min,optional"`
	Max         *float64 `hcl:"max,optional"`
}

// Entry is one support point inside a `table` block. Time and voltage accept
// a number literal or a quoted parameter name, so they decode as expressions.
type Entry struct {
	Time          hcl.Expression `hcl:"time"`
	Voltage       hcl.Expression `hcl:"voltage"`
	Interpolation string         `hcl:"interpolation,optional"`
}

// Table is the atomic pulse variant.
type Table struct {
	Entries []*Entry `hcl:"entry,block"`
}

// Sequence concatenates previously defined pulses by name.
type Sequence struct {
	Of []string `hcl:"of"`
}

// Repeat plays a named pulse a bounded number of times; count accepts a
// number literal or a quoted parameter name.
type Repeat struct {
	Of    string         `hcl:"of"`
	Count hcl.Expression `hcl:"count"`
}

// Branch selects between two named pulses on a condition parameter.
type Branch struct {
	Condition string `hcl:"condition"`
	Then      string `hcl:"then"`
	Else      string `hcl:"else"`
}

// Measurement is a static measurement window.
type Measurement struct {
	Start    float64 `hcl:"start"`
	Duration float64 `hcl:"duration"`
}

// Pulse represents a `pulse "name" {}` block. Exactly one variant block must
// be present.
type Pulse struct {
	Name          string         `hcl:"name,label"`
	Interruptable bool           `hcl:"interruptable,optional"`
	Parameters    []*Parameter   `hcl:"parameter,block"`
	Table         *Table         `hcl:"table,block"`
	Sequence      *Sequence      `hcl:"sequence,block"`
	Repeat        *Repeat        `hcl:"repeat,block"`
	Branch        *Branch        `hcl:"branch,block"`
	Measurements  []*Measurement `hcl:"measurement,block"`
}

// Root is the top-level structure of a pulse definition file.
type Root struct {
	Pulses []*Pulse `hcl:"pulse,block"`
	Remain hcl.Body `hcl:",remain"`
}
