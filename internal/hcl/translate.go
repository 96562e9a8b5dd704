package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/qdlab/pulsec/internal/config"
	"github.com/qdlab/pulsec/internal/schema"
)

// translatePulse converts one HCL pulse block into the agnostic model,
// enforcing that exactly one variant block is present.
func translatePulse(p *schema.Pulse) (*config.PulseDefinition, error) {
	def := &config.PulseDefinition{
		Name:          p.Name,
		Interruptable: p.Interruptable,
		Parameters:    make(map[string]*config.ParameterDefinition),
	}

	for _, par := range p.Parameters {
		if _, ok := def.Parameters[par.Name]; ok {
			return nil, fmt.Errorf("pulse %q: parameter %q declared more than once", p.Name, par.Name)
		}
		def.Parameters[par.Name] = &config.ParameterDefinition{
			Name:        par.Name,
			Description: par.Description,
			Default:     par.Default,
			Min:         par.Min,
			Max:         par.Max,
		}
	}

	for _, m := range p.Measurements {
		def.Windows = append(def.Windows, config.Window{Start: m.Start, Duration: m.Duration})
	}

	variants := 0
	if p.Table != nil {
		variants++
		def.Kind = config.KindTable
		for i, e := range p.Table.Entries {
			at, err := translateScalar(e.Time)
			if err != nil {
				return nil, fmt.Errorf("pulse %q: table entry %d time: %w", p.Name, i, err)
			}
			v, err := translateScalar(e.Voltage)
			if err != nil {
				return nil, fmt.Errorf("pulse %q: table entry %d voltage: %w", p.Name, i, err)
			}
			def.Entries = append(def.Entries, &config.TableEntry{
				Time:          at,
				Voltage:       v,
				Interpolation: e.Interpolation,
			})
		}
	}
	if p.Sequence != nil {
		variants++
		def.Kind = config.KindSequence
		def.Children = p.Sequence.Of
	}
	if p.Repeat != nil {
		variants++
		def.Kind = config.KindRepeat
		def.Child = p.Repeat.Of
		count, err := translateScalar(p.Repeat.Count)
		if err != nil {
			return nil, fmt.Errorf("pulse %q: repeat count: %w", p.Name, err)
		}
		def.Count = count
	}
	if p.Branch != nil {
		variants++
		def.Kind = config.KindBranch
		def.Condition = p.Branch.Condition
		def.Then = p.Branch.Then
		def.Else = p.Branch.Else
	}

	if variants != 1 {
		return nil, fmt.Errorf("pulse %q: exactly one of table, sequence, repeat, or branch is required, got %d", p.Name, variants)
	}
	return def, nil
}

// translateScalar evaluates an HCL expression into a literal number or a
// parameter reference. A number stays a literal; a string names a parameter.
func translateScalar(expr hcl.Expression) (config.Scalar, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Scalar{}, fmt.Errorf("expression is not a constant: %w", diags)
	}
	switch val.Type() {
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return config.Scalar{}, err
		}
		return config.Scalar{Literal: f}, nil
	case cty.String:
		name := val.AsString()
		if name == "" {
			return config.Scalar{}, fmt.Errorf("parameter reference must not be empty")
		}
		return config.Scalar{Param: name}, nil
	default:
		return config.Scalar{}, fmt.Errorf("expected a number or a parameter name, got %s", val.Type().FriendlyName())
	}
}
