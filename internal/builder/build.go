package builder

import (
	"fmt"
	"sort"

	"github.com/qdlab/pulsec/internal/catalog"
	"github.com/qdlab/pulsec/internal/config"
	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/pulse"
	"github.com/qdlab/pulsec/internal/waveform"
)

// build states for cycle detection.
const (
	stateUnvisited = iota
	stateBuilding
	stateDone
)

type builder struct {
	model *config.Model
	built map[string]pulse.Template
	state map[string]int
}

// Build constructs every template in the model and returns the populated
// catalog.
func Build(model *config.Model) (*catalog.Catalog, error) {
	b := &builder{
		model: model,
		built: make(map[string]pulse.Template),
		state: make(map[string]int),
	}

	cat := catalog.New()
	for _, name := range model.Order {
		tmpl, err := b.template(name)
		if err != nil {
			return nil, err
		}
		if err := cat.Add(name, tmpl); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// template builds one named definition, memoized, detecting cycles through
// the visit state.
func (b *builder) template(name string) (pulse.Template, error) {
	switch b.state[name] {
	case stateDone:
		return b.built[name], nil
	case stateBuilding:
		return nil, fmt.Errorf("pulse %q is part of a reference cycle", name)
	}

	def, ok := b.model.Pulses[name]
	if !ok {
		return nil, fmt.Errorf("pulse %q is referenced but not defined", name)
	}

	b.state[name] = stateBuilding
	tmpl, err := b.variant(def)
	if err != nil {
		return nil, fmt.Errorf("building pulse %q: %w", name, err)
	}
	b.state[name] = stateDone
	b.built[name] = tmpl
	return tmpl, nil
}

func (b *builder) variant(def *config.PulseDefinition) (pulse.Template, error) {
	decls := declarations(def)
	windows := windows(def)

	switch def.Kind {
	case config.KindTable:
		entries := make([]pulse.TableEntry, len(def.Entries))
		for i, e := range def.Entries {
			entries[i] = pulse.TableEntry{
				Time:    expr(e.Time),
				Voltage: expr(e.Voltage),
				Interp:  waveform.Interpolation(e.Interpolation),
			}
		}
		return pulse.NewTable(entries, decls, windows, def.Interruptable)

	case config.KindSequence:
		children := make([]pulse.Template, len(def.Children))
		for i, childName := range def.Children {
			child, err := b.template(childName)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return pulse.NewSequence(children, decls, windows, def.Interruptable)

	case config.KindRepeat:
		child, err := b.template(def.Child)
		if err != nil {
			return nil, err
		}
		return pulse.NewRepeat(child, expr(def.Count), decls, windows, def.Interruptable)

	case config.KindBranch:
		then, err := b.template(def.Then)
		if err != nil {
			return nil, err
		}
		els, err := b.template(def.Else)
		if err != nil {
			return nil, err
		}
		return pulse.NewBranch(def.Condition, then, els, decls, windows, def.Interruptable)

	default:
		return nil, fmt.Errorf("unknown pulse kind %q", def.Kind)
	}
}

func expr(s config.Scalar) pulse.Expr {
	if s.Param != "" {
		return pulse.Ref(s.Param)
	}
	return pulse.Lit(s.Literal)
}

func declarations(def *config.PulseDefinition) []param.Declaration {
	names := make([]string, 0, len(def.Parameters))
	for name := range def.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]param.Declaration, 0, len(names))
	for _, name := range names {
		p := def.Parameters[name]
		out = append(out, param.Declaration{
			Name:        p.Name,
			Description: p.Description,
			Default:     p.Default,
			Min:         p.Min,
			Max:         p.Max,
		})
	}
	return out
}

func windows(def *config.PulseDefinition) []pulse.Window {
	out := make([]pulse.Window, len(def.Windows))
	for i, w := range def.Windows {
		out[i] = pulse.Window{Start: w.Start, Duration: w.Duration}
	}
	return out
}
