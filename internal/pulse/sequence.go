package pulse

import (
	"context"
	"fmt"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// Sequence concatenates sub-templates in structural order.
type Sequence struct {
	children      []Template
	decls         map[string]param.Declaration
	windows       []Window
	interruptable bool
}

// NewSequence builds a sequence template over the given children.
func NewSequence(children []Template, decls []param.Declaration, windows []Window, interruptable bool) (*Sequence, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("sequence template needs at least one child")
	}
	dm, err := declMap(decls)
	if err != nil {
		return nil, err
	}
	owned := make([]Template, len(children))
	copy(owned, children)
	return &Sequence{
		children:      owned,
		decls:         dm,
		windows:       cloneWindows(windows),
		interruptable: interruptable,
	}, nil
}

// Children returns the sub-templates in structural order.
func (s *Sequence) Children() []Template {
	out := make([]Template, len(s.children))
	copy(out, s.children)
	return out
}

// Kind implements Template.
func (s *Sequence) Kind() string { return KindSequence }

// ParameterNames implements Template.
func (s *Sequence) ParameterNames() map[string]struct{} {
	return namesOf(s.ParameterDeclarations())
}

// ParameterDeclarations implements Template.
func (s *Sequence) ParameterDeclarations() map[string]param.Declaration {
	maps := []map[string]param.Declaration{s.decls}
	for _, c := range s.children {
		maps = append(maps, c.ParameterDeclarations())
	}
	return mergeDecls(maps...)
}

// MeasurementWindows implements Template. Child windows are offset by the
// nominal durations of preceding children; once a preceding duration stops
// being statically evaluable, later children's windows are omitted.
func (s *Sequence) MeasurementWindows() []Window {
	out := cloneWindows(s.windows)
	offset := 0.0
	known := true
	for _, c := range s.children {
		if known {
			for _, w := range c.MeasurementWindows() {
				out = append(out, Window{Start: w.Start + offset, Duration: w.Duration})
			}
		}
		d, err := c.Duration()
		if err != nil {
			known = false
			continue
		}
		offset += d
	}
	return out
}

// IsInterruptable implements Template.
func (s *Sequence) IsInterruptable() bool {
	if s.interruptable {
		return true
	}
	for _, c := range s.children {
		if c.IsInterruptable() {
			return true
		}
	}
	return false
}

// Duration implements Template.
func (s *Sequence) Duration() (float64, error) {
	total := 0.0
	for _, c := range s.children {
		d, err := c.Duration()
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// UploadWaveform implements Template. Children are resolved and uploaded
// depth-first in structural order, each with the binding restricted to its
// own parameter set.
func (s *Sequence) UploadWaveform(ctx context.Context, hw Hardware, values param.Values) (waveform.Waveform, error) {
	if err := checkBinding(s, values); err != nil {
		return nil, err
	}
	parts := make([]waveform.Waveform, len(s.children))
	for i, c := range s.children {
		w, err := c.UploadWaveform(ctx, hw, values.Subset(c.ParameterNames()))
		if err != nil {
			return nil, err
		}
		parts[i] = w
	}
	w, err := waveform.NewSequence(parts...)
	if err != nil {
		return nil, fmt.Errorf("rendering sequence template: %w", err)
	}
	hw.RegisterWaveform(w)
	return w, nil
}
