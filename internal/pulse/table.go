package pulse

import (
	"context"
	"fmt"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// TableEntry is one support point of a table template. Time and voltage may
// each be a literal or a parameter reference.
type TableEntry struct {
	Time    Expr
	Voltage Expr
	Interp  waveform.Interpolation
}

// Table is the atomic template: a table of (time, voltage) entries rendered
// by piecewise interpolation.
type Table struct {
	entries       []TableEntry
	decls         map[string]param.Declaration
	windows       []Window
	interruptable bool
}

// NewTable validates entries against the declarations and builds the template.
// The first entry must sit at literal time 0; every referenced parameter must
// be declared.
func NewTable(entries []TableEntry, decls []param.Declaration, windows []Window, interruptable bool) (*Table, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("table template needs at least 2 entries, got %d", len(entries))
	}
	if entries[0].Time.IsRef() || mustLiteral(entries[0].Time) != 0 {
		return nil, fmt.Errorf("table template must start at literal time 0")
	}
	dm, err := declMap(decls)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		for _, expr := range []Expr{e.Time, e.Voltage} {
			if expr.IsRef() {
				if _, ok := dm[expr.RefName()]; !ok {
					return nil, fmt.Errorf("table entry %d references undeclared parameter %q", i, expr.RefName())
				}
			}
		}
		// An empty interpolation defaults to hold at render time.
		if i > 0 && e.Interp != "" && e.Interp != waveform.Hold && e.Interp != waveform.Linear {
			return nil, fmt.Errorf("table entry %d has unknown interpolation %q", i, e.Interp)
		}
	}
	owned := make([]TableEntry, len(entries))
	copy(owned, entries)
	return &Table{
		entries:       owned,
		decls:         dm,
		windows:       cloneWindows(windows),
		interruptable: interruptable,
	}, nil
}

// Kind implements Template.
func (t *Table) Kind() string { return KindTable }

// ParameterNames implements Template.
func (t *Table) ParameterNames() map[string]struct{} {
	return namesOf(t.decls)
}

// ParameterDeclarations implements Template.
func (t *Table) ParameterDeclarations() map[string]param.Declaration {
	return cloneDecls(t.decls)
}

// MeasurementWindows implements Template.
func (t *Table) MeasurementWindows() []Window {
	return cloneWindows(t.windows)
}

// IsInterruptable implements Template.
func (t *Table) IsInterruptable() bool { return t.interruptable }

// Duration implements Template. The nominal duration is the last entry's
// time, evaluated against declared defaults.
func (t *Table) Duration() (float64, error) {
	last := t.entries[len(t.entries)-1].Time
	v, ok := last.static(t.decls)
	if !ok {
		return 0, &NonNumericDurationError{Kind: KindTable, Param: last.RefName()}
	}
	return v, nil
}

// UploadWaveform implements Template.
func (t *Table) UploadWaveform(ctx context.Context, hw Hardware, values param.Values) (waveform.Waveform, error) {
	if err := checkBinding(t, values); err != nil {
		return nil, err
	}
	points := make([]waveform.Point, len(t.entries))
	for i, e := range t.entries {
		at, err := e.Time.Resolve(values)
		if err != nil {
			return nil, err
		}
		v, err := e.Voltage.Resolve(values)
		if err != nil {
			return nil, err
		}
		interp := e.Interp
		if interp == "" {
			interp = waveform.Hold
		}
		points[i] = waveform.Point{Time: at, Voltage: v, Interp: interp}
	}
	w, err := waveform.NewTable(points)
	if err != nil {
		return nil, fmt.Errorf("rendering table template: %w", err)
	}
	hw.RegisterWaveform(w)
	return w, nil
}

// mustLiteral reads a literal expression's value. Callers guard with IsRef.
func mustLiteral(e Expr) float64 {
	v, _ := e.Resolve(nil)
	return v
}
