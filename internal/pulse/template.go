package pulse

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// Template kinds, the tag of the variant.
const (
	KindTable    = "table"
	KindSequence = "sequence"
	KindRepeat   = "repeat"
	KindBranch   = "branch"
)

// Window is a static measurement window: a (start, duration) pair in template
// time units.
type Window struct {
	Start    float64
	Duration float64
}

// Hardware is the capability a template needs from the hardware layer while
// uploading: the legacy per-waveform pre-registration hook. Implementations
// may no-op; the full hardware interface additionally builds waveform structs
// and compiles instruction blocks.
type Hardware interface {
	RegisterWaveform(w waveform.Waveform)
}

// Template is the shared contract of all pulse-template variants.
type Template interface {
	// Kind returns the variant tag.
	Kind() string

	// ParameterNames returns the union of all parameter names declared by
	// this template and its sub-templates, transitively.
	ParameterNames() map[string]struct{}

	// ParameterDeclarations returns a copy of the declarations; mutating
	// the result does not affect the template.
	ParameterDeclarations() map[string]param.Declaration

	// MeasurementWindows returns the template's static measurement windows
	// in order. The result is structural: it never depends on a binding.
	MeasurementWindows() []Window

	// IsInterruptable reports whether this template or any sub-template
	// declares an interruption point.
	IsInterruptable() bool

	// Duration returns the nominal total duration, evaluated structurally
	// against declared defaults. It returns a *NonNumericDurationError
	// when the evaluation does not yield a number.
	Duration() (float64, error)

	// UploadWaveform resolves the template against the binding and renders
	// the waveform, forwarding hw to sub-templates so hardware-specific
	// preprocessing happens before the parent is assembled. The binding
	// must match ParameterNames exactly in both directions.
	UploadWaveform(ctx context.Context, hw Hardware, values param.Values) (waveform.Waveform, error)
}

// Expr is a scalar inside a template definition: either a literal number or a
// reference to a declared parameter.
type Expr struct {
	literal float64
	ref     string
}

// Lit returns a literal expression.
func Lit(v float64) Expr { return Expr{literal: v} }

// Ref returns a parameter reference.
func Ref(name string) Expr { return Expr{ref: name} }

// IsRef reports whether the expression references a parameter.
func (e Expr) IsRef() bool { return e.ref != "" }

// RefName returns the referenced parameter name, or "" for literals.
func (e Expr) RefName() string { return e.ref }

// Resolve evaluates the expression against a binding.
func (e Expr) Resolve(values param.Values) (float64, error) {
	if e.ref == "" {
		return e.literal, nil
	}
	v, ok := values.Lookup(e.ref)
	if !ok {
		return 0, &param.NotBoundError{Name: e.ref}
	}
	return v, nil
}

// static evaluates the expression without a binding, falling back to the
// referenced parameter's declared default.
func (e Expr) static(decls map[string]param.Declaration) (float64, bool) {
	if e.ref == "" {
		return e.literal, true
	}
	if d, ok := decls[e.ref]; ok && d.Default != nil {
		return *d.Default, true
	}
	return 0, false
}

// NonNumericDurationError reports that a template's nominal duration does not
// evaluate to a number.
type NonNumericDurationError struct {
	Kind  string
	Param string
}

func (e *NonNumericDurationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("duration of %s template is not numeric: parameter %q has no default", e.Kind, e.Param)
	}
	return fmt.Sprintf("duration of %s template is not numeric", e.Kind)
}

// InvalidRepeatCountError reports a repeat count that is not a non-negative
// integer.
type InvalidRepeatCountError struct {
	Value float64
}

func (e *InvalidRepeatCountError) Error() string {
	return fmt.Sprintf("repeat count %v is not a non-negative integer", e.Value)
}

// ErrBranchWaveform is returned when a branch template is asked to render: a
// branch has no single waveform.
var ErrBranchWaveform = errors.New("branch template cannot be rendered to a single waveform")

// CheckBinding enforces the symmetric parameter contract: every name the
// template declares must be bound, every bound name must be declared, and
// bound values must respect declared bounds. UploadWaveform performs the same
// check; sequencers use it to validate a binding before expansion.
func CheckBinding(t Template, values param.Values) error {
	return checkBinding(t, values)
}

func checkBinding(t Template, values param.Values) error {
	required := t.ParameterNames()
	for _, name := range values.Names() {
		if _, ok := required[name]; !ok {
			return &param.NotDeclaredError{Name: name}
		}
	}
	decls := t.ParameterDeclarations()
	for _, d := range sortedDeclarations(decls) {
		v, ok := values.Lookup(d.Name)
		if !ok {
			return &param.NotBoundError{Name: d.Name}
		}
		if err := d.Check(v); err != nil {
			return err
		}
	}
	return nil
}
