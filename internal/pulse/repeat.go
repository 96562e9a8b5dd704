package pulse

import (
	"context"
	"fmt"
	"math"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// Repeat executes one sub-template a bounded number of times. The count may
// itself be a parameter.
type Repeat struct {
	child         Template
	count         Expr
	decls         map[string]param.Declaration
	windows       []Window
	interruptable bool
}

// NewRepeat builds a bounded-repeat template.
func NewRepeat(child Template, count Expr, decls []param.Declaration, windows []Window, interruptable bool) (*Repeat, error) {
	if child == nil {
		return nil, fmt.Errorf("repeat template needs a child")
	}
	dm, err := declMap(decls)
	if err != nil {
		return nil, err
	}
	if count.IsRef() {
		if _, ok := dm[count.RefName()]; !ok {
			return nil, fmt.Errorf("repeat count references undeclared parameter %q", count.RefName())
		}
	} else if err := checkCount(mustLiteral(count)); err != nil {
		return nil, err
	}
	return &Repeat{
		child:         child,
		count:         count,
		decls:         dm,
		windows:       cloneWindows(windows),
		interruptable: interruptable,
	}, nil
}

// Child returns the repeated sub-template.
func (r *Repeat) Child() Template { return r.child }

// Count resolves the repetition count against a binding.
func (r *Repeat) Count(values param.Values) (int, error) {
	v, err := r.count.Resolve(values)
	if err != nil {
		return 0, err
	}
	if err := checkCount(v); err != nil {
		return 0, err
	}
	return int(v), nil
}

// Kind implements Template.
func (r *Repeat) Kind() string { return KindRepeat }

// ParameterNames implements Template.
func (r *Repeat) ParameterNames() map[string]struct{} {
	return namesOf(r.ParameterDeclarations())
}

// ParameterDeclarations implements Template.
func (r *Repeat) ParameterDeclarations() map[string]param.Declaration {
	return mergeDecls(r.decls, r.child.ParameterDeclarations())
}

// MeasurementWindows implements Template. The child's windows appear once at
// offset zero; further repetitions are included only while both the child
// duration and the count are statically evaluable.
func (r *Repeat) MeasurementWindows() []Window {
	out := cloneWindows(r.windows)
	childWindows := r.child.MeasurementWindows()
	out = append(out, childWindows...)

	d, err := r.child.Duration()
	if err != nil {
		return out
	}
	count, ok := r.count.static(r.decls)
	if !ok || checkCount(count) != nil {
		return out
	}
	for i := 1; i < int(count); i++ {
		for _, w := range childWindows {
			out = append(out, Window{Start: w.Start + float64(i)*d, Duration: w.Duration})
		}
	}
	return out
}

// IsInterruptable implements Template.
func (r *Repeat) IsInterruptable() bool {
	return r.interruptable || r.child.IsInterruptable()
}

// Duration implements Template.
func (r *Repeat) Duration() (float64, error) {
	count, ok := r.count.static(r.decls)
	if !ok {
		return 0, &NonNumericDurationError{Kind: KindRepeat, Param: r.count.RefName()}
	}
	if err := checkCount(count); err != nil {
		return 0, err
	}
	d, err := r.child.Duration()
	if err != nil {
		return 0, err
	}
	return d * count, nil
}

// UploadWaveform implements Template.
func (r *Repeat) UploadWaveform(ctx context.Context, hw Hardware, values param.Values) (waveform.Waveform, error) {
	if err := checkBinding(r, values); err != nil {
		return nil, err
	}
	count, err := r.Count(values.Subset(r.ParameterNames()))
	if err != nil {
		return nil, err
	}
	child, err := r.child.UploadWaveform(ctx, hw, values.Subset(r.child.ParameterNames()))
	if err != nil {
		return nil, err
	}
	w, err := waveform.NewRepeat(child, count)
	if err != nil {
		return nil, fmt.Errorf("rendering repeat template: %w", err)
	}
	hw.RegisterWaveform(w)
	return w, nil
}

func checkCount(v float64) error {
	if v < 0 || math.Trunc(v) != v {
		return &InvalidRepeatCountError{Value: v}
	}
	return nil
}
