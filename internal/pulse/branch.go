package pulse

import (
	"context"
	"fmt"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// Branch selects between two sub-templates on a condition parameter. It is a
// structural variant only: the hardware cannot branch, so rendering it to a
// waveform fails and compiled blocks containing its effect are rejected.
type Branch struct {
	condition     string
	then          Template
	els           Template
	decls         map[string]param.Declaration
	windows       []Window
	interruptable bool
}

// NewBranch builds a branch template. The condition parameter must be
// declared.
func NewBranch(condition string, then, els Template, decls []param.Declaration, windows []Window, interruptable bool) (*Branch, error) {
	if then == nil || els == nil {
		return nil, fmt.Errorf("branch template needs both a then and an else child")
	}
	dm, err := declMap(decls)
	if err != nil {
		return nil, err
	}
	if _, ok := dm[condition]; !ok {
		return nil, fmt.Errorf("branch condition references undeclared parameter %q", condition)
	}
	return &Branch{
		condition:     condition,
		then:          then,
		els:           els,
		decls:         dm,
		windows:       cloneWindows(windows),
		interruptable: interruptable,
	}, nil
}

// Condition returns the name of the condition parameter.
func (b *Branch) Condition() string { return b.condition }

// Then returns the sub-template taken on a non-zero condition.
func (b *Branch) Then() Template { return b.then }

// Else returns the sub-template taken on a zero condition.
func (b *Branch) Else() Template { return b.els }

// Kind implements Template.
func (b *Branch) Kind() string { return KindBranch }

// ParameterNames implements Template.
func (b *Branch) ParameterNames() map[string]struct{} {
	return namesOf(b.ParameterDeclarations())
}

// ParameterDeclarations implements Template.
func (b *Branch) ParameterDeclarations() map[string]param.Declaration {
	return mergeDecls(b.decls, b.then.ParameterDeclarations(), b.els.ParameterDeclarations())
}

// MeasurementWindows implements Template. Which arm runs is unknown
// structurally, so only the branch's own windows are reported.
func (b *Branch) MeasurementWindows() []Window {
	return cloneWindows(b.windows)
}

// IsInterruptable implements Template.
func (b *Branch) IsInterruptable() bool {
	return b.interruptable || b.then.IsInterruptable() || b.els.IsInterruptable()
}

// Duration implements Template. A branch has no single nominal duration.
func (b *Branch) Duration() (float64, error) {
	return 0, &NonNumericDurationError{Kind: KindBranch}
}

// UploadWaveform implements Template. It always fails after the binding
// check: a branch cannot be rendered to one waveform.
func (b *Branch) UploadWaveform(ctx context.Context, hw Hardware, values param.Values) (waveform.Waveform, error) {
	if err := checkBinding(b, values); err != nil {
		return nil, err
	}
	return nil, ErrBranchWaveform
}
