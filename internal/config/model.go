package config

// Model is the unified representation of every pulse definition loaded for
// one application run. Order preserves first-seen definition order so builds
// are deterministic.
type Model struct {
	Pulses map[string]*PulseDefinition
	Order  []string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Pulses: make(map[string]*PulseDefinition)}
}

// Add inserts a definition, preserving order and rejecting duplicates.
func (m *Model) Add(def *PulseDefinition) error {
	if _, ok := m.Pulses[def.Name]; ok {
		return &DuplicatePulseError{Name: def.Name}
	}
	m.Pulses[def.Name] = def
	m.Order = append(m.Order, def.Name)
	return nil
}

// Pulse kinds a definition can carry.
const (
	KindTable    = "table"
	KindSequence = "sequence"
	KindRepeat   = "repeat"
	KindBranch   = "branch"
)

// PulseDefinition is the format-agnostic representation of one `pulse` block.
// Exactly one of the variant sections is populated, matching Kind.
type PulseDefinition struct {
	Name          string
	Kind          string
	Interruptable bool
	Parameters    map[string]*ParameterDefinition
	Windows       []Window

	// table
	Entries []*TableEntry

	// sequence
	Children []string

	// repeat
	Child string
	Count Scalar

	// branch
	Condition string
	Then      string
	Else      string
}

// ParameterDefinition declares one free parameter of a pulse.
type ParameterDefinition struct {
	Name        string
	Description string
	Default     *float64
	Min         *float64
	Max         *float64
}

// Window is a static measurement window.
type Window struct {
	Start    float64
	Duration float64
}

// TableEntry is one support point of a table pulse.
type TableEntry struct {
	Time          Scalar
	Voltage       Scalar
	Interpolation string
}

// Scalar is a literal number or a parameter reference; Param == "" means
// literal.
type Scalar struct {
	Literal float64
	Param   string
}

// DuplicatePulseError reports two pulse definitions sharing a name.
type DuplicatePulseError struct {
	Name string
}

func (e *DuplicatePulseError) Error() string {
	return "pulse \"" + e.Name + "\" defined more than once"
}
