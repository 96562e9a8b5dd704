// Package pulse implements the parametrized pulse-template hierarchy. A
// template describes the structure of a control pulse once; binding its
// parameters to concrete values renders it into a waveform.
//
// Templates form a closed set of tagged variants behind one interface: table
// (the atomic leaf), sequence, repeat, and branch. Dispatch is on Kind(), not
// on open-ended subtyping. Templates are immutable after construction and are
// reused across many bindings.
package pulse
