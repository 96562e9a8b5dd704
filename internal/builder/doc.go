// Package builder turns the format-agnostic pulse-definition model into
// immutable pulse.Template trees, resolving references between named pulses
// and rejecting unknown references and reference cycles.
package builder
