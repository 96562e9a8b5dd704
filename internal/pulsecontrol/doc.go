// Package pulsecontrol compiles instruction blocks into pulse-group payloads
// for AWG-style hardware. It samples each distinct waveform exactly once per
// compilation, registers it through an external callback, and run-length
// encodes immediately repeated executions.
//
// The pipeline is synchronous: waveforms are registered strictly in execution
// order because run-length decisions depend on the ids already assigned.
// Hardware branching is not supported; blocks containing branch instructions
// are rejected as a whole.
package pulsecontrol
