// Package waveform defines the sampled signal segments the compiler operates
// on. A waveform is immutable, has a fixed positive duration in template time
// units, and samples deterministically.
//
// Equality is by value, not identity: every waveform derives a canonical
// content key from its generating parameters, and two waveforms with the same
// key sample identically on any grid. The pulse-group compiler deduplicates on
// that key, and the hardware name of a waveform is an xxhash of it, so names
// are reproducible across processes and runs.
package waveform
