package waveform

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Waveform is an immutable, value-equal, sampleable signal segment.
type Waveform interface {
	// Duration returns the segment length in template time units, always > 0.
	Duration() float64

	// Sample evaluates the amplitude at each time point. Inputs must be
	// ordered and lie in [0, Duration]. The result has the same length as
	// the input, and sampling has no observable side effects.
	Sample(times []float64) []float64

	// Key returns the canonical content key of this waveform. Two waveforms
	// with equal keys sample identically on any grid.
	Key() string
}

// Name derives the stable hardware name for a waveform from its content key.
func Name(w Waveform) string {
	return fmt.Sprintf("wf_%016x", xxhash.Sum64String(w.Key()))
}

// formatFloat renders a float for use inside content keys. The 'g' format
// with full precision round-trips, so distinct values never collide.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
