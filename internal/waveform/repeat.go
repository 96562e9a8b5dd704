package waveform

import "fmt"

// Repeat plays a child waveform back-to-back a fixed number of times.
type Repeat struct {
	child Waveform
	count int
}

// NewRepeat builds an n-fold repetition of the child. A repetition count
// below 1 cannot form a waveform of positive duration.
func NewRepeat(child Waveform, count int) (*Repeat, error) {
	if count < 1 {
		return nil, fmt.Errorf("repeat waveform needs a count of at least 1, got %d", count)
	}
	return &Repeat{child: child, count: count}, nil
}

// Duration implements Waveform.
func (r *Repeat) Duration() float64 {
	return r.child.Duration() * float64(r.count)
}

// Sample implements Waveform.
func (r *Repeat) Sample(times []float64) []float64 {
	d := r.child.Duration()
	out := make([]float64, len(times))
	single := make([]float64, 1)
	for i, at := range times {
		idx := int(at / d)
		if idx >= r.count {
			idx = r.count - 1
		}
		local := at - float64(idx)*d
		// A repetition boundary is sampled as the end of the earlier
		// repetition, matching sequence boundaries.
		if local == 0 && idx > 0 {
			local = d
		}
		single[0] = local
		out[i] = r.child.Sample(single)[0]
	}
	return out
}

// Key implements Waveform.
func (r *Repeat) Key() string {
	return fmt.Sprintf("rep[%d](%s)", r.count, r.child.Key())
}
