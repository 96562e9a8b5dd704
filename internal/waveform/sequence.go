package waveform

import (
	"fmt"
	"strings"
)

// Sequence concatenates child waveforms in order.
type Sequence struct {
	children []Waveform
	total    float64
}

// NewSequence builds the concatenation of the given waveforms.
func NewSequence(children ...Waveform) (*Sequence, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("sequence waveform needs at least one child")
	}
	owned := make([]Waveform, len(children))
	copy(owned, children)
	var total float64
	for _, c := range owned {
		total += c.Duration()
	}
	return &Sequence{children: owned, total: total}, nil
}

// Duration implements Waveform.
func (s *Sequence) Duration() float64 {
	return s.total
}

// Sample implements Waveform. A time point falling exactly on a child
// boundary is sampled as the end of the earlier child.
func (s *Sequence) Sample(times []float64) []float64 {
	out := make([]float64, len(times))
	single := make([]float64, 1)
	for i, at := range times {
		offset := 0.0
		child := s.children[len(s.children)-1]
		for _, c := range s.children {
			if at <= offset+c.Duration() {
				child = c
				break
			}
			offset += c.Duration()
		}
		single[0] = at - offset
		out[i] = child.Sample(single)[0]
	}
	return out
}

// Key implements Waveform.
func (s *Sequence) Key() string {
	keys := make([]string, len(s.children))
	for i, c := range s.children {
		keys[i] = c.Key()
	}
	return "seq[" + strings.Join(keys, ";") + "]"
}
