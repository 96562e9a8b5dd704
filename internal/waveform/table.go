package waveform

import (
	"fmt"
	"strings"
)

// Interpolation selects how a table waveform approaches an entry from the
// preceding one.
type Interpolation string

const (
	// Hold keeps the previous voltage until the entry's time is reached.
	Hold Interpolation = "hold"
	// Linear ramps linearly from the previous entry's voltage to this one's.
	Linear Interpolation = "linear"
)

// Point is one (time, voltage) support point of a table waveform.
type Point struct {
	Time    float64
	Voltage float64
	Interp  Interpolation
}

// Table is the atomic waveform: piecewise interpolation between support
// points. The first point sits at time 0; times increase strictly.
type Table struct {
	points []Point
}

// NewTable validates the support points and returns the waveform.
func NewTable(points []Point) (*Table, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("table waveform needs at least 2 points, got %d", len(points))
	}
	if points[0].Time != 0 {
		return nil, fmt.Errorf("table waveform must start at time 0, got %v", points[0].Time)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			return nil, fmt.Errorf("table waveform times must increase strictly: point %d at %v follows %v",
				i, points[i].Time, points[i-1].Time)
		}
		switch points[i].Interp {
		case Hold, Linear:
		default:
			return nil, fmt.Errorf("unknown interpolation %q at point %d", points[i].Interp, i)
		}
	}
	owned := make([]Point, len(points))
	copy(owned, points)
	return &Table{points: owned}, nil
}

// Duration implements Waveform.
func (t *Table) Duration() float64 {
	return t.points[len(t.points)-1].Time
}

// Sample implements Waveform.
func (t *Table) Sample(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, at := range times {
		out[i] = t.at(at)
	}
	return out
}

func (t *Table) at(at float64) float64 {
	if at <= 0 {
		return t.points[0].Voltage
	}
	for i := 1; i < len(t.points); i++ {
		prev, cur := t.points[i-1], t.points[i]
		if at > cur.Time {
			continue
		}
		switch cur.Interp {
		case Linear:
			frac := (at - prev.Time) / (cur.Time - prev.Time)
			return prev.Voltage + frac*(cur.Voltage-prev.Voltage)
		default:
			// Hold keeps the previous level; the new level applies
			// exactly at the entry's own time.
			if at == cur.Time {
				return cur.Voltage
			}
			return prev.Voltage
		}
	}
	return t.points[len(t.points)-1].Voltage
}

// Key implements Waveform.
func (t *Table) Key() string {
	var b strings.Builder
	b.WriteString("table[")
	for i, p := range t.points {
		if i > 0 {
			b.WriteByte(';')
		}
		// The first point has no predecessor, so its interpolation mode
		// never influences sampling and must not influence the key.
		if p.Interp == Linear && i > 0 {
			b.WriteByte('l')
		} else {
			b.WriteByte('h')
		}
		b.WriteByte(':')
		b.WriteString(formatFloat(p.Time))
		b.WriteByte(',')
		b.WriteString(formatFloat(p.Voltage))
	}
	b.WriteByte(']')
	return b.String()
}
