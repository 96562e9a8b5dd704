package pulsecontrol

import (
	"context"
	"fmt"
	"math"

	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/instruction"
	"github.com/qdlab/pulsec/internal/waveform"
)

// RegisterFunc persists a waveform struct in the hardware backend and returns
// the hardware-assigned id. It is treated as blocking and side-effecting;
// failures are passed through to the caller unmodified.
type RegisterFunc func(ctx context.Context, ws *WaveformStruct) (int, error)

// DefaultTimeScaling maps template time units to seconds: one unit is one
// microsecond.
const DefaultTimeScaling = 0.001

// Interface is the hardware-facing compiler. It satisfies the template
// layer's Hardware hook and additionally builds waveform structs and compiles
// instruction blocks into pulse groups.
type Interface struct {
	register    RegisterFunc
	sampleRate  float64
	timeScaling float64
}

// New creates the hardware interface. sampleRate is in Hz; a timeScaling of 0
// selects DefaultTimeScaling.
func New(register RegisterFunc, sampleRate float64, timeScaling float64) (*Interface, error) {
	if register == nil {
		return nil, fmt.Errorf("pulsecontrol: registration callback must not be nil")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("pulsecontrol: sample rate must be positive, got %v", sampleRate)
	}
	if timeScaling == 0 {
		timeScaling = DefaultTimeScaling
	}
	if timeScaling < 0 {
		return nil, fmt.Errorf("pulsecontrol: time scaling must be positive, got %v", timeScaling)
	}
	return &Interface{register: register, sampleRate: sampleRate, timeScaling: timeScaling}, nil
}

// RegisterWaveform is the legacy per-waveform pre-registration hook. Block
// compilation recovers every waveform from the exec instructions, so the hook
// does nothing; it remains for interfaces that still expect pre-registration
// before compiling.
func (i *Interface) RegisterWaveform(w waveform.Waveform) {}

// BuildWaveformStruct samples a waveform onto the hardware grid. The grid has
// floor(duration * timeScaling * sampleRate) + 1 points spaced evenly over
// [0, duration] inclusive. Sampling is pure, so the result is identical on
// every call.
func (i *Interface) BuildWaveformStruct(w waveform.Waveform, name string) *WaveformStruct {
	sampleCount := int(math.Floor(w.Duration()*i.timeScaling*i.sampleRate)) + 1
	sampled := w.Sample(linspace(0, w.Duration(), sampleCount))
	return &WaveformStruct{
		Name: name,
		Data: WaveformData{
			WF:     sampled,
			Marker: make([]float64, len(sampled)),
			Clk:    i.sampleRate,
		},
	}
}

// Compile turns an instruction block into a pulse group. Every distinct
// waveform value is registered exactly once per call; immediately repeated
// waveforms increment the previous entry's repeat count instead of appending.
// Blocks containing any non-exec instruction fail with a *BranchingError.
func (i *Interface) Compile(ctx context.Context, block *instruction.Block, name string) (*PulseGroup, error) {
	logger := ctxlog.FromContext(ctx)
	ins := block.Instructions()

	// Whole-block validation: one disallowed instruction anywhere
	// invalidates the entire group, so collect all of them first.
	var bad []int
	for idx, in := range ins {
		if _, ok := in.(*instruction.Exec); !ok {
			bad = append(bad, idx)
		}
	}
	if len(bad) > 0 {
		return nil, &BranchingError{Positions: bad}
	}

	group := &PulseGroup{
		Pulses: []int{},
		NRep:   []int{},
		Name:   name,
		Chan:   GroupChannel,
		Ctrl:   GroupControl,
	}

	// Dedup registry scoped to this one compilation.
	registered := make(map[string]int)

	for _, in := range ins {
		w := in.(*instruction.Exec).Waveform
		key := w.Key()
		id, ok := registered[key]
		if !ok {
			wfName := waveform.Name(w)
			logger.Debug("Registering waveform.", "name", wfName, "duration", w.Duration())
			var err error
			id, err = i.register(ctx, i.BuildWaveformStruct(w, wfName))
			if err != nil {
				return nil, err
			}
			registered[key] = id
		}

		if n := len(group.Pulses); n > 0 && group.Pulses[n-1] == id {
			group.NRep[n-1]++
		} else {
			group.Pulses = append(group.Pulses, id)
			group.NRep = append(group.NRep, 1)
		}
	}

	logger.Debug("Pulse group compiled.", "name", name, "entries", len(group.Pulses), "distinct_waveforms", len(registered))
	return group, nil
}

// linspace returns count points evenly spaced over [from, to] inclusive.
func linspace(from, to float64, count int) []float64 {
	points := make([]float64, count)
	if count == 1 {
		points[0] = from
		return points
	}
	step := (to - from) / float64(count-1)
	for i := range points {
		points[i] = from + float64(i)*step
	}
	if count > 1 {
		points[count-1] = to
	}
	return points
}
