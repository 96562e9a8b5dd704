package pulse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/waveform"
)

// nopHardware satisfies the Hardware hook without doing anything, matching
// backends that rely purely on block compilation.
type nopHardware struct {
	registered int
}

func (h *nopHardware) RegisterWaveform(w waveform.Waveform) { h.registered++ }

func f(v float64) *float64 { return &v }

// rampTemplate declares t_end and v_max and ramps linearly from 0 to v_max.
func rampTemplate(t *testing.T) *Table {
	t.Helper()
	tmpl, err := NewTable(
		[]TableEntry{
			{Time: Lit(0), Voltage: Lit(0)},
			{Time: Ref("t_end"), Voltage: Ref("v_max"), Interp: waveform.Linear},
		},
		[]param.Declaration{
			{Name: "t_end", Min: f(0), Default: f(4)},
			{Name: "v_max"},
		},
		[]Window{{Start: 0, Duration: 1}},
		false,
	)
	require.NoError(t, err)
	return tmpl
}

// flatTemplate holds at a fixed level for 2 time units and declares nothing.
func flatTemplate(t *testing.T, level float64) *Table {
	t.Helper()
	tmpl, err := NewTable(
		[]TableEntry{
			{Time: Lit(0), Voltage: Lit(level)},
			{Time: Lit(2), Voltage: Lit(level), Interp: waveform.Hold},
		},
		nil, nil, false,
	)
	require.NoError(t, err)
	return tmpl
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable([]TableEntry{{Time: Lit(0), Voltage: Lit(0)}}, nil, nil, false)
	require.Error(t, err, "one entry is not a pulse")

	_, err = NewTable([]TableEntry{
		{Time: Ref("t0"), Voltage: Lit(0)},
		{Time: Lit(1), Voltage: Lit(0)},
	}, []param.Declaration{{Name: "t0"}}, nil, false)
	require.Error(t, err, "first entry must be literal 0")

	_, err = NewTable([]TableEntry{
		{Time: Lit(0), Voltage: Lit(0)},
		{Time: Ref("t_end"), Voltage: Lit(0)},
	}, nil, nil, false)
	require.Error(t, err, "references must be declared")
}

func TestTableParameterContract(t *testing.T) {
	tmpl := rampTemplate(t)

	names := tmpl.ParameterNames()
	assert.Equal(t, map[string]struct{}{"t_end": {}, "v_max": {}}, names)

	decls := tmpl.ParameterDeclarations()
	require.Contains(t, decls, "t_end")
	*decls["t_end"].Default = 99
	fresh := tmpl.ParameterDeclarations()
	assert.Equal(t, 4.0, *fresh["t_end"].Default, "returned declarations are copies")
}

func TestTableDuration(t *testing.T) {
	tmpl := rampTemplate(t)
	d, err := tmpl.Duration()
	require.NoError(t, err)
	assert.Equal(t, 4.0, d, "duration comes from the declared default")

	noDefault, err := NewTable(
		[]TableEntry{
			{Time: Lit(0), Voltage: Lit(0)},
			{Time: Ref("t_end"), Voltage: Lit(1)},
		},
		[]param.Declaration{{Name: "t_end"}},
		nil, false,
	)
	require.NoError(t, err)

	_, err = noDefault.Duration()
	var nn *NonNumericDurationError
	require.ErrorAs(t, err, &nn)
	assert.Equal(t, "t_end", nn.Param)
}

func TestUploadWaveformBindingChecks(t *testing.T) {
	tmpl := rampTemplate(t)
	hw := &nopHardware{}
	ctx := context.Background()

	_, err := tmpl.UploadWaveform(ctx, hw, param.Values{"t_end": 4})
	var nb *param.NotBoundError
	require.ErrorAs(t, err, &nb)
	assert.Equal(t, "v_max", nb.Name)

	_, err = tmpl.UploadWaveform(ctx, hw, param.Values{"t_end": 4, "v_max": 1, "extra": 7})
	var nd *param.NotDeclaredError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, "extra", nd.Name)

	_, err = tmpl.UploadWaveform(ctx, hw, param.Values{"t_end": -1, "v_max": 1})
	var oob *param.OutOfBoundsError
	require.ErrorAs(t, err, &oob)

	assert.Zero(t, hw.registered, "failed uploads register nothing")
}

func TestTableUploadWaveform(t *testing.T) {
	tmpl := rampTemplate(t)
	hw := &nopHardware{}

	w, err := tmpl.UploadWaveform(context.Background(), hw, param.Values{"t_end": 2, "v_max": 2})
	require.NoError(t, err)

	assert.Equal(t, 2.0, w.Duration())
	assert.Equal(t, []float64{0, 1, 2}, w.Sample([]float64{0, 1, 2}))
	assert.Equal(t, 1, hw.registered)
}

func TestSequenceAggregation(t *testing.T) {
	seq, err := NewSequence(
		[]Template{rampTemplate(t), flatTemplate(t, 1)},
		nil,
		[]Window{{Start: 0.5, Duration: 0.5}},
		false,
	)
	require.NoError(t, err)

	assert.Equal(t, KindSequence, seq.Kind())
	assert.Equal(t, map[string]struct{}{"t_end": {}, "v_max": {}}, seq.ParameterNames())

	d, err := seq.Duration()
	require.NoError(t, err)
	assert.Equal(t, 6.0, d, "ramp default 4 plus flat 2")

	// Own window first, then the ramp's window at offset 0; the flat child
	// has none.
	assert.Equal(t, []Window{{Start: 0.5, Duration: 0.5}, {Start: 0, Duration: 1}}, seq.MeasurementWindows())
}

func TestSequenceWindowsSkipUnknownOffsets(t *testing.T) {
	noDefault, err := NewTable(
		[]TableEntry{
			{Time: Lit(0), Voltage: Lit(0)},
			{Time: Ref("t_end"), Voltage: Lit(1)},
		},
		[]param.Declaration{{Name: "t_end"}},
		[]Window{{Start: 0, Duration: 1}},
		false,
	)
	require.NoError(t, err)

	seq, err := NewSequence([]Template{noDefault, rampTemplate(t)}, nil, nil, false)
	require.NoError(t, err)

	// The first child's windows sit at a known offset (0); the second
	// child's offset depends on an unbound duration and is omitted.
	assert.Equal(t, []Window{{Start: 0, Duration: 1}}, seq.MeasurementWindows())

	_, err = seq.Duration()
	var nn *NonNumericDurationError
	require.ErrorAs(t, err, &nn)
}

func TestSequenceUploadWaveform(t *testing.T) {
	seq, err := NewSequence([]Template{flatTemplate(t, 1), flatTemplate(t, 3)}, nil, nil, false)
	require.NoError(t, err)
	hw := &nopHardware{}

	w, err := seq.UploadWaveform(context.Background(), hw, param.Values{})
	require.NoError(t, err)

	assert.Equal(t, 4.0, w.Duration())
	assert.Equal(t, []float64{1, 1, 3, 3}, w.Sample([]float64{0, 2, 2.5, 4}))
	// Two children plus the assembled parent, depth-first.
	assert.Equal(t, 3, hw.registered)
}

func TestRepeatContract(t *testing.T) {
	rep, err := NewRepeat(
		flatTemplate(t, 1),
		Ref("n"),
		[]param.Declaration{{Name: "n", Default: f(3)}},
		nil, false,
	)
	require.NoError(t, err)

	assert.Equal(t, KindRepeat, rep.Kind())
	assert.Equal(t, map[string]struct{}{"n": {}}, rep.ParameterNames())

	d, err := rep.Duration()
	require.NoError(t, err)
	assert.Equal(t, 6.0, d)

	count, err := rep.Count(param.Values{"n": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	_, err = rep.Count(param.Values{"n": 2.5})
	var irc *InvalidRepeatCountError
	require.ErrorAs(t, err, &irc)

	_, err = rep.Count(param.Values{"n": -1})
	require.ErrorAs(t, err, &irc)
}

func TestRepeatDurationWithoutDefaultIsNonNumeric(t *testing.T) {
	rep, err := NewRepeat(
		flatTemplate(t, 1),
		Ref("n"),
		[]param.Declaration{{Name: "n"}},
		nil, false,
	)
	require.NoError(t, err)

	_, err = rep.Duration()
	var nn *NonNumericDurationError
	require.ErrorAs(t, err, &nn)
	assert.Equal(t, "n", nn.Param)
}

func TestRepeatUploadWaveform(t *testing.T) {
	rep, err := NewRepeat(
		rampTemplate(t),
		Lit(2),
		nil, nil, false,
	)
	require.NoError(t, err)
	hw := &nopHardware{}

	w, err := rep.UploadWaveform(context.Background(), hw, param.Values{"t_end": 2, "v_max": 1})
	require.NoError(t, err)

	assert.Equal(t, 4.0, w.Duration())
	assert.Equal(t, []float64{0, 1, 0.5, 1}, w.Sample([]float64{0, 2, 3, 4}))
}

func TestRepeatUploadRejectsZeroCount(t *testing.T) {
	rep, err := NewRepeat(
		flatTemplate(t, 1),
		Ref("n"),
		[]param.Declaration{{Name: "n"}},
		nil, false,
	)
	require.NoError(t, err)

	_, err = rep.UploadWaveform(context.Background(), &nopHardware{}, param.Values{"n": 0})
	require.Error(t, err, "a zero-count repeat has no waveform to render")
}

func TestBranchContract(t *testing.T) {
	br, err := NewBranch(
		"flag",
		flatTemplate(t, 1),
		flatTemplate(t, 0),
		[]param.Declaration{{Name: "flag"}},
		[]Window{{Start: 0, Duration: 2}},
		true,
	)
	require.NoError(t, err)

	assert.Equal(t, KindBranch, br.Kind())
	assert.True(t, br.IsInterruptable())
	assert.Equal(t, map[string]struct{}{"flag": {}}, br.ParameterNames())
	assert.Equal(t, []Window{{Start: 0, Duration: 2}}, br.MeasurementWindows())

	_, err = br.Duration()
	var nn *NonNumericDurationError
	require.ErrorAs(t, err, &nn)
	assert.Equal(t, KindBranch, nn.Kind)

	_, err = br.UploadWaveform(context.Background(), &nopHardware{}, param.Values{"flag": 1})
	require.ErrorIs(t, err, ErrBranchWaveform)
}

func TestBranchRequiresDeclaredCondition(t *testing.T) {
	_, err := NewBranch("flag", flatTemplate(t, 1), flatTemplate(t, 0), nil, nil, false)
	require.Error(t, err)
}

func TestInterruptableAggregation(t *testing.T) {
	inner, err := NewTable(
		[]TableEntry{
			{Time: Lit(0), Voltage: Lit(0)},
			{Time: Lit(1), Voltage: Lit(0)},
		},
		nil, nil, true,
	)
	require.NoError(t, err)

	seq, err := NewSequence([]Template{inner}, nil, nil, false)
	require.NoError(t, err)
	assert.True(t, seq.IsInterruptable(), "a sequence inherits interruption points from children")

	calm, err := NewSequence([]Template{flatTemplate(t, 0)}, nil, nil, false)
	require.NoError(t, err)
	assert.False(t, calm.IsInterruptable())
}
