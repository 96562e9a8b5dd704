package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdlab/pulsec/internal/app"
)

func TestParseDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"pulses.hcl"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "pulses.hcl", cfg.PulsePath)
	assert.Equal(t, app.BackendMemory, cfg.Backend)
	assert.Equal(t, 1e9, cfg.SampleRate)
	assert.Equal(t, 0.0, cfg.TimeScaling)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParsePathFlags(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, _, err := Parse([]string{"-pulse", "a.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "a.hcl", cfg.PulsePath)

	cfg, _, err = Parse([]string{"-p", "b.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "b.hcl", cfg.PulsePath)
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseBindings(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-set", "t_end=4", "-set", "v_max=1.5", "pulses.hcl"}, out)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"t_end": 4, "v_max": 1.5}, cfg.Bindings)
}

func TestParseInvalidBinding(t *testing.T) {
	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-set", "novalue", "pulses.hcl"}, out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidBackend(t *testing.T) {
	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-backend", "carrier-pigeon", "pulses.hcl"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid backend")
}

func TestParseSocketIORequiresURL(t *testing.T) {
	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-backend", "socketio", "pulses.hcl"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "backend-url")
}

func TestParseInvalidLogSettings(t *testing.T) {
	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-log-format", "xml", "pulses.hcl"}, out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid log-format")

	_, _, err = Parse([]string{"-log-level", "loud", "pulses.hcl"}, out)
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid log-level")
}
