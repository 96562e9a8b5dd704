package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdlab/pulsec/internal/hcl"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pulses.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunCompilesRepeatedPulse(t *testing.T) {
	fixture := writeFixture(t, `
pulse "flat" {
  table {
    entry {
      time    = 0
      voltage = 1
    }
    entry {
      time    = 4
      voltage = 1
    }
  }
}

pulse "burst" {
  parameter "n" {
    default = 3
  }
  repeat {
    of    = "flat"
    count = "n"
  }
}
`)
	outPath := filepath.Join(t.TempDir(), "group.json")

	cfg, err := NewConfig(Config{
		PulsePath:  fixture,
		PulseName:  "burst",
		SampleRate: 1000,
		Backend:    BackendMemory,
		OutPath:    outPath,
		LogFormat:  "text",
	})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, cfg, hcl.NewLoader())
	require.NoError(t, testApp.Run(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal(data, &payload))

	require.NotNil(t, payload.Group)
	assert.Equal(t, "burst", payload.Group.Name)
	// Three identical repetitions fold into one pulse entry.
	assert.Equal(t, []int{1}, payload.Group.Pulses)
	assert.Equal(t, []int{3}, payload.Group.NRep)
	assert.Equal(t, 1, payload.Group.Chan)
	assert.Equal(t, "notrig", payload.Group.Ctrl)

	require.Len(t, payload.Waveforms, 1)
	// duration 4, scaling 0.001, rate 1000 gives floor(4*0.001*1000)+1 samples.
	assert.Len(t, payload.Waveforms[0].Data.WF, 5)
	assert.Equal(t, 1000.0, payload.Waveforms[0].Data.Clk)
}

func TestRunDefaultsToOnlyPulse(t *testing.T) {
	fixture := writeFixture(t, `
pulse "flat" {
  table {
    entry {
      time    = 0
      voltage = 1
    }
    entry {
      time    = 2
      voltage = 1
    }
  }
}
`)
	out := &SafeBuffer{}
	cfg, err := NewConfig(Config{
		PulsePath:  fixture,
		SampleRate: 1000,
		Backend:    BackendMemory,
		LogFormat:  "text",
		LogLevel:   "error",
	})
	require.NoError(t, err)

	testApp := NewApp(out, cfg, hcl.NewLoader())
	require.NoError(t, testApp.Run(context.Background()))

	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(out.String()), &payload))
	assert.Equal(t, "flat", payload.Group.Name)
}

func TestRunRejectsAmbiguousRoot(t *testing.T) {
	fixture := writeFixture(t, `
pulse "a" {
  table {
    entry {
      time    = 0
      voltage = 0
    }
    entry {
      time    = 1
      voltage = 0
    }
  }
}

pulse "b" {
  sequence {
    of = ["a", "a"]
  }
}
`)
	cfg, err := NewConfig(Config{
		PulsePath:  fixture,
		SampleRate: 1000,
		Backend:    BackendMemory,
		LogFormat:  "text",
	})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, cfg, hcl.NewLoader())
	err = testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-name")
}

func TestRunReportsBranchingPulse(t *testing.T) {
	fixture := writeFixture(t, `
pulse "flat" {
  table {
    entry {
      time    = 0
      voltage = 1
    }
    entry {
      time    = 2
      voltage = 1
    }
  }
}

pulse "cond" {
  parameter "flag" {}
  branch {
    condition = "flag"
    then      = "flat"
    else      = "flat"
  }
}
`)
	cfg, err := NewConfig(Config{
		PulsePath:  fixture,
		PulseName:  "cond",
		Bindings:   map[string]float64{"flag": 1},
		SampleRate: 1000,
		Backend:    BackendMemory,
		LogFormat:  "text",
	})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, cfg, hcl.NewLoader())
	err = testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed")
}

func TestRunMissingBindingFails(t *testing.T) {
	fixture := writeFixture(t, `
pulse "ramp" {
  parameter "v" {}
  table {
    entry {
      time    = 0
      voltage = 0
    }
    entry {
      time    = 2
      voltage = "v"
    }
  }
}
`)
	cfg, err := NewConfig(Config{
		PulsePath:  fixture,
		SampleRate: 1000,
		Backend:    BackendMemory,
		LogFormat:  "text",
	})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, cfg, hcl.NewLoader())
	err = testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequencing failed")
}
