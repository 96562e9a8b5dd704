package app

import (
	"errors"
	"fmt"
	"time"
)

// Waveform registration backends selectable from the CLI.
const (
	BackendMemory   = "memory"
	BackendSocketIO = "socketio"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PulsePath string // hcl files

	PulseName string // root template; may be empty when the catalog holds one pulse
	GroupName string
	Bindings  map[string]float64

	SampleRate  float64
	TimeScaling float64
	OutPath     string

	Backend        string
	BackendURL     string
	BackendTimeout time.Duration

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PulsePath == "" {
		return nil, errors.New("PulsePath is a required configuration field and cannot be empty")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("SampleRate must be positive, got %g", cfg.SampleRate)
	}
	if cfg.TimeScaling < 0 {
		return nil, fmt.Errorf("TimeScaling must not be negative, got %g", cfg.TimeScaling)
	}
	if cfg.Backend == BackendSocketIO && cfg.BackendURL == "" {
		return nil, errors.New("BackendURL is required for the socketio backend")
	}

	return &cfg, nil
}
