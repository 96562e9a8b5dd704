package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/qdlab/pulsec/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// bindings collects repeated -set name=value flags into a parameter map.
type bindings map[string]float64

func (b bindings) String() string {
	parts := make([]string, 0, len(b))
	for name, value := range b {
		parts = append(parts, fmt.Sprintf("%s=%g", name, value))
	}
	return strings.Join(parts, ",")
}

func (b bindings) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for parameter %q: %w", name, err)
	}
	b[name] = value
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pulsec", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pulsec - A pulse template compiler for sequencing hardware.

Usage:
  pulsec [options] [PULSE_PATH]

Arguments:
  PULSE_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	pulseFlag := flagSet.String("pulse", "", "Path to the pulse file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pulse file or directory (shorthand).")
	nameFlag := flagSet.String("name", "", "Name of the root pulse to compile. Defaults to the only pulse when exactly one is defined.")
	groupFlag := flagSet.String("group", "", "Name of the resulting pulse group. Defaults to the root pulse name.")
	binds := bindings{}
	flagSet.Var(binds, "set", "Bind a parameter as name=value. Repeatable.")
	sampleRateFlag := flagSet.Float64("sample-rate", 1e9, "Hardware sample rate in Hz.")
	timeScalingFlag := flagSet.Float64("time-scaling", 0, "Factor converting pulse time units into seconds. 0 selects the default of 0.001.")
	outFlag := flagSet.String("out", "", "Write the compiled group to this file instead of stdout.")
	backendFlag := flagSet.String("backend", "memory", "Waveform registration backend. Options: 'memory' or 'socketio'.")
	backendURLFlag := flagSet.String("backend-url", "", "Gateway URL for the socketio backend.")
	backendTimeoutFlag := flagSet.Duration("backend-timeout", 10*time.Second, "Per-registration timeout for the socketio backend.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *pulseFlag != "" {
		path = *pulseFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Pulse path determined.", "path", path)

	if path == "" {
		slog.Debug("No pulse path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	backend := strings.ToLower(*backendFlag)
	switch backend {
	case app.BackendMemory, app.BackendSocketIO:
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid backend: must be 'memory' or 'socketio'"}
	}
	if backend == app.BackendSocketIO && *backendURLFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "backend-url is required for the socketio backend"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PulsePath:      path,
		PulseName:      *nameFlag,
		GroupName:      *groupFlag,
		Bindings:       binds,
		SampleRate:     *sampleRateFlag,
		TimeScaling:    *timeScalingFlag,
		OutPath:        *outFlag,
		Backend:        backend,
		BackendURL:     *backendURLFlag,
		BackendTimeout: *backendTimeoutFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
