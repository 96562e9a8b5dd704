package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/qdlab/pulsec/internal/backend"
	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/pulse"
	"github.com/qdlab/pulsec/internal/pulsecontrol"
	"github.com/qdlab/pulsec/internal/sequencer"
)

// Payload is the JSON document produced by one compilation run. Waveforms is
// only populated by the memory backend; the socketio backend hands waveform
// data to the remote gateway instead.
type Payload struct {
	Group     *pulsecontrol.PulseGroup       `json:"group"`
	Waveforms []*pulsecontrol.WaveformStruct `json:"waveforms,omitempty"`
}

// Run executes the main application logic: it resolves the root template,
// sequences it with the configured parameter bindings, compiles the resulting
// instruction block into a pulse group, and writes the payload out.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	rootName, err := a.rootName()
	if err != nil {
		return err
	}
	tmpl, ok := a.catalog.Lookup(rootName)
	if !ok {
		return fmt.Errorf("pulse %q is not defined", rootName)
	}
	a.logger.Info("Compiling pulse.", "pulse", rootName, "backend", a.config.Backend)

	groupName := a.config.GroupName
	if groupName == "" {
		groupName = rootName
	}

	register, memory, err := a.newBackend()
	if err != nil {
		return err
	}

	iface, err := pulsecontrol.New(register, a.config.SampleRate, a.config.TimeScaling)
	if err != nil {
		return err
	}

	seq := sequencer.New(iface)
	seq.Push(tmpl, a.bindings(tmpl))
	block, err := seq.Build(ctx)
	if err != nil {
		return fmt.Errorf("sequencing failed: %w", err)
	}
	a.logger.Debug("Instruction block built.", "instructions", block.Len())

	group, err := iface.Compile(ctx, block, groupName)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}
	a.logger.Info("Pulse group compiled.", "group", group.Name, "pulses", len(group.Pulses))

	payload := &Payload{Group: group}
	if memory != nil {
		payload.Waveforms = memory.Waveforms()
	}
	if err := a.writePayload(payload); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// bindings merges the user-supplied parameter values with the root template's
// declared defaults. Explicit values always win; parameters without a default
// stay unbound and surface as sequencing errors.
func (a *App) bindings(tmpl pulse.Template) param.Values {
	values := param.Values{}
	for name, v := range a.config.Bindings {
		values[name] = v
	}
	for name, d := range tmpl.ParameterDeclarations() {
		if _, ok := values[name]; ok {
			continue
		}
		if d.Default != nil {
			values[name] = *d.Default
		}
	}
	return values
}

// rootName picks the template to compile. When no name was given and the
// catalog holds exactly one pulse, that pulse is the root.
func (a *App) rootName() (string, error) {
	if a.config.PulseName != "" {
		return a.config.PulseName, nil
	}
	names := a.catalog.Names()
	if len(names) == 1 {
		return names[0], nil
	}
	return "", fmt.Errorf("multiple pulses are defined (%d), select one with -name", len(names))
}

// newBackend returns the registration callback for the configured backend.
// The second return value is non-nil only for the memory backend, whose
// collected waveforms go into the output payload.
func (a *App) newBackend() (pulsecontrol.RegisterFunc, *backend.Memory, error) {
	switch a.config.Backend {
	case BackendSocketIO:
		sio, err := backend.NewSocketIO(backend.SocketIOConfig{
			URL:     a.config.BackendURL,
			Timeout: a.config.BackendTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure socketio backend: %w", err)
		}
		return sio.Register, nil, nil
	default:
		mem := backend.NewMemory()
		return mem.Register, mem, nil
	}
}

// writePayload marshals the payload and writes it to the configured output
// file, or to the application writer when no file was given.
func (a *App) writePayload(payload *Payload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	data = append(data, '\n')

	if a.config.OutPath != "" {
		if err := os.WriteFile(a.config.OutPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		a.logger.Info("Payload written.", "path", a.config.OutPath)
		return nil
	}

	_, err = a.outW.Write(data)
	return err
}

var _ pulse.Hardware = (*pulsecontrol.Interface)(nil)
