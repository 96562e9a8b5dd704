package backend

import (
	"context"
	"sync"

	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/pulsecontrol"
)

// Memory is an in-process registration backend. It models a hardware backend
// with a process-wide waveform namespace: registering a name twice yields the
// id assigned the first time. Ids start at 1.
type Memory struct {
	mu      sync.Mutex
	ids     map[string]int
	structs []*pulsecontrol.WaveformStruct
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]int)}
}

// Register implements pulsecontrol.RegisterFunc.
func (m *Memory) Register(ctx context.Context, ws *pulsecontrol.WaveformStruct) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.ids[ws.Name]; ok {
		return id, nil
	}
	m.structs = append(m.structs, ws)
	id := len(m.structs)
	m.ids[ws.Name] = id

	ctxlog.FromContext(ctx).Debug("Memory backend stored waveform.", "name", ws.Name, "id", id, "samples", len(ws.Data.WF))
	return id, nil
}

// Waveforms returns the registered structs in id order.
func (m *Memory) Waveforms() []*pulsecontrol.WaveformStruct {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*pulsecontrol.WaveformStruct, len(m.structs))
	copy(out, m.structs)
	return out
}
