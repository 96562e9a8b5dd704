package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/pulsecontrol"
)

// Gateway protocol events.
const (
	registerEvent   = "register_waveform"
	registeredEvent = "waveform_registered"
)

// SocketIOConfig configures the remote registration backend.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO registers waveform structs against a remote hardware-control
// gateway over socket.io. Each registration emits the struct and waits for
// the gateway's acknowledgement carrying the assigned id.
type SocketIO struct {
	cfg SocketIOConfig
}

// NewSocketIO validates the configuration and returns the backend.
func NewSocketIO(cfg SocketIOConfig) (*SocketIO, error) {
	if _, err := url.Parse(cfg.URL); err != nil || cfg.URL == "" {
		return nil, fmt.Errorf("invalid gateway URL %q", cfg.URL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SocketIO{cfg: cfg}, nil
}

// opResult passes the gateway response through the done channel.
type opResult struct {
	id  int
	err error
}

// Register implements pulsecontrol.RegisterFunc. The call is blocking: the
// compiler relies on ids being assigned strictly in execution order.
func (b *SocketIO) Register(ctx context.Context, ws *pulsecontrol.WaveformStruct) (int, error) {
	logger := ctxlog.FromContext(ctx).With("backend", "socketio", "url", b.cfg.URL, "waveform", ws.Name)
	logger.Debug("Registering waveform with gateway.")

	opCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	parsedURL, err := url.Parse(b.cfg.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse gateway URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if b.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	payload, err := structToMap(ws)
	if err != nil {
		return 0, err
	}

	done := make(chan opResult, 1)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(b.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting gateway client.")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to gateway.", "sid", io.Id())
		io.Emit(registerEvent, payload)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- opResult{err: err}
				return
			}
		}
		done <- opResult{err: fmt.Errorf("gateway connection failed")}
	})

	io.On(types.EventName(registeredEvent), func(data ...any) {
		done <- parseRegistered(data)
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		return 0, fmt.Errorf("timed out waiting for gateway to register waveform %q", ws.Name)
	case res := <-done:
		if res.err != nil {
			return 0, res.err
		}
		logger.Debug("Gateway assigned waveform id.", "id", res.id)
		return res.id, nil
	}
}

// parseRegistered extracts the assigned id from the acknowledgement event.
func parseRegistered(data []any) opResult {
	if len(data) == 0 {
		return opResult{err: fmt.Errorf("gateway acknowledgement carried no payload")}
	}
	body, ok := data[0].(map[string]any)
	if !ok {
		return opResult{err: fmt.Errorf("unexpected gateway acknowledgement payload %T", data[0])}
	}
	raw, ok := body["id"]
	if !ok {
		return opResult{err: fmt.Errorf("gateway acknowledgement carried no id")}
	}
	switch id := raw.(type) {
	case float64:
		return opResult{id: int(id)}
	case int:
		return opResult{id: id}
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return opResult{err: fmt.Errorf("gateway returned non-integer id %q", id.String())}
		}
		return opResult{id: int(n)}
	default:
		return opResult{err: fmt.Errorf("gateway returned id of unexpected type %T", raw)}
	}
}

// structToMap converts the wire payload to the generic map the socket client
// emits.
func structToMap(ws *pulsecontrol.WaveformStruct) (map[string]any, error) {
	raw, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("failed to encode waveform struct: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode waveform struct: %w", err)
	}
	return out, nil
}
