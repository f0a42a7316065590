package viz

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/nodewire/internal/ctxlog"
)

// Publisher forwards run events to a rendering frontend over socket.io.
// Emission is fire-and-forget: a failed or slow frontend never stalls the
// engine, and emit errors are logged rather than propagated.
type Publisher struct {
	io      *socket.Socket
	manager *socket.Manager
}

// connectTimeout bounds how long NewPublisher waits for the initial
// handshake before giving up.
const connectTimeout = 10 * time.Second

// NewPublisher connects to the renderer at rawURL (namespace optional,
// e.g. "/viz") and returns a ready publisher. The caller owns Close.
func NewPublisher(ctx context.Context, rawURL, namespace string) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("viz", "socketio", "url", rawURL)
	logger.Debug("Connecting to renderer")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse renderer URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to renderer", "namespace", namespace, "sid", io.Id())
		connected <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				connected <- e
				return
			}
		}
		connected <- fmt.Errorf("renderer connection failed")
	})

	io.Connect()

	opCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting to renderer at %s", rawURL)
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("renderer connection failed: %w", err)
		}
	}

	return &Publisher{io: io, manager: manager}, nil
}

// Close disconnects from the renderer.
func (p *Publisher) Close() {
	p.io.Disconnect()
}

func (p *Publisher) NodeHighlighted(nodeID int, color string) {
	p.io.Emit("nodeHighlighted", map[string]any{"nodeId": nodeID, "color": color})
}

func (p *Publisher) WireActivated(connectionID int) {
	p.io.Emit("wireActivated", map[string]any{"connId": connectionID})
}

func (p *Publisher) DataValueProduced(connectionID int, formattedValue string) {
	p.io.Emit("dataValueProduced", map[string]any{"connId": connectionID, "value": formattedValue})
}

func (p *Publisher) StateChanged(newState string) {
	p.io.Emit("stateChanged", map[string]any{"state": newState})
}
