// Package transport adapts raw byte-stream listeners (plain TCP, TLS, and
// WebSocket/WebSocket-over-TLS) into a uniform source of network.Connection
// values, each handed off to its own link.Link.
package transport

import (
	"crypto/tls"
	"log/slog"

	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/link"
	"github.com/brinkmq/brink/network"
)

// Adapter is one listening transport a broker.Builder can start and stop.
type Adapter interface {
	// Start begins accepting connections in the background.
	Start() error
	// Close stops accepting and tears down in-flight accepts.
	Close() error
	// Addr reports the bound address, valid only after Start succeeds.
	Addr() string
}

// tcpAdapter serves plain, unencrypted TCP. NewTLS and NewMutualTLS return
// the same type with a *tls.Config set on the listener config —
// network.Listener.Start already branches on that field (tls.Listen vs
// net.Listen).
type tcpAdapter struct {
	listener *network.Listener
	hooks    *hook.Registry
	logger   *slog.Logger
}

// NewTCP builds a plain-TCP adapter bound to addr. maxConnections overrides
// the listener's default connection cap when positive.
func NewTCP(addr string, maxConnections int, hooks *hook.Registry, logger *slog.Logger) (Adapter, error) {
	return newStreamAdapter(addr, nil, maxConnections, hooks, logger)
}

func newStreamAdapter(addr string, tlsConfig *tls.Config, maxConnections int, hooks *hook.Registry, logger *slog.Logger) (Adapter, error) {
	cfg := network.DefaultListenerConfig(addr)
	cfg.TLSConfig = tlsConfig
	if maxConnections > 0 {
		cfg.MaxConnections = maxConnections
	}

	l, err := network.NewListener(cfg, nil)
	if err != nil {
		return nil, err
	}

	a := &tcpAdapter{listener: l, hooks: hooks, logger: logger}
	l.OnConnection(a.serve)
	return a, nil
}

// serve is the network.ConnectionHandler run once per accepted connection:
// it hands the connection to a fresh Link and returns immediately, letting
// the Link's own goroutine own the connection's lifetime.
func (a *tcpAdapter) serve(conn *network.Connection) error {
	go link.New(conn, a.hooks, a.logger).Serve()
	return nil
}

func (a *tcpAdapter) Start() error { return a.listener.Start() }
func (a *tcpAdapter) Close() error { return a.listener.Close() }
func (a *tcpAdapter) Addr() string {
	if addr := a.listener.Addr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Stats reports the underlying listener's connection counters. broker.Builder
// type-asserts for this to feed a Metrics gauge; the WebSocket adapter has no
// equivalent since it runs behind an *http.Server rather than a
// network.Listener.
func (a *tcpAdapter) Stats() network.ListenerStats { return a.listener.Stats() }
