// Package broker assembles transport adapters behind a chainable builder
// and runs them together, mirroring the Rust source's Mqtt::tcp/tls/ws/wss
// builder chain (original_source/src/server.rs).
package broker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/network"
	"github.com/brinkmq/brink/transport"
)

// statsProvider is implemented by transport adapters backed by a
// network.Listener (tcp, tls) and lets Run poll connection counts without
// the transport package depending on broker.
type statsProvider interface {
	Stats() network.ListenerStats
}

// listenSpec records one configured listener until Run builds its adapter.
type listenSpec struct {
	kind     string // "tcp", "tls", "ws", "wss"
	addr     string
	path     string // ws/wss only
	certFile string
	keyFile  string
}

// Builder assembles a set of listeners and hooks and runs them together.
// Builder methods return the receiver so calls chain:
//
//	broker.New().TCP(":1883").WS(":8080", "/mqtt").Run(ctx)
type Builder struct {
	listens []listenSpec
	hooks   *hook.Registry
	logger  *slog.Logger

	// MaxConnections and ProxyProtocol exist for API parity with the
	// Rust builder, which decodes and stores both but never enforces
	// either. MaxConnections is wired one step further here: the
	// underlying network.Listener already enforces a connection cap,
	// so Builder forwards it rather than silently dropping the feature.
	MaxConnections int
	ProxyProtocol  bool

	metrics *Metrics

	addrs atomic.Pointer[[]string]
}

// New returns an empty Builder with no listeners configured.
func New() *Builder {
	return &Builder{
		hooks:  hook.NewRegistry(),
		logger: slog.Default(),
	}
}

// Logger overrides the default slog logger used by every adapter and Link.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Metrics attaches a Prometheus-backed Metrics that Run keeps updated with
// the live connection count of every listener-backed adapter (tcp, tls).
func (b *Builder) Metrics(m *Metrics) *Builder {
	b.metrics = m
	return b
}

// Hook appends fn to the end of the hook chain triggered on every CONNECT
// and subsequent packet across all listeners this builder runs.
func (b *Builder) Hook(fn hook.Func) *Builder {
	b.hooks.Register(fn)
	return b
}

// TCP adds a plain TCP listener bound to addr.
func (b *Builder) TCP(addr string) *Builder {
	b.listens = append(b.listens, listenSpec{kind: "tcp", addr: addr})
	return b
}

// TLS adds a TLS-over-TCP listener bound to addr, serving certFile/keyFile.
func (b *Builder) TLS(addr, certFile, keyFile string) *Builder {
	b.listens = append(b.listens, listenSpec{kind: "tls", addr: addr, certFile: certFile, keyFile: keyFile})
	return b
}

// WS adds a WebSocket listener bound to addr. path defaults to "/mqtt" when
// empty.
func (b *Builder) WS(addr, path string) *Builder {
	b.listens = append(b.listens, listenSpec{kind: "ws", addr: addr, path: path})
	return b
}

// WSS adds a WebSocket-over-TLS listener bound to addr, serving
// certFile/keyFile. path defaults to "/mqtt" when empty.
func (b *Builder) WSS(addr, path, certFile, keyFile string) *Builder {
	b.listens = append(b.listens, listenSpec{kind: "wss", addr: addr, path: path, certFile: certFile, keyFile: keyFile})
	return b
}

// Run builds every configured listener and serves them concurrently,
// returning once ctx is canceled or any listener fails. With no listeners
// configured it falls back to plain TCP on 0.0.0.0:1883, matching the Rust
// source's Mqtt::run default.
func (b *Builder) Run(ctx context.Context) error {
	if len(b.listens) == 0 {
		b.TCP("0.0.0.0:1883")
	}

	adapters := make([]transport.Adapter, 0, len(b.listens))
	for _, spec := range b.listens {
		a, err := b.build(spec)
		if err != nil {
			return err
		}
		adapters = append(adapters, a)
	}

	group, gctx := errgroup.WithContext(ctx)
	boundAddrs := make([]string, 0, len(adapters))
	for _, a := range adapters {
		a := a
		if err := a.Start(); err != nil {
			return err
		}
		b.logger.Info("listening", "addr", a.Addr())
		boundAddrs = append(boundAddrs, a.Addr())

		group.Go(func() error {
			<-gctx.Done()
			return a.Close()
		})
	}

	b.addrs.Store(&boundAddrs)

	if b.metrics != nil {
		group.Go(func() error {
			b.pollConnectionCount(gctx, adapters)
			return nil
		})
	}

	return group.Wait()
}

// pollConnectionCount sums Stats().Active across every statsProvider-capable
// adapter into the Metrics gauge once per second until ctx is canceled.
func (b *Builder) pollConnectionCount(ctx context.Context, adapters []transport.Adapter) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var active uint64
			for _, a := range adapters {
				if sp, ok := a.(statsProvider); ok {
					active += sp.Stats().Active
				}
			}
			b.metrics.ActiveConnections.Set(float64(active))
		}
	}
}

// Addrs reports the bound address of each configured listener in
// configuration order, once Run has started them. It is safe to call
// concurrently with Run.
func (b *Builder) Addrs() []string {
	if p := b.addrs.Load(); p != nil {
		return *p
	}
	return nil
}

func (b *Builder) build(spec listenSpec) (transport.Adapter, error) {
	switch spec.kind {
	case "tcp":
		return transport.NewTCP(spec.addr, b.MaxConnections, b.hooks, b.logger)
	case "tls":
		return transport.NewTLS(spec.addr, spec.certFile, spec.keyFile, b.MaxConnections, b.hooks, b.logger)
	case "ws":
		return transport.NewWebSocket(spec.addr, spec.path, nil, b.hooks, b.logger)
	case "wss":
		tlsCfg := network.DefaultTLSConfig()
		tlsCfg.CertFile = spec.certFile
		tlsCfg.KeyFile = spec.keyFile
		return transport.NewWebSocket(spec.addr, spec.path, tlsCfg, b.hooks, b.logger)
	default:
		panic("broker: unreachable listen kind " + spec.kind)
	}
}
