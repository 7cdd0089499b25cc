package transport

import (
	"log/slog"

	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/network"
)

// NewTLS builds a TLS-over-TCP adapter bound to addr, serving the given
// certificate/key pair. It reuses network.Listener's own branch on
// ListenerConfig.TLSConfig (tls.Listen vs net.Listen) rather than wrapping
// connections after the fact.
func NewTLS(addr, certFile, keyFile string, maxConnections int, hooks *hook.Registry, logger *slog.Logger) (Adapter, error) {
	tlsCfg := network.DefaultTLSConfig()
	tlsCfg.CertFile = certFile
	tlsCfg.KeyFile = keyFile

	built, err := tlsCfg.Build()
	if err != nil {
		return nil, err
	}

	return newStreamAdapter(addr, built, maxConnections, hooks, logger)
}

// NewMutualTLS builds a TLS adapter that additionally verifies client
// certificates against caFile.
func NewMutualTLS(addr, certFile, keyFile, caFile string, maxConnections int, hooks *hook.Registry, logger *slog.Logger) (Adapter, error) {
	tlsCfg := network.DefaultTLSConfig()
	tlsCfg.CertFile = certFile
	tlsCfg.KeyFile = keyFile
	tlsCfg.CAFile = caFile

	built, err := tlsCfg.Build()
	if err != nil {
		return nil, err
	}

	return newStreamAdapter(addr, built, maxConnections, hooks, logger)
}
