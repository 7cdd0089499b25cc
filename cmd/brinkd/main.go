// Command brinkd runs an MQTT broker with a plain TCP listener, a
// WebSocket listener, an optional TLS listener (when both -cert and -key
// are given) and an anonymous-auth hook that admits every client, wiring
// github.com/brinkmq/brink/broker end to end. No basic-auth or publish
// rate-limit hook is registered.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brinkmq/brink/broker"
	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/pkg/logger"
)

func main() {
	tcpAddr := flag.String("tcp", "0.0.0.0:1883", "plain TCP listen address")
	wsAddr := flag.String("ws", "0.0.0.0:8080", "WebSocket listen address (empty disables)")
	certFile := flag.String("cert", "", "TLS certificate file (enables a TLS listener on -tls-addr)")
	keyFile := flag.String("key", "", "TLS key file")
	tlsAddr := flag.String("tls-addr", "0.0.0.0:8883", "TLS listen address")
	maxConns := flag.Int("max-connections", 10000, "maximum concurrent connections per TCP/TLS listener")
	flag.Parse()

	log := logger.NewSlogLogger(slog.LevelInfo, os.Stdout)
	slog.SetDefault(log.Logger())

	b := broker.New().Logger(log.Logger())
	b.MaxConnections = *maxConns

	if *tcpAddr != "" {
		b.TCP(*tcpAddr)
	}
	if *wsAddr != "" {
		b.WS(*wsAddr, "/mqtt")
	}
	if *certFile != "" && *keyFile != "" {
		b.TLS(*tlsAddr, *certFile, *keyFile)
	}

	metrics := broker.NewMetrics()
	metrics.Register()
	metrics.RefreshUptime()
	defer metrics.Stop()
	b.Metrics(metrics)

	b.Hook(hook.NewAnonymousAuthHook(true).Func())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("broker exited", "err", err)
		os.Exit(1)
	}
}
