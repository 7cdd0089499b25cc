package broker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes broker-wide counters and gauges to Prometheus. Shape and
// metric names follow golang-io-mqtt's stat.go: one counter per packet
// direction (received/sent), one gauge for active connections, and an
// uptime counter refreshed on a ticker.
type Metrics struct {
	Uptime            prometheus.Counter
	ActiveConnections prometheus.Gauge
	PacketReceived    prometheus.Counter
	ByteReceived      prometheus.Counter
	PacketSent        prometheus.Counter
	ByteSent          prometheus.Counter

	startedAt time.Time
	stop      chan struct{}
}

// NewMetrics constructs a fresh, unregistered Metrics. Call Register to
// expose it on the default Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Uptime: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_uptime_seconds",
			Help: "Seconds the broker has been running.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_active_client_count",
			Help: "Number of currently connected clients.",
		}),
		PacketReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_received_packets",
			Help: "Total MQTT packets received across all listeners.",
		}),
		ByteReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_received_bytes",
			Help: "Total bytes received across all listeners.",
		}),
		PacketSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_send_packets",
			Help: "Total MQTT packets sent across all listeners.",
		}),
		ByteSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_send_bytes",
			Help: "Total bytes sent across all listeners.",
		}),
	}
}

// Register exposes every metric on the default Prometheus registry.
func (m *Metrics) Register() {
	prometheus.MustRegister(
		m.Uptime,
		m.ActiveConnections,
		m.PacketReceived,
		m.ByteReceived,
		m.PacketSent,
		m.ByteSent,
	)
}

// RefreshUptime starts a background ticker that increments Uptime once per
// second until Stop is called. It is safe to call at most once per Metrics.
func (m *Metrics) RefreshUptime() {
	m.startedAt = time.Now()
	m.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Uptime.Add(1)
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the uptime ticker started by RefreshUptime.
func (m *Metrics) Stop() {
	if m.stop != nil {
		close(m.stop)
	}
}
