package link

import (
	"math"
	"time"
)

// bootstrapKeepAlive bounds how long a Link waits for the first (CONNECT)
// packet, before any client-advertised keep-alive interval is known.
const bootstrapKeepAlive = 5 * time.Second

// negotiatedKeepAlive converts a CONNECT packet's advertised keep-alive
// (seconds) into the read timeout a Link enforces between packets: the MQTT
// spec gives the server 1.5x the advertised interval of grace before it must
// treat the client as disconnected. A keepAlive of zero means the client
// asked for no timeout at all.
func negotiatedKeepAlive(advertised uint16) time.Duration {
	if advertised == 0 {
		return 0
	}
	seconds := math.Ceil(float64(advertised) * 1.5)
	return time.Duration(seconds) * time.Second
}
