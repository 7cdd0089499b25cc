package transport

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/link"
	"github.com/brinkmq/brink/network"
)

// defaultWSPath is used when the caller leaves the upgrade path empty,
// matching the Rust source's ws(addr, path)/wss(addr, path, cert, key)
// builder methods defaulting an empty path to "/mqtt".
const defaultWSPath = "/mqtt"

// wsSubprotocol is the subprotocol MQTT-over-WebSocket clients and servers
// must negotiate (MQTT-313 §6, MQTT-5.0 §6).
const wsSubprotocol = "mqtt"

var upgrader = websocket.Upgrader{
	Subprotocols:    []string{wsSubprotocol},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsAdapter serves MQTT over a WebSocket (or WebSocket-over-TLS, the TLS
// termination happens in the *http.Server) upgrade endpoint.
type wsAdapter struct {
	server   *http.Server
	addr     string
	listener net.Listener
	hooks    *hook.Registry
	logger   *slog.Logger
}

// NewWebSocket builds a ws:// adapter. tlsConfig, if non-nil, makes the
// underlying http.Server terminate TLS (wss://) before the WebSocket
// upgrade happens. path defaults to "/mqtt" when empty.
func NewWebSocket(addr, path string, tlsConfig *network.TLSConfig, hooks *hook.Registry, logger *slog.Logger) (Adapter, error) {
	if path == "" {
		path = defaultWSPath
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &wsAdapter{addr: addr, hooks: hooks, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc(path, a.handleUpgrade)

	a.server = &http.Server{Addr: addr, Handler: mux}

	if tlsConfig != nil {
		built, err := tlsConfig.Build()
		if err != nil {
			return nil, err
		}
		a.server.TLSConfig = built
	}

	return a, nil
}

func (a *wsAdapter) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "err", err)
		return
	}

	netConn := newWSNetConn(wsConn)
	conn := network.NewConnection(netConn, wsConn.RemoteAddr().String(), &network.ConnectionConfig{})
	go link.New(conn, a.hooks, a.logger).Serve()
}

func (a *wsAdapter) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.listener = ln
	a.addr = ln.Addr().String()

	errCh := make(chan error, 1)
	go func() {
		var err error
		if a.server.TLSConfig != nil {
			err = a.server.ServeTLS(ln, "", "")
		} else {
			err = a.server.Serve(ln)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(20 * time.Millisecond):
		return nil
	}
}

func (a *wsAdapter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

func (a *wsAdapter) Addr() string { return a.addr }

// wsNetConn adapts a *websocket.Conn's message framing into the plain
// streaming io.Reader/io.Writer net.Conn expects: PUBLISH/SUBSCRIBE/etc.
// packets don't align with WebSocket message boundaries, so reads have to
// buffer the tail of one binary message across calls the way a TCP Read
// already buffers the tail of one TCP segment.
type wsNetConn struct {
	ws      *websocket.Conn
	readBuf []byte
}

func newWSNetConn(ws *websocket.Conn) *wsNetConn {
	return &wsNetConn{ws: ws}
}

func (c *wsNetConn) Read(p []byte) (int, error) {
	for len(c.readBuf) == 0 {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		c.readBuf = data
	}

	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	return n, nil
}

func (c *wsNetConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsNetConn) Close() error                       { return c.ws.Close() }
func (c *wsNetConn) LocalAddr() net.Addr                 { return c.ws.LocalAddr() }
func (c *wsNetConn) RemoteAddr() net.Addr                { return c.ws.RemoteAddr() }
func (c *wsNetConn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}
func (c *wsNetConn) SetReadDeadline(t time.Time) error  { return c.ws.SetReadDeadline(t) }
func (c *wsNetConn) SetWriteDeadline(t time.Time) error { return c.ws.SetWriteDeadline(t) }

var _ net.Conn = (*wsNetConn)(nil)
