package transport

import (
	"net"
	"testing"
	"time"

	"github.com/brinkmq/brink/encoding"
	"github.com/brinkmq/brink/hook"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestTCPAdapterAcceptsAndServes(t *testing.T) {
	a, err := NewTCP("127.0.0.1:0", 0, hook.NewRegistry(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Start())
	defer a.Close()

	addr := a.Addr()
	require.NotEmpty(t, addr)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	connect := &encoding.ConnectPacket{ProtocolVersion: encoding.ProtocolVersion311, ClientID: "t"}
	require.NoError(t, connect.Encode(conn))

	fh, err := encoding.ParseFixedHeader(conn)
	require.NoError(t, err)
	require.Equal(t, encoding.CONNACK, fh.Type)
}

func TestWebSocketAdapterUpgradesAndServes(t *testing.T) {
	a, err := NewWebSocket("127.0.0.1:0", "", nil, hook.NewRegistry(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Start())
	defer a.Close()

	time.Sleep(20 * time.Millisecond)

	url := "ws://" + a.Addr() + "/mqtt"
	dialer := websocket.Dialer{Subprotocols: []string{wsSubprotocol}}
	wsConn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer wsConn.Close()

	var buf []byte
	connect := &encoding.ConnectPacket{ProtocolVersion: encoding.ProtocolVersion311, ClientID: "ws-client"}
	bw := &bufWriter{}
	require.NoError(t, connect.Encode(bw))
	buf = bw.b
	require.NoError(t, wsConn.WriteMessage(websocket.BinaryMessage, buf))

	msgType, data, err := wsConn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, msgType)
	require.NotEmpty(t, data)
}

type bufWriter struct{ b []byte }

func (w *bufWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}
