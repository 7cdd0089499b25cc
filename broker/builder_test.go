package broker

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brinkmq/brink/encoding"
)

func TestBuilderRunReturnsOnContextCancel(t *testing.T) {
	b := New().TCP("127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestBuilderDefaultsToPlainTCPWhenUnconfigured(t *testing.T) {
	b := New()
	require.Empty(t, b.listens)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = b.Run(ctx)

	require.Len(t, b.listens, 1)
	require.Equal(t, "tcp", b.listens[0].kind)
	require.Equal(t, "0.0.0.0:1883", b.listens[0].addr)
}

func TestBuilderHookChainSeesConnectPacket(t *testing.T) {
	seen := make(chan struct{}, 1)
	b := New().TCP("127.0.0.1:0").Hook(func(pkt encoding.Packet) (encoding.Packet, error) {
		if _, ok := pkt.(*encoding.ConnectPacket); ok {
			seen <- struct{}{}
		}
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	var addr string
	for i := 0; i < 50 && addr == ""; i++ {
		time.Sleep(10 * time.Millisecond)
		if addrs := b.Addrs(); len(addrs) == 1 {
			addr = addrs[0]
		}
	}
	require.NotEmpty(t, addr)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	connect := &encoding.ConnectPacket{ProtocolVersion: encoding.ProtocolVersion311, ClientID: "hook-test"}
	require.NoError(t, connect.Encode(conn))

	select {
	case <-seen:
	case <-time.After(time.Second):
		t.Fatal("hook never observed the CONNECT packet")
	}

	cancel()
	<-done
}

func TestBuilderChainingReturnsSameBuilder(t *testing.T) {
	b := New()
	chained := b.TCP("127.0.0.1:0").WS("127.0.0.1:0", "").Logger(nil)
	require.Same(t, b, chained)
	require.Len(t, b.listens, 2)
}
