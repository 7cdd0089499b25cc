package hook

import (
	"testing"

	"github.com/brinkmq/brink/encoding"
	"github.com/stretchr/testify/require"
)

func TestBasicAuthHookAcceptsKnownUser(t *testing.T) {
	h := NewBasicAuthHook()
	h.AddUser("alice", "hunter2")
	fn := h.Func()

	result, err := fn(&encoding.ConnectPacket{Username: "alice", Password: []byte("hunter2")})
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestBasicAuthHookRejectsUnknownUser(t *testing.T) {
	h := NewBasicAuthHook()
	fn := h.Func()

	result, err := fn(&encoding.ConnectPacket{Username: "mallory", Password: []byte("whatever")})
	require.NoError(t, err)
	require.NotNil(t, result)
	connack, ok := result.(*encoding.ConnackPacket)
	require.True(t, ok)
	require.Equal(t, encoding.ReasonBadUsernameOrPassword, connack.ReasonCode)
}

func TestBasicAuthHookIgnoresNonConnectPackets(t *testing.T) {
	h := NewBasicAuthHook()
	fn := h.Func()

	result, err := fn(&encoding.PingreqPacket{})
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestAnonymousAuthHookAllowsWhenConfigured(t *testing.T) {
	h := NewAnonymousAuthHook(true)
	fn := h.Func()

	result, err := fn(&encoding.ConnectPacket{})
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestAnonymousAuthHookRejectsWhenDisallowed(t *testing.T) {
	h := NewAnonymousAuthHook(false)
	fn := h.Func()

	result, err := fn(&encoding.ConnectPacket{})
	require.NoError(t, err)
	require.NotNil(t, result)
	connack, ok := result.(*encoding.ConnackPacket)
	require.True(t, ok)
	require.Equal(t, encoding.ReasonNotAuthorized, connack.ReasonCode)
}

func TestAnonymousAuthHookPassesThroughCredentialedConnect(t *testing.T) {
	h := NewAnonymousAuthHook(false)
	fn := h.Func()

	result, err := fn(&encoding.ConnectPacket{Username: "bob", Password: []byte("x")})
	require.NoError(t, err)
	require.Nil(t, result, "hook only judges anonymous attempts, credentialed clients pass through to other hooks")
}
