package hook

import (
	"errors"
	"testing"

	"github.com/brinkmq/brink/encoding"
	"github.com/stretchr/testify/require"
)

func TestRegistryRunsInOrderAndContinuesOnNil(t *testing.T) {
	r := NewRegistry()
	var order []int

	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		order = append(order, 1)
		return nil, nil
	})
	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		order = append(order, 2)
		return nil, nil
	})

	result, err := r.Trigger(&encoding.PingreqPacket{})
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, []int{1, 2}, order)
}

func TestRegistryShortCircuitsOnPacket(t *testing.T) {
	r := NewRegistry()
	var ran2 bool

	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		return &encoding.ConnackPacket{ReasonCode: encoding.ReasonNotAuthorized}, nil
	})
	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		ran2 = true
		return nil, nil
	})

	result, err := r.Trigger(&encoding.ConnectPacket{})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.False(t, ran2, "chain must stop once a hook returns a non-nil packet")
}

func TestRegistryShortCircuitsOnError(t *testing.T) {
	r := NewRegistry()
	wantErr := errors.New("boom")
	var ran2 bool

	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		return nil, wantErr
	})
	r.Register(func(pkt encoding.Packet) (encoding.Packet, error) {
		ran2 = true
		return nil, nil
	})

	result, err := r.Trigger(&encoding.ConnectPacket{})
	require.ErrorIs(t, err, wantErr)
	require.Nil(t, result)
	require.False(t, ran2)
}

func TestRegistryEmptyChainReturnsNil(t *testing.T) {
	r := NewRegistry()
	result, err := r.Trigger(&encoding.PingreqPacket{})
	require.NoError(t, err)
	require.Nil(t, result)
}
