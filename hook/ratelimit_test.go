package hook

import (
	"testing"
	"time"

	"github.com/brinkmq/brink/encoding"
	"github.com/stretchr/testify/require"
)

func TestRateLimitHookAllowsWithinWindow(t *testing.T) {
	h := NewRateLimitHook(2, time.Minute)
	defer h.Stop()
	fn := h.FuncFor("client-1")
	pkt := &encoding.PublishPacket{TopicName: "a/b"}

	_, err := fn(pkt)
	require.NoError(t, err)
	_, err = fn(pkt)
	require.NoError(t, err)
}

func TestRateLimitHookRejectsOverLimit(t *testing.T) {
	h := NewRateLimitHook(1, time.Minute)
	defer h.Stop()
	fn := h.FuncFor("client-1")
	pkt := &encoding.PublishPacket{TopicName: "a/b"}

	_, err := fn(pkt)
	require.NoError(t, err)
	_, err = fn(pkt)
	require.ErrorIs(t, err, ErrRateLimitExceeded)
}

func TestRateLimitHookIgnoresNonPublishPackets(t *testing.T) {
	h := NewRateLimitHook(0, time.Minute)
	defer h.Stop()
	fn := h.FuncFor("client-1")

	_, err := fn(&encoding.PingreqPacket{})
	require.NoError(t, err)
}

func TestRateLimitHookTracksClientsIndependently(t *testing.T) {
	h := NewRateLimitHook(1, time.Minute)
	defer h.Stop()
	pkt := &encoding.PublishPacket{TopicName: "a/b"}

	_, err := h.FuncFor("client-1")(pkt)
	require.NoError(t, err)
	_, err = h.FuncFor("client-2")(pkt)
	require.NoError(t, err, "separate client identifiers must not share a window")

	count1, ok := h.GetClientCount("client-1")
	require.True(t, ok)
	require.Equal(t, 1, count1)
}

func TestMultiLevelRateLimitHookEnforcesGlobalCeiling(t *testing.T) {
	h := NewMultiLevelRateLimitHook(0, 0, 1, time.Minute)
	defer h.Stop()
	pkt := &encoding.PublishPacket{TopicName: "a/b"}

	_, err := h.FuncFor("client-1")(pkt)
	require.NoError(t, err)
	_, err = h.FuncFor("client-2")(pkt)
	require.ErrorIs(t, err, ErrGlobalRateLimitExceeded)
}

func TestMultiLevelRateLimitHookEnforcesPerTopicCeiling(t *testing.T) {
	h := NewMultiLevelRateLimitHook(0, 1, 0, time.Minute)
	defer h.Stop()

	_, err := h.FuncFor("client-1")(&encoding.PublishPacket{TopicName: "sensors/a"})
	require.NoError(t, err)
	_, err = h.FuncFor("client-2")(&encoding.PublishPacket{TopicName: "sensors/a"})
	require.ErrorIs(t, err, ErrTopicRateLimitExceeded)
}
