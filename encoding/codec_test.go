package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, version ProtocolVersion, buf *bytes.Buffer) Packet {
	t.Helper()
	fh, err := ParseFixedHeader(buf)
	require.NoError(t, err)
	pkt, err := Decode(version, fh, buf)
	require.NoError(t, err)
	return pkt
}

func TestConnectRoundTrip(t *testing.T) {
	versions := []ProtocolVersion{ProtocolVersion31, ProtocolVersion311, ProtocolVersion50}
	for _, version := range versions {
		t.Run(version.String(), func(t *testing.T) {
			want := &ConnectPacket{
				ProtocolVersion: version,
				CleanStart:      true,
				ClientID:        "brink-client",
				KeepAlive:       30,
				UsernameFlag:    true,
				Username:        "alice",
				PasswordFlag:    true,
				Password:        []byte("hunter2"),
			}
			if version == ProtocolVersion50 {
				require.NoError(t, want.Properties.AddProperty(PropSessionExpiryInterval, uint32(60)))
			}

			var buf bytes.Buffer
			require.NoError(t, want.Encode(&buf))

			got := decodeOne(t, version, &buf)
			connect, ok := got.(*ConnectPacket)
			require.True(t, ok)
			require.Equal(t, want.ClientID, connect.ClientID)
			require.Equal(t, want.KeepAlive, connect.KeepAlive)
			require.Equal(t, want.Username, connect.Username)
			require.Equal(t, want.Password, connect.Password)
			require.Equal(t, version, connect.ProtocolVersion)
		})
	}
}

func TestPublishRoundTripAllVersionsAllQoS(t *testing.T) {
	versions := []ProtocolVersion{ProtocolVersion31, ProtocolVersion311, ProtocolVersion50}
	for _, version := range versions {
		for _, qos := range []QoS{QoS0, QoS1, QoS2} {
			pkt := &PublishPacket{
				FixedHeader: FixedHeader{QoS: qos, Retain: true},
				TopicName:   "sensors/temp",
				Payload:     []byte("21.5"),
			}
			if qos > QoS0 {
				pkt.PacketID = 42
			}

			var buf bytes.Buffer
			require.NoError(t, pkt.Encode(&buf, version))

			got := decodeOne(t, version, &buf)
			publish, ok := got.(*PublishPacket)
			require.True(t, ok)
			require.Equal(t, pkt.TopicName, publish.TopicName)
			require.Equal(t, pkt.Payload, publish.Payload)
			require.Equal(t, pkt.PacketID, publish.PacketID)
			require.Equal(t, qos, publish.FixedHeader.QoS)
			require.True(t, publish.FixedHeader.Retain)
		}
	}
}

func TestPubackReasonCodeOmittedOnSuccess(t *testing.T) {
	pkt := &PubackPacket{PacketID: 7, ReasonCode: ReasonSuccess}
	var buf bytes.Buffer
	require.NoError(t, pkt.Encode(&buf, ProtocolVersion50))
	require.Equal(t, 4, buf.Len(), "success PUBACK with no properties must collapse to packet-id-only form")

	got := decodeOne(t, ProtocolVersion50, &buf)
	puback, ok := got.(*PubackPacket)
	require.True(t, ok)
	require.Equal(t, ReasonSuccess, puback.ReasonCode)
}

func TestConnackReturnCode311(t *testing.T) {
	pkt := &ConnackPacket{ReasonCode: ReasonNotAuthorized}
	var buf bytes.Buffer
	require.NoError(t, pkt.Encode(&buf, ProtocolVersion311))

	got := decodeOne(t, ProtocolVersion311, &buf)
	connack, ok := got.(*ConnackPacket)
	require.True(t, ok)
	require.Equal(t, ReasonCode(5), connack.ReasonCode)
}

func TestSubscribeRejectsEmptyList(t *testing.T) {
	pkt := &SubscribePacket{PacketID: 1}
	var buf bytes.Buffer
	require.NoError(t, pkt.Encode(&buf, ProtocolVersion50))

	fh, err := ParseFixedHeader(&buf)
	require.NoError(t, err)
	_, err = Decode(ProtocolVersion50, fh, &buf)
	require.ErrorIs(t, err, ErrEmptySubscriptionList)
}

func TestPublishRejectsInvalidPropertyForPacketType(t *testing.T) {
	pkt := &PublishPacket{TopicName: "a/b"}
	require.NoError(t, pkt.Properties.AddProperty(PropWillDelayInterval, uint32(5)))

	var buf bytes.Buffer
	require.NoError(t, pkt.Encode(&buf, ProtocolVersion50))

	fh, err := ParseFixedHeader(&buf)
	require.NoError(t, err)
	_, err = Decode(ProtocolVersion50, fh, &buf)
	require.Error(t, err)
}

func TestPingPongRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PingreqPacket{}).Encode(&buf))
	got := decodeOne(t, ProtocolVersion50, &buf)
	_, ok := got.(*PingreqPacket)
	require.True(t, ok)

	buf.Reset()
	require.NoError(t, (&PingrespPacket{}).Encode(&buf))
	got = decodeOne(t, ProtocolVersion50, &buf)
	_, ok = got.(*PingrespPacket)
	require.True(t, ok)
}
