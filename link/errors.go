package link

import "errors"

var (
	// ErrNotConnectPacket is returned when the first packet on a new
	// connection is anything other than CONNECT.
	ErrNotConnectPacket = errors.New("first packet was not CONNECT")
	// ErrUnexpectedPacketType is returned when a decoded control packet has
	// no place in the serve loop's reply table and no prior handling.
	ErrUnexpectedPacketType = errors.New("unexpected packet type")
)
