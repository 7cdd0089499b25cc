package encoding

import "io"

// PubrelPacket continues the QoS 2 handshake; its fixed header flags are
// fixed at 0010 per spec, unlike the other three ack shapes.
type PubrelPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *PubrelPacket) Kind() PacketType { return PUBREL }

func DecodePubrel(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*PubrelPacket, error) {
	a, err := decodeAck(r, fh, version, PUBREL)
	if err != nil {
		return nil, err
	}
	return &PubrelPacket{a.FixedHeader, a.PacketID, a.ReasonCode, a.Properties}, nil
}

func (p *PubrelPacket) Encode(w io.Writer, version ProtocolVersion) error {
	return encodeAck(w, version, PUBREL, 0x02, &ackPacket{p.FixedHeader, p.PacketID, p.ReasonCode, p.Properties})
}
