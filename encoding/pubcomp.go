package encoding

import "io"

// PubcompPacket completes the QoS 2 handshake.
type PubcompPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *PubcompPacket) Kind() PacketType { return PUBCOMP }

func DecodePubcomp(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*PubcompPacket, error) {
	a, err := decodeAck(r, fh, version, PUBCOMP)
	if err != nil {
		return nil, err
	}
	return &PubcompPacket{a.FixedHeader, a.PacketID, a.ReasonCode, a.Properties}, nil
}

func (p *PubcompPacket) Encode(w io.Writer, version ProtocolVersion) error {
	return encodeAck(w, version, PUBCOMP, 0, &ackPacket{p.FixedHeader, p.PacketID, p.ReasonCode, p.Properties})
}
