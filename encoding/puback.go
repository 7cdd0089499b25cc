package encoding

import "io"

// PubackPacket acknowledges a QoS 1 PUBLISH.
type PubackPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *PubackPacket) Kind() PacketType { return PUBACK }

func DecodePuback(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*PubackPacket, error) {
	a, err := decodeAck(r, fh, version, PUBACK)
	if err != nil {
		return nil, err
	}
	return &PubackPacket{a.FixedHeader, a.PacketID, a.ReasonCode, a.Properties}, nil
}

func (p *PubackPacket) Encode(w io.Writer, version ProtocolVersion) error {
	return encodeAck(w, version, PUBACK, 0, &ackPacket{p.FixedHeader, p.PacketID, p.ReasonCode, p.Properties})
}
