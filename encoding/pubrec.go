package encoding

import "io"

// PubrecPacket is the first reply in the QoS 2 handshake.
type PubrecPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *PubrecPacket) Kind() PacketType { return PUBREC }

func DecodePubrec(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*PubrecPacket, error) {
	a, err := decodeAck(r, fh, version, PUBREC)
	if err != nil {
		return nil, err
	}
	return &PubrecPacket{a.FixedHeader, a.PacketID, a.ReasonCode, a.Properties}, nil
}

func (p *PubrecPacket) Encode(w io.Writer, version ProtocolVersion) error {
	return encodeAck(w, version, PUBREC, 0, &ackPacket{p.FixedHeader, p.PacketID, p.ReasonCode, p.Properties})
}
