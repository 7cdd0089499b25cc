package encoding

import "io"

// DisconnectPacket represents a DISCONNECT packet. Under 3.1/3.1.1 it is
// always zero bytes long (no reason code, no properties).
type DisconnectPacket struct {
	FixedHeader FixedHeader
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *DisconnectPacket) Kind() PacketType { return DISCONNECT }

func DecodeDisconnect(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*DisconnectPacket, error) {
	pkt := &DisconnectPacket{FixedHeader: *fh, ReasonCode: ReasonNormalDisconnection}

	if version != ProtocolVersion50 || fh.RemainingLength == 0 {
		return pkt, nil
	}

	reasonCode, err := readByte(r)
	if err != nil {
		return nil, err
	}
	pkt.ReasonCode = ReasonCode(reasonCode)

	if fh.RemainingLength == 1 {
		return pkt, nil
	}

	props, err := ParseProperties(r)
	if err != nil {
		return nil, err
	}
	if err := ValidatePropertiesForPacket(DISCONNECT, props); err != nil {
		return nil, err
	}
	pkt.Properties = *props

	return pkt, nil
}

func (p *DisconnectPacket) Encode(w io.Writer, version ProtocolVersion) error {
	if version != ProtocolVersion50 {
		fh := FixedHeader{Type: DISCONNECT, RemainingLength: 0}
		return fh.EncodeFixedHeader(w)
	}

	propsBytes, err := p.Properties.encodeToBytes()
	if err != nil {
		return err
	}

	var remainingLength uint32
	if p.ReasonCode != ReasonNormalDisconnection || len(propsBytes) > 1 {
		remainingLength = 1 + uint32(len(propsBytes))
	}

	fh := FixedHeader{Type: DISCONNECT, RemainingLength: remainingLength}
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}

	if remainingLength == 0 {
		return nil
	}
	if err := writeByte(w, byte(p.ReasonCode)); err != nil {
		return err
	}
	_, err = w.Write(propsBytes)
	return err
}
