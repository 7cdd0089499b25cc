package encoding

import "io"

// UnsubackPacket acknowledges an UNSUBSCRIBE. Under 3.1/3.1.1 it carries no
// reason codes at all (ReasonCodes stays empty); 5.0 added a success/failure
// code per filter.
type UnsubackPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	Properties  Properties
	ReasonCodes []ReasonCode
}

func (p *UnsubackPacket) Kind() PacketType { return UNSUBACK }

func DecodeUnsuback(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*UnsubackPacket, error) {
	pkt := &UnsubackPacket{FixedHeader: *fh}

	packetID, err := readTwoByteInt(r)
	if err != nil {
		return nil, err
	}
	pkt.PacketID = packetID

	if version != ProtocolVersion50 {
		return pkt, nil
	}

	props, err := ParseProperties(r)
	if err != nil {
		return nil, err
	}
	if err := ValidatePropertiesForPacket(UNSUBACK, props); err != nil {
		return nil, err
	}
	pkt.Properties = *props

	bytesRead := 2 + int(props.Length) + SizeVariableByteInteger(props.Length)
	count := int(fh.RemainingLength) - bytesRead
	if count < 0 {
		return nil, ErrInvalidRemainingLength
	}
	pkt.ReasonCodes = make([]ReasonCode, count)
	for i := 0; i < count; i++ {
		rc, err := readByte(r)
		if err != nil {
			return nil, err
		}
		pkt.ReasonCodes[i] = ReasonCode(rc)
	}

	return pkt, nil
}

func (p *UnsubackPacket) Encode(w io.Writer, version ProtocolVersion) error {
	if version != ProtocolVersion50 {
		fh := FixedHeader{Type: UNSUBACK, RemainingLength: 2}
		if err := fh.EncodeFixedHeader(w); err != nil {
			return err
		}
		return writeTwoByteInt(w, p.PacketID)
	}

	propsBytes, err := p.Properties.encodeToBytes()
	if err != nil {
		return err
	}
	remainingLength := uint32(2 + len(propsBytes) + len(p.ReasonCodes))

	fh := FixedHeader{Type: UNSUBACK, RemainingLength: remainingLength}
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}
	if err := writeTwoByteInt(w, p.PacketID); err != nil {
		return err
	}
	if _, err := w.Write(propsBytes); err != nil {
		return err
	}
	for _, rc := range p.ReasonCodes {
		if err := writeByte(w, byte(rc)); err != nil {
			return err
		}
	}
	return nil
}
