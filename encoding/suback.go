package encoding

import "io"

// SubackPacket acknowledges a SUBSCRIBE, one reason code per requested filter.
type SubackPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	Properties  Properties
	ReasonCodes []ReasonCode
}

func (p *SubackPacket) Kind() PacketType { return SUBACK }

func DecodeSuback(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*SubackPacket, error) {
	pkt := &SubackPacket{FixedHeader: *fh}

	packetID, err := readTwoByteInt(r)
	if err != nil {
		return nil, err
	}
	pkt.PacketID = packetID

	bytesRead := 2
	if version == ProtocolVersion50 {
		props, err := ParseProperties(r)
		if err != nil {
			return nil, err
		}
		if err := ValidatePropertiesForPacket(SUBACK, props); err != nil {
			return nil, err
		}
		pkt.Properties = *props
		bytesRead += int(props.Length) + SizeVariableByteInteger(props.Length)
	}

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

func (p *SubackPacket) Encode(w io.Writer, version ProtocolVersion) error {
	var propsBytes []byte
	if version == ProtocolVersion50 {
		var err error
		propsBytes, err = p.Properties.encodeToBytes()
		if err != nil {
			return err
		}
	}

	remainingLength := uint32(2 + len(propsBytes) + len(p.ReasonCodes))
	fh := FixedHeader{Type: SUBACK, RemainingLength: remainingLength}
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}
	if err := writeTwoByteInt(w, p.PacketID); err != nil {
		return err
	}
	if version == ProtocolVersion50 {
		if _, err := w.Write(propsBytes); err != nil {
			return err
		}
	}
	for _, rc := range p.ReasonCodes {
		if err := writeByte(w, byte(rc)); err != nil {
			return err
		}
	}
	return nil
}
