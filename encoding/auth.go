package encoding

import "io"

// AuthPacket represents an AUTH packet, introduced in MQTT 5.0 for extended
// (e.g. challenge-response) authentication. There is no 3.1/3.1.1 form.
type AuthPacket struct {
	FixedHeader FixedHeader
	ReasonCode  ReasonCode
	Properties  Properties
}

func (p *AuthPacket) Kind() PacketType { return AUTH }

func DecodeAuth(r io.Reader, fh *FixedHeader) (*AuthPacket, error) {
	pkt := &AuthPacket{FixedHeader: *fh}

	if fh.RemainingLength == 0 {
		pkt.ReasonCode = ReasonSuccess
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
	if err := ValidatePropertiesForPacket(AUTH, props); err != nil {
		return nil, err
	}
	pkt.Properties = *props

	return pkt, nil
}

func (p *AuthPacket) Encode(w io.Writer) error {
	propsBytes, err := p.Properties.encodeToBytes()
	if err != nil {
		return err
	}

	remainingLength := uint32(1 + len(propsBytes))
	fh := FixedHeader{Type: AUTH, RemainingLength: remainingLength}
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}

	if err := writeByte(w, byte(p.ReasonCode)); err != nil {
		return err
	}
	_, err = w.Write(propsBytes)
	return err
}
