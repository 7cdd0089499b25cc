package encoding

import "io"

// ackPacket is the shared shape of PUBACK/PUBREC/PUBREL/PUBCOMP: a packet ID,
// a reason code, and optional 5.0 properties. 3.1/3.1.1 carries only the
// packet ID — no reason code, no properties.
type ackPacket struct {
	FixedHeader FixedHeader
	PacketID    uint16
	ReasonCode  ReasonCode
	Properties  Properties
}

func decodeAck(r io.Reader, fh *FixedHeader, version ProtocolVersion, pt PacketType) (*ackPacket, error) {
	pkt := &ackPacket{FixedHeader: *fh}

	packetID, err := readTwoByteInt(r)
	if err != nil {
		return nil, err
	}
	if packetID == 0 {
		return nil, ErrInvalidPacketIDZero
	}
	pkt.PacketID = packetID

	if version != ProtocolVersion50 {
		return pkt, nil
	}

	// Remaining length of 2 means reason code Success and no properties (5.0 §3.4.2.1 et al).
	if fh.RemainingLength == 2 {
		pkt.ReasonCode = ReasonSuccess
		return pkt, nil
	}

	reasonCode, err := readByte(r)
	if err != nil {
		return nil, err
	}
	pkt.ReasonCode = ReasonCode(reasonCode)

	if fh.RemainingLength == 3 {
		return pkt, nil
	}

	props, err := ParseProperties(r)
	if err != nil {
		return nil, err
	}
	if err := ValidatePropertiesForPacket(pt, props); err != nil {
		return nil, err
	}
	pkt.Properties = *props

	return pkt, nil
}

func encodeAck(w io.Writer, version ProtocolVersion, pt PacketType, flags byte, pkt *ackPacket) error {
	if version != ProtocolVersion50 {
		fh := FixedHeader{Type: pt, Flags: flags, RemainingLength: 2}
		if err := fh.EncodeFixedHeader(w); err != nil {
			return err
		}
		return writeTwoByteInt(w, pkt.PacketID)
	}

	propsBytes, err := pkt.Properties.encodeToBytes()
	if err != nil {
		return err
	}

	remainingLength := uint32(2)
	includeReasonAndProps := pkt.ReasonCode != ReasonSuccess || len(propsBytes) > 1
	if includeReasonAndProps {
		remainingLength += 1 + uint32(len(propsBytes))
	}

	fh := FixedHeader{Type: pt, Flags: flags, RemainingLength: remainingLength}
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}
	if err := writeTwoByteInt(w, pkt.PacketID); err != nil {
		return err
	}

	if includeReasonAndProps {
		if err := writeByte(w, byte(pkt.ReasonCode)); err != nil {
			return err
		}
		if _, err := w.Write(propsBytes); err != nil {
			return err
		}
	}
	return nil
}
