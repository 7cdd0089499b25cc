package encoding

import "io"

// UnsubscribePacket represents an UNSUBSCRIBE packet.
type UnsubscribePacket struct {
	FixedHeader  FixedHeader
	PacketID     uint16
	Properties   Properties
	TopicFilters []string
}

func (p *UnsubscribePacket) Kind() PacketType { return UNSUBSCRIBE }

func DecodeUnsubscribe(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*UnsubscribePacket, error) {
	pkt := &UnsubscribePacket{FixedHeader: *fh}

	packetID, err := readTwoByteInt(r)
	if err != nil {
		return nil, err
	}
	if packetID == 0 {
		return nil, ErrInvalidPacketIDZero
	}
	pkt.PacketID = packetID

	bytesRead := 2
	if version == ProtocolVersion50 {
		props, err := ParseProperties(r)
		if err != nil {
			return nil, err
		}
		if err := ValidatePropertiesForPacket(UNSUBSCRIBE, props); err != nil {
			return nil, err
		}
		pkt.Properties = *props
		bytesRead += int(props.Length) + SizeVariableByteInteger(props.Length)
	}

	for bytesRead < int(fh.RemainingLength) {
		topicFilter, err := readUTF8String(r)
		if err != nil {
			return nil, err
		}
		if err := ValidateTopicFilter(topicFilter); err != nil {
			return nil, err
		}
		bytesRead += 2 + len(topicFilter)
		pkt.TopicFilters = append(pkt.TopicFilters, topicFilter)
	}

	if len(pkt.TopicFilters) == 0 {
		return nil, ErrEmptyUnsubscribeList
	}

	return pkt, nil
}

func (p *UnsubscribePacket) Encode(w io.Writer, version ProtocolVersion) error {
	var propsBytes []byte
	if version == ProtocolVersion50 {
		var err error
		propsBytes, err = p.Properties.encodeToBytes()
		if err != nil {
			return err
		}
	}

	remainingLength := uint32(2 + len(propsBytes))
	for _, topic := range p.TopicFilters {
		remainingLength += uint32(2 + len(topic))
	}

	fh := FixedHeader{Type: UNSUBSCRIBE, Flags: 0x02, RemainingLength: remainingLength}
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
	for _, topic := range p.TopicFilters {
		if err := writeUTF8String(w, topic); err != nil {
			return err
		}
	}
	return nil
}
