package encoding

import "io"

// PublishPacket represents a PUBLISH packet. Properties is only populated
// under MQTT 5.0.
type PublishPacket struct {
	FixedHeader FixedHeader
	TopicName   string
	PacketID    uint16 // only meaningful for QoS 1 and 2
	Properties  Properties
	Payload     []byte
}

func (p *PublishPacket) Kind() PacketType { return PUBLISH }

func DecodePublish(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*PublishPacket, error) {
	pkt := &PublishPacket{FixedHeader: *fh}

	topicName, err := readUTF8String(r)
	if err != nil {
		return nil, err
	}
	pkt.TopicName = topicName
	if err := ValidateTopicName(topicName); err != nil {
		return nil, err
	}

	headerSize := 2 + len(topicName)

	if fh.QoS > QoS0 {
		packetID, err := readTwoByteInt(r)
		if err != nil {
			return nil, err
		}
		if packetID == 0 {
			return nil, ErrInvalidPacketIDZero
		}
		pkt.PacketID = packetID
		headerSize += 2
	}

	if version == ProtocolVersion50 {
		props, err := ParseProperties(r)
		if err != nil {
			return nil, err
		}
		if err := ValidatePropertiesForPacket(PUBLISH, props); err != nil {
			return nil, err
		}
		pkt.Properties = *props
		headerSize += int(props.Length) + SizeVariableByteInteger(props.Length)
	}

	payloadLength := int(fh.RemainingLength) - headerSize
	if payloadLength < 0 {
		return nil, ErrInvalidRemainingLength
	}
	if payloadLength > 0 {
		payload := make([]byte, payloadLength)
		if _, err := io.ReadFull(r, payload); err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, err
		}
		pkt.Payload = payload
	}

	return pkt, nil
}

func (p *PublishPacket) Encode(w io.Writer, version ProtocolVersion) error {
	var propsBytes []byte
	if version == ProtocolVersion50 {
		var err error
		propsBytes, err = p.Properties.encodeToBytes()
		if err != nil {
			return err
		}
	}

	remainingLength := uint32(2 + len(p.TopicName) + len(propsBytes) + len(p.Payload))
	if p.FixedHeader.QoS > QoS0 {
		remainingLength += 2
	}

	fh := FixedHeader{
		Type:            PUBLISH,
		RemainingLength: remainingLength,
		DUP:             p.FixedHeader.DUP,
		QoS:             p.FixedHeader.QoS,
		Retain:          p.FixedHeader.Retain,
	}
	fh.Flags = fh.BuildPublishFlags()
	if err := fh.EncodeFixedHeader(w); err != nil {
		return err
	}

	if err := writeUTF8String(w, p.TopicName); err != nil {
		return err
	}
	if p.FixedHeader.QoS > QoS0 {
		if err := writeTwoByteInt(w, p.PacketID); err != nil {
			return err
		}
	}
	if version == ProtocolVersion50 {
		if _, err := w.Write(propsBytes); err != nil {
			return err
		}
	}
	if len(p.Payload) > 0 {
		if _, err := w.Write(p.Payload); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTo encodes an MQTT 5.0 PUBLISH into a caller-supplied, pre-sized
// buffer, mirroring the teacher's hot-path optimization for the most
// frequently sent packet type. The property block is first rendered into an
// intermediate buffer, so the call is not allocation-free.
func (p *PublishPacket) EncodeTo(buf []byte) (int, error) {
	propsBytes, err := p.Properties.encodeToBytes()
	if err != nil {
		return 0, err
	}

	remainingLength := uint32(2 + len(p.TopicName) + len(propsBytes) + len(p.Payload))
	if p.FixedHeader.QoS > QoS0 {
		remainingLength += 2
	}

	fh := FixedHeader{Type: PUBLISH, RemainingLength: remainingLength}
	fh.DUP, fh.QoS, fh.Retain = p.FixedHeader.DUP, p.FixedHeader.QoS, p.FixedHeader.Retain
	fh.Flags = fh.BuildPublishFlags()

	offset := 0
	n, err := fh.EncodeFixedHeaderToBytes(buf)
	if err != nil {
		return 0, err
	}
	offset += n

	n, err = writeUTF8StringToBytes(buf[offset:], p.TopicName)
	if err != nil {
		return 0, err
	}
	offset += n

	if p.FixedHeader.QoS > QoS0 {
		n, err = writeTwoByteIntToBytes(buf[offset:], p.PacketID)
		if err != nil {
			return 0, err
		}
		offset += n
	}

	if len(buf) < offset+len(propsBytes)+len(p.Payload) {
		return 0, ErrBufferTooSmall
	}
	copy(buf[offset:], propsBytes)
	offset += len(propsBytes)
	copy(buf[offset:], p.Payload)
	offset += len(p.Payload)

	return offset, nil
}
