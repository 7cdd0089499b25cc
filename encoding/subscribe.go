package encoding

import "io"

// Subscription is a single topic filter entry within a SUBSCRIBE packet.
type Subscription struct {
	TopicFilter       string
	QoS               QoS
	NoLocal           bool // 5.0 only
	RetainAsPublished bool // 5.0 only
	RetainHandling    byte // 5.0 only
}

// SubscribePacket represents a SUBSCRIBE packet.
type SubscribePacket struct {
	FixedHeader   FixedHeader
	PacketID      uint16
	Properties    Properties
	Subscriptions []Subscription
}

func (p *SubscribePacket) Kind() PacketType { return SUBSCRIBE }

func DecodeSubscribe(r io.Reader, fh *FixedHeader, version ProtocolVersion) (*SubscribePacket, error) {
	pkt := &SubscribePacket{FixedHeader: *fh}

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
		if err := ValidatePropertiesForPacket(SUBSCRIBE, props); err != nil {
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

		options, err := readByte(r)
		if err != nil {
			return nil, err
		}
		bytesRead++

		sub := Subscription{
			TopicFilter: topicFilter,
			QoS:         QoS(options & 0x03),
		}
		if version == ProtocolVersion50 {
			sub.NoLocal = (options & 0x04) != 0
			sub.RetainAsPublished = (options & 0x08) != 0
			sub.RetainHandling = (options & 0x30) >> 4
			if (options & 0xC0) != 0 {
				return nil, ErrInvalidSubscriptionOpts
			}
		} else if (options & 0xFC) != 0 {
			return nil, ErrInvalidSubscriptionOpts
		}
		if !sub.QoS.IsValid() {
			return nil, ErrInvalidQoS
		}

		pkt.Subscriptions = append(pkt.Subscriptions, sub)
	}

	if len(pkt.Subscriptions) == 0 {
		return nil, ErrEmptySubscriptionList
	}

	return pkt, nil
}

func (p *SubscribePacket) Encode(w io.Writer, version ProtocolVersion) error {
	var propsBytes []byte
	if version == ProtocolVersion50 {
		var err error
		propsBytes, err = p.Properties.encodeToBytes()
		if err != nil {
			return err
		}
	}

	remainingLength := uint32(2 + len(propsBytes))
	for _, sub := range p.Subscriptions {
		remainingLength += uint32(2 + len(sub.TopicFilter) + 1)
	}

	fh := FixedHeader{Type: SUBSCRIBE, Flags: 0x02, RemainingLength: remainingLength}
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

	for _, sub := range p.Subscriptions {
		if err := writeUTF8String(w, sub.TopicFilter); err != nil {
			return err
		}
		options := byte(sub.QoS & 0x03)
		if version == ProtocolVersion50 {
			if sub.NoLocal {
				options |= 0x04
			}
			if sub.RetainAsPublished {
				options |= 0x08
			}
			options |= (sub.RetainHandling & 0x03) << 4
		}
		if err := writeByte(w, options); err != nil {
			return err
		}
	}

	return nil
}
