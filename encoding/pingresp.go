package encoding

import "io"

// PingrespPacket answers a PINGREQ.
type PingrespPacket struct {
	FixedHeader FixedHeader
}

func (p *PingrespPacket) Kind() PacketType { return PINGRESP }

func DecodePingresp(fh *FixedHeader) (*PingrespPacket, error) {
	if fh.RemainingLength != 0 {
		return nil, ErrMalformedPacket
	}
	return &PingrespPacket{FixedHeader: *fh}, nil
}

func (p *PingrespPacket) Encode(w io.Writer) error {
	fh := FixedHeader{Type: PINGRESP}
	return fh.EncodeFixedHeader(w)
}
