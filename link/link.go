// Package link implements the per-connection framed I/O loop: read one
// control packet at a time off a byte stream, run it through the hook
// chain, and write back whatever default reply the protocol calls for.
package link

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brinkmq/brink/encoding"
	"github.com/brinkmq/brink/hook"
	"github.com/brinkmq/brink/network"
)

// Link owns one client connection for its entire lifetime: the CONNECT
// handshake, then the read-dispatch-reply loop until the client disconnects
// or a transport error tears the connection down.
type Link struct {
	conn   *network.Connection
	hooks  *hook.Registry
	logger *slog.Logger

	Version   encoding.ProtocolVersion
	ClientID  string
	KeepAlive time.Duration
}

// New wraps an already-accepted network.Connection in a Link. The Link does
// not start reading until Serve is called.
func New(conn *network.Connection, hooks *hook.Registry, logger *slog.Logger) *Link {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Link{
		conn:      conn,
		hooks:     hooks,
		logger:    logger,
		KeepAlive: bootstrapKeepAlive,
	}
	conn.SetReadDeadline(bootstrapKeepAlive)
	return l
}

// Serve runs the CONNECT handshake and then the packet loop until the
// connection ends. It always closes the underlying connection before
// returning.
func (l *Link) Serve() {
	defer l.conn.Close()

	if err := l.connect(); err != nil {
		l.logger.Warn("connect handshake failed", "remote_addr", l.conn.RemoteAddr(), "err", err)
		return
	}

	for {
		pkt, err := l.readPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.logger.Warn("read failed", "client_id", l.ClientID, "err", err)
			}
			return
		}

		if result, err := l.hooks.Trigger(pkt); err != nil {
			l.logger.Warn("hook chain error", "client_id", l.ClientID, "packet_type", pkt.Kind(), "err", err)
		} else if result != nil {
			l.logger.Info("hook chain produced a packet", "client_id", l.ClientID, "packet_type", pkt.Kind(), "result_type", result.Kind())
		}

		reply, terminate, err := l.defaultReply(pkt)
		if err != nil {
			l.logger.Warn("packet handling failed", "client_id", l.ClientID, "packet_type", pkt.Kind(), "err", err)
			return
		}
		if reply != nil {
			if err := l.writePacket(reply); err != nil {
				l.logger.Warn("write failed", "client_id", l.ClientID, "err", err)
				return
			}
		}
		if terminate {
			return
		}
	}
}

// connect reads the mandatory first packet, which must be CONNECT, negotiates
// the protocol version and keep-alive interval, runs it through the hook
// chain (logged, never substituted — see DESIGN.md), and always replies with
// a successful CONNACK.
func (l *Link) connect() error {
	pkt, err := l.readPacket()
	if err != nil {
		return err
	}

	connect, ok := pkt.(*encoding.ConnectPacket)
	if !ok {
		return ErrNotConnectPacket
	}

	l.Version = connect.ProtocolVersion
	l.ClientID = connect.ClientID
	l.KeepAlive = negotiatedKeepAlive(connect.KeepAlive)
	l.conn.SetReadDeadline(l.KeepAlive)

	if result, err := l.hooks.Trigger(connect); err != nil {
		l.logger.Warn("connect hook chain error", "client_id", l.ClientID, "err", err)
	} else if result != nil {
		l.logger.Info("connect hook chain produced a packet", "client_id", l.ClientID, "result_type", result.Kind())
	}

	return l.writePacket(&encoding.ConnackPacket{ReasonCode: encoding.ReasonSuccess})
}

// readPacket parses one fixed header then decodes exactly RemainingLength
// bytes of body from the connection.
func (l *Link) readPacket() (encoding.Packet, error) {
	fh, err := encoding.ParseFixedHeader(l.conn)
	if err != nil {
		return nil, err
	}

	body := io.LimitReader(l.conn, int64(fh.RemainingLength))
	return encoding.Decode(l.Version, fh, body)
}

func (l *Link) writePacket(pkt encoding.Packet) error {
	return encoding.Encode(l.conn, l.Version, pkt)
}

// defaultReply implements the protocol's fixed request/response table: the
// reply a well-behaved broker sends absent any hook substituting its own
// behavior. A nil reply with terminate=false means "no reply, keep serving".
func (l *Link) defaultReply(pkt encoding.Packet) (reply encoding.Packet, terminate bool, err error) {
	switch p := pkt.(type) {
	case *encoding.PingreqPacket:
		return &encoding.PingrespPacket{}, false, nil

	case *encoding.PublishPacket:
		switch p.FixedHeader.QoS {
		case encoding.QoS0:
			return nil, false, nil
		case encoding.QoS1:
			return &encoding.PubackPacket{PacketID: p.PacketID, ReasonCode: encoding.ReasonSuccess}, false, nil
		case encoding.QoS2:
			return &encoding.PubrecPacket{PacketID: p.PacketID, ReasonCode: encoding.ReasonSuccess}, false, nil
		default:
			return nil, false, fmt.Errorf("%w: publish qos %d", ErrUnexpectedPacketType, p.FixedHeader.QoS)
		}

	case *encoding.PubrelPacket:
		return &encoding.PubcompPacket{PacketID: p.PacketID, ReasonCode: encoding.ReasonSuccess}, false, nil

	case *encoding.SubscribePacket:
		codes := make([]encoding.ReasonCode, len(p.Subscriptions))
		for i := range codes {
			codes[i] = encoding.ReasonGrantedQoS0
		}
		return &encoding.SubackPacket{PacketID: p.PacketID, ReasonCodes: codes}, false, nil

	case *encoding.UnsubscribePacket:
		codes := make([]encoding.ReasonCode, len(p.TopicFilters))
		for i := range codes {
			codes[i] = encoding.ReasonSuccess
		}
		return &encoding.UnsubackPacket{PacketID: p.PacketID, ReasonCodes: codes}, false, nil

	case *encoding.DisconnectPacket:
		return nil, true, nil

	case *encoding.PubackPacket, *encoding.PubrecPacket, *encoding.PubcompPacket, *encoding.AuthPacket:
		return nil, false, nil

	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnexpectedPacketType, pkt)
	}
}
