package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// MessageType is the frame type byte
type MessageType uint8

const (
	MsgHeartbeat MessageType = 0x01
	MsgAck       MessageType = 0x02

	// Game messages occupy 0x40-0x7F; the type byte is the wire.Kind
	MsgGameMin MessageType = 0x40
	MsgGameMax MessageType = 0x7F
)

// IsGame reports whether the frame carries a wire message
func (t MessageType) IsGame() bool {
	return t >= MsgGameMin && t <= MsgGameMax
}

// ProtocolVersion is checked on every frame; peers of different versions cannot talk
const ProtocolVersion = 1

// Frame layout, big endian:
//
//	[Version:1][Type:1][Flags:1][Seq:4][Ack:4][Len:2][Payload:Len]
const (
	HeaderSize = 13
	MaxPayload = math.MaxUint16
)

// FlagNeedAck asks the receiver to answer with MsgAck
const FlagNeedAck uint8 = 0x01

var (
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrVersion         = errors.New("protocol version mismatch")
)

// Message is one frame; Seq and Ack are filled by the sending peer
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32
	Ack     uint32
	Payload []byte
}

func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{Type: t, Payload: payload}
}

// AppendFrame appends the encoded frame to dst
func (m *Message) AppendFrame(dst []byte) ([]byte, error) {
	if len(m.Payload) > MaxPayload {
		return dst, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(m.Payload))
	}
	dst = append(dst, ProtocolVersion, byte(m.Type), m.Flags)
	dst = binary.BigEndian.AppendUint32(dst, m.Seq)
	dst = binary.BigEndian.AppendUint32(dst, m.Ack)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(m.Payload)))
	return append(dst, m.Payload...), nil
}

// Encode writes the frame with a single Write
func (m *Message) Encode(w io.Writer) error {
	frame, err := m.AppendFrame(make([]byte, 0, HeaderSize+len(m.Payload)))
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// ReadMessage reads one frame; header is scratch space of at least HeaderSize bytes
func ReadMessage(r io.Reader, header []byte) (*Message, error) {
	header = header[:HeaderSize]
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if header[0] != ProtocolVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, header[0], ProtocolVersion)
	}

	m := &Message{
		Type:  MessageType(header[1]),
		Flags: header[2],
		Seq:   binary.BigEndian.Uint32(header[3:7]),
		Ack:   binary.BigEndian.Uint32(header[7:11]),
	}
	if n := binary.BigEndian.Uint16(header[11:13]); n > 0 {
		m.Payload = make([]byte, n)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}
	return m, nil
}
