package llrp

import (
	"encoding/binary"
	"fmt"
)

// headerSize is the fixed 10-byte LLRP message header: 2 bytes
// version+type, 4 bytes length, 4 bytes message id.
const headerSize = 10

// version is the only LLRP protocol version this client speaks (spec.md
// Non-goals: "No protocol-version negotiation beyond LLRP v1").
const version = 1

// Message is a decoded or to-be-encoded LLRP message.
type Message struct {
	Type    MessageType
	Length  uint32
	ID      uint32
	Payload []byte
}

// NewMessage builds a Message with Length computed from the payload,
// matching spec.md §4.1: "length = 10 + payload.len".
func NewMessage(t MessageType, id uint32, payload []byte) *Message {
	return &Message{
		Type:    t,
		Length:  headerSize + uint32(len(payload)),
		ID:      id,
		Payload: payload,
	}
}

// Encode packs the header ((reserved=0)<<13 | version<<10 | type) followed
// by length, id, and the payload, per spec.md §4.1.
func (m *Message) Encode() []byte {
	buf := make([]byte, headerSize+len(m.Payload))
	versionAndType := (uint16(version)&0x7)<<10 | (uint16(m.Type) & 0x3FF)
	binary.BigEndian.PutUint16(buf[0:2], versionAndType)
	binary.BigEndian.PutUint32(buf[2:6], m.Length)
	binary.BigEndian.PutUint32(buf[6:10], m.ID)
	copy(buf[10:], m.Payload)
	return buf
}

// DecodeMessage decodes one full LLRP frame (header + payload) from buf.
// buf must contain exactly one frame (the transport framer's job is to
// hand over exactly that many bytes). The authoritative bit layout,
// per spec.md §9's Open Question resolution, is reserved(3) | version(3)
// | type(10): type = word & 0x3FF, version = (word >> 10) & 0x7.
func DecodeMessage(buf []byte) (*Message, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: frame shorter than header (%d bytes)", ErrMalformedFrame, len(buf))
	}

	versionAndType := binary.BigEndian.Uint16(buf[0:2])
	msgType := versionAndType & 0x3FF
	length := binary.BigEndian.Uint32(buf[2:6])
	id := binary.BigEndian.Uint32(buf[6:10])

	if length < headerSize {
		return nil, fmt.Errorf("%w: length %d below header size", ErrMalformedFrame, length)
	}
	payloadLen := int(length) - headerSize
	if len(buf) < headerSize+payloadLen {
		return nil, fmt.Errorf("%w: declared length %d exceeds buffer (%d bytes)", ErrMalformedFrame, length, len(buf))
	}

	payload := make([]byte, payloadLen)
	copy(payload, buf[headerSize:headerSize+payloadLen])

	return &Message{
		Type:    MessageTypeFromValue(msgType),
		Length:  length,
		ID:      id,
		Payload: payload,
	}, nil
}
