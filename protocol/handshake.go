package protocol

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrInvalidUTF8 is returned when a HandshakeRequest name is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("protocol: handshake name is not valid UTF-8")

// ErrShortPayload is returned when a payload is too short for its declared
// frame type.
var ErrShortPayload = errors.New("protocol: payload shorter than its declared fields")

// HandshakeRequest carries the client-supplied peer name. Frame type 1.
type HandshakeRequest struct {
	Name string
}

// Marshal encodes the payload: u32_le name_len, then the UTF-8 name bytes.
func (h HandshakeRequest) Marshal() []byte {
	buf := make([]byte, 4+len(h.Name))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(h.Name)))
	copy(buf[4:], h.Name)
	return buf
}

// ParseHandshakeRequest decodes a HandshakeRequest payload.
func ParseHandshakeRequest(payload []byte) (HandshakeRequest, error) {
	if len(payload) < 4 {
		return HandshakeRequest{}, ErrShortPayload
	}
	nameLen := binary.LittleEndian.Uint32(payload[:4])
	if uint32(len(payload)-4) < nameLen {
		return HandshakeRequest{}, ErrShortPayload
	}
	name := payload[4 : 4+nameLen]
	if !utf8.Valid(name) {
		return HandshakeRequest{}, ErrInvalidUTF8
	}
	return HandshakeRequest{Name: string(name)}, nil
}

// HandshakeResponse has an empty payload. Frame type 2.
type HandshakeResponse struct{}

func (HandshakeResponse) Marshal() []byte { return nil }
