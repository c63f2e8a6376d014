// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package wire implements the framed-message codec shared by every icedrop
// endpoint: a 6-byte little-endian header (frame type, payload length)
// followed by the payload itself.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	sizeOfType   = 2
	sizeOfLength = 4
	headerSize   = sizeOfType + sizeOfLength

	// MaxPayloadSize bounds a single decoded payload. It is generous enough
	// for the largest legal FileTransferData chunk (512 KiB) plus its
	// 8-byte segment/chunk-size prefix, with headroom for future frame
	// types.
	MaxPayloadSize = 16 << 20
)

// ErrPeerClosed is returned when the stream ends (EOF) before a header or
// payload is complete. Other read errors, such as a connection reset, are
// returned wrapped instead.
var ErrPeerClosed = errors.New("wire: peer closed connection")

// ErrPayloadTooLarge is returned when a decoded header declares a payload
// length beyond MaxPayloadSize. A legitimate peer never sends one; this
// guards against runaway allocation on a corrupt or hostile stream.
var ErrPayloadTooLarge = errors.New("wire: declared payload length exceeds maximum")

// rawHeader is the on-wire representation of a frame header.
type rawHeader [headerSize]byte

func (h rawHeader) Type() uint16 {
	return binary.LittleEndian.Uint16(h[0:])
}

func (h rawHeader) Length() uint32 {
	return binary.LittleEndian.Uint32(h[sizeOfType:])
}

// Encode writes a complete frame (header + payload) for (frameType, payload)
// to w in a single call. Callers that need full-frame atomicity on a
// shared writer must hold their own write-half lock around Encode; the
// codec itself performs no locking.
func Encode(w io.Writer, frameType uint16, payload []byte) error {
	var h rawHeader
	binary.LittleEndian.PutUint16(h[0:], frameType)
	binary.LittleEndian.PutUint32(h[sizeOfType:], uint32(len(payload)))

	if _, err := w.Write(h[:]); err != nil {
		return errors.Wrap(err, "wire: write header")
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "wire: write payload")
	}
	return nil
}

// Decode blocks until it has read one complete frame from r, or returns an
// error. A short read anywhere in the header or payload is reported as
// ErrPeerClosed.
func Decode(r io.Reader) (frameType uint16, payload []byte, err error) {
	var h rawHeader
	if _, err := io.ReadFull(r, h[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, nil, ErrPeerClosed
		}
		return 0, nil, errors.Wrap(err, "wire: read header")
	}

	length := h.Length()
	if length > MaxPayloadSize {
		return 0, nil, ErrPayloadTooLarge
	}
	if length == 0 {
		return h.Type(), nil, nil
	}

	payload = make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, nil, ErrPeerClosed
		}
		return 0, nil, errors.Wrap(err, "wire: read payload")
	}
	return h.Type(), payload, nil
}
