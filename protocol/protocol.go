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

// Package protocol defines the frame types exchanged over an icedrop
// session and their payload encodings.
package protocol

// Frame type identifiers, as they appear on the wire in a frame header.
const (
	TypeHandshakeRequest  uint16 = 1
	TypeHandshakeResponse uint16 = 2
	TypeFileTransferData  uint16 = 3
	TypeFileTransferAck   uint16 = 4
	TypeEndSession        uint16 = 99
)

// ChunkSize is the number of bytes the sender reads into a segment before
// emitting a FileTransferData frame.
const ChunkSize = 524288

// InitialWindow is the sending window granted on the first HandshakeResponse.
const InitialWindow = 8

// MaxWindow is the clamp on sending_window.
const MaxWindow = 64

// AckEvery is the number of received data frames between batched acks.
const AckEvery = 8
