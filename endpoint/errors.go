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

package endpoint

import "fmt"

// ErrMailboxClosed is returned by Handle.SendFrame or Handle.Shutdown when
// the endpoint's run loop has already returned.
var ErrMailboxClosed = fmt.Errorf("endpoint: mailbox closed")

// ProtocolViolationError is returned when a peer violates the session's
// ordering rules (an ack into the future, a second handshake, data before
// handshake).
type ProtocolViolationError struct {
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return "endpoint: protocol violation: " + e.Reason
}

// UnhandledFrameTypeError is returned when no registered handler declares
// the received frame type.
type UnhandledFrameTypeError struct {
	FrameType uint16
}

func (e *UnhandledFrameTypeError) Error() string {
	return fmt.Sprintf("endpoint: no handler registered for frame type %d", e.FrameType)
}
