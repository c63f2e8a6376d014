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

// Package endpoint implements the per-connection duplex frame-multiplexing
// state machine: a single reader goroutine decodes inbound frames and
// dispatches them to registered handlers, while any goroutine holding a
// Handle may write outbound frames through a mutex-guarded write half.
package endpoint

import (
	"bufio"
	"net"

	"github.com/xtaci/icedrop/wire"
)

// Handler is implemented by every frame handler registered on an endpoint.
// FrameTypes declares which inbound frame type(s) this handler consumes
// (a discriminated union is expressed as a slice of more than one type);
// HandleFrame is invoked with the already-decoded (but not yet
// payload-parsed) frame body and a Handle for producing replies or
// requesting shutdown.
type Handler interface {
	FrameTypes() []uint16
	HandleFrame(frameType uint16, payload []byte, h Handle) error
}

type decodedFrame struct {
	frameType uint16
	payload   []byte
}

// Endpoint owns one TCP connection for the lifetime of one session.
type Endpoint struct {
	conn net.Conn
	r    *bufio.Reader

	handlers []Handler
	started  bool

	handle Handle
}

// New takes ownership of conn. The connection is not read from or written
// to until Run is called.
func New(conn net.Conn) *Endpoint {
	return &Endpoint{
		conn:   conn,
		r:      bufio.NewReader(conn),
		handle: newHandle(bufio.NewWriter(conn)),
	}
}

// AddHandler registers a handler. It must be called before Run; calling
// it afterward is a programming error and panics.
func (e *Endpoint) AddHandler(h Handler) {
	if e.started {
		panic("endpoint: AddHandler called after Run")
	}
	e.handlers = append(e.handlers, h)
}

// Handle returns a cheaply-copyable reference usable from any goroutine to
// send frames or request shutdown.
func (e *Endpoint) Handle() Handle {
	return e.handle
}

// Run drives the duplex loop until shutdown or an unrecoverable I/O,
// parse, or protocol error. It returns nil on a clean shutdown and a
// non-nil error otherwise. Run is not safe to call more than once.
func (e *Endpoint) Run() error {
	e.started = true
	table := buildDispatchTable(e.handlers)

	frameCh := make(chan decodedFrame)
	errCh := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go e.readLoop(frameCh, errCh, done)

	for {
		// A shutdown requested by the handler that just ran must win over
		// a read error the reader may have queued concurrently (the peer
		// often half-closes right after its final frame).
		select {
		case <-e.handle.shutdownCh:
			e.conn.Close()
			e.handle.markClosed()
			return nil
		default:
		}

		select {
		case <-e.handle.shutdownCh:
			e.conn.Close()
			e.handle.markClosed()
			return nil
		case err := <-errCh:
			e.conn.Close()
			e.handle.markClosed()
			return err
		case f := <-frameCh:
			handler, ok := table[f.frameType]
			if !ok {
				e.conn.Close()
				e.handle.markClosed()
				return &UnhandledFrameTypeError{FrameType: f.frameType}
			}
			if err := handler.HandleFrame(f.frameType, f.payload, e.handle); err != nil {
				e.conn.Close()
				e.handle.markClosed()
				return err
			}
		}
	}
}

// readLoop is the single reader task. It blocks in wire.Decode until a
// frame arrives or the connection errors/closes; closing the connection
// (done by Run on shutdown) is what unblocks a pending Decode.
func (e *Endpoint) readLoop(frameCh chan<- decodedFrame, errCh chan<- error, done <-chan struct{}) {
	for {
		frameType, payload, err := wire.Decode(e.r)
		if err != nil {
			select {
			case errCh <- err:
			case <-done:
			}
			return
		}
		select {
		case frameCh <- decodedFrame{frameType: frameType, payload: payload}:
		case <-done:
			return
		}
	}
}

// buildDispatchTable builds a direct frame_type -> handler mapping,
// preferring the first-registered handler on a frame-type collision. A
// map lookup replaces an ordered-list walk on every frame.
func buildDispatchTable(handlers []Handler) map[uint16]Handler {
	table := make(map[uint16]Handler)
	for _, h := range handlers {
		for _, t := range h.FrameTypes() {
			if _, exists := table[t]; !exists {
				table[t] = h
			}
		}
	}
	return table
}
