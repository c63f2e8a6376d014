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

import (
	"bufio"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xtaci/icedrop/wire"
)

// Handle is a cheaply-copyable reference to a running endpoint. It is safe
// to hold from multiple goroutines: SendFrame serialises through a shared
// write-half mutex, and Shutdown is idempotent. Copying a Handle by value
// shares the same underlying endpoint; there is nothing to clone deeply.
type Handle struct {
	writeMu *sync.Mutex
	w       *bufio.Writer

	shutdownCh   chan struct{}
	shutdownOnce *sync.Once
	closed       *int32
}

func newHandle(w *bufio.Writer) Handle {
	return Handle{
		writeMu:      &sync.Mutex{},
		w:            w,
		shutdownCh:   make(chan struct{}, 1),
		shutdownOnce: &sync.Once{},
		closed:       new(int32),
	}
}

// SendFrame encodes and writes one complete frame. The write-half mutex
// guarantees the frame lands on the wire atomically with respect to other
// SendFrame callers, preserving FIFO order among causally ordered sends
// from one producer.
func (h Handle) SendFrame(frameType uint16, payload []byte) error {
	if atomic.LoadInt32(h.closed) != 0 {
		return ErrMailboxClosed
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if err := wire.Encode(h.w, frameType, payload); err != nil {
		return errors.Wrap(err, "endpoint: send frame")
	}
	return h.w.Flush()
}

// Shutdown posts a single token on the shutdown channel. A second call
// while a shutdown is already pending is a no-op; once the run loop has
// returned, Shutdown returns ErrMailboxClosed. It never panics.
func (h Handle) Shutdown() error {
	if atomic.LoadInt32(h.closed) != 0 {
		return ErrMailboxClosed
	}
	select {
	case h.shutdownCh <- struct{}{}:
	default:
	}
	return nil
}

func (h Handle) markClosed() {
	atomic.StoreInt32(h.closed, 1)
}
