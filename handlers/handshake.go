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

// Package handlers implements the four frame handlers layered on top of
// package endpoint: handshake (server role), file-transfer sender (client
// role), file-transfer receiver (server role), and end-session (both
// roles).
package handlers

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/protocol"
)

// HandshakeHandler runs on the server role. It logs the client-supplied
// name for observability only; no per-connection state is retained from
// it. It also flips a flag shared with the session's
// FileTransferReceiverHandler so a data frame arriving before the
// handshake (or a second handshake) is rejected as a ProtocolViolation.
type HandshakeHandler struct {
	sessionID uuid.UUID
	logger    *log.Logger
	done      *bool
}

// NewHandshakeHandler builds a HandshakeHandler tagged with a session id
// for log correlation on a server handling many concurrent connections.
// done is shared with the session's FileTransferReceiverHandler (see
// NewFileTransferReceiverHandler).
func NewHandshakeHandler(sessionID uuid.UUID, logger *log.Logger, done *bool) *HandshakeHandler {
	return &HandshakeHandler{sessionID: sessionID, logger: logger, done: done}
}

func (h *HandshakeHandler) FrameTypes() []uint16 {
	return []uint16{protocol.TypeHandshakeRequest}
}

func (h *HandshakeHandler) HandleFrame(frameType uint16, payload []byte, hdl endpoint.Handle) error {
	if *h.done {
		return &endpoint.ProtocolViolationError{Reason: "duplicate handshake request"}
	}

	req, err := protocol.ParseHandshakeRequest(payload)
	if err != nil {
		return errors.Wrap(err, "handshake: parse request")
	}

	h.logger.Printf("[%s] handshake from %q", h.sessionID, req.Name)
	*h.done = true

	resp := protocol.HandshakeResponse{}
	if err := hdl.SendFrame(protocol.TypeHandshakeResponse, resp.Marshal()); err != nil {
		return errors.Wrap(err, "handshake: send response")
	}
	return nil
}
