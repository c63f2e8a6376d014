package handlers

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/protocol"
)

// SenderOption configures a FileTransferSenderHandler at construction time.
type SenderOption func(*FileTransferSenderHandler)

// WithRateLimiter caps outbound segment throughput. With no limiter
// configured (the default), the sender emits segments as fast as the
// window and the underlying connection allow, identical to the base
// protocol.
func WithRateLimiter(limiter *rate.Limiter) SenderOption {
	return func(h *FileTransferSenderHandler) { h.limiter = limiter }
}

// WithSegmentSentCallback registers the SegmentSent event sink.
func WithSegmentSentCallback(fn SegmentSentFunc) SenderOption {
	return func(h *FileTransferSenderHandler) { h.onSegmentSent = fn }
}

// WithCompletedCallback registers the Complete event sink.
func WithCompletedCallback(fn CompletedFunc) SenderOption {
	return func(h *FileTransferSenderHandler) { h.onCompleted = fn }
}

// FileTransferSenderHandler runs on the client role. It consumes the
// union {HandshakeResponse, FileTransferAck} and drives the windowed
// send loop: credits arrive with the handshake response and each ack,
// and are spent one segment at a time until the file is exhausted.
type FileTransferSenderHandler struct {
	file io.Reader

	curSegment    uint32
	sendingWindow uint32
	bytesSent     uint64
	finished      bool
	handshakeSeen bool

	limiter       *rate.Limiter
	onSegmentSent SegmentSentFunc
	onCompleted   CompletedFunc
}

// NewFileTransferSenderHandler builds a sender handler reading from file,
// with cur_segment starting at 1.
func NewFileTransferSenderHandler(file io.Reader, opts ...SenderOption) *FileTransferSenderHandler {
	h := &FileTransferSenderHandler{
		file:          file,
		curSegment:    1,
		onSegmentSent: noopSegmentSent,
		onCompleted:   noopCompleted,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *FileTransferSenderHandler) FrameTypes() []uint16 {
	return []uint16{protocol.TypeHandshakeResponse, protocol.TypeFileTransferAck}
}

func (h *FileTransferSenderHandler) HandleFrame(frameType uint16, payload []byte, hdl endpoint.Handle) error {
	switch frameType {
	case protocol.TypeHandshakeResponse:
		if h.handshakeSeen {
			return &endpoint.ProtocolViolationError{Reason: "duplicate handshake response"}
		}
		h.handshakeSeen = true
		h.sendingWindow = protocol.InitialWindow
		return h.drainWindow(hdl)

	case protocol.TypeFileTransferAck:
		ack, err := protocol.ParseFileTransferAck(payload)
		if err != nil {
			return errors.Wrap(err, "file-transfer sender: parse ack")
		}
		if ack.SegmentIdx > h.curSegment {
			return &endpoint.ProtocolViolationError{Reason: "ack segment index ahead of cur_segment"}
		}
		h.sendingWindow = clampWindow(h.sendingWindow + protocol.AckEvery)
		return h.drainWindow(hdl)
	}
	return nil
}

// drainWindow emits segments until sending_window is exhausted or the file
// is done (the terminal empty frame has been sent).
func (h *FileTransferSenderHandler) drainWindow(hdl endpoint.Handle) error {
	for h.sendingWindow > 0 && !h.finished {
		if err := h.sendSegment(hdl); err != nil {
			return err
		}
		h.sendingWindow--
	}
	return nil
}

// sendSegment reads up to one chunk from the file and emits it as a
// FileTransferData frame. A zero-length read produces the terminal
// empty frame.
func (h *FileTransferSenderHandler) sendSegment(hdl endpoint.Handle) error {
	buf := make([]byte, protocol.ChunkSize)
	n, err := readChunk(h.file, buf)
	if err != nil {
		return errors.Wrap(err, "file-transfer sender: read file")
	}
	buf = buf[:n]

	if h.limiter != nil && n > 0 {
		if err := h.limiter.WaitN(context.Background(), n); err != nil {
			return errors.Wrap(err, "file-transfer sender: rate limit wait")
		}
	}

	segmentIdx := h.curSegment
	h.curSegment++
	h.bytesSent += uint64(n)

	frame := protocol.FileTransferData{SegmentIdx: segmentIdx, ChunkSize: uint32(n), Data: buf}
	if err := hdl.SendFrame(protocol.TypeFileTransferData, frame.Marshal()); err != nil {
		return errors.Wrap(err, "file-transfer sender: send data frame")
	}

	if n == 0 {
		h.finished = true
		h.onCompleted()
		return nil
	}
	h.onSegmentSent(segmentIdx, h.bytesSent)
	return nil
}

// readChunk fills buf as full as possible, retrying short reads until buf
// is full or EOF is observed.
func readChunk(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}

func clampWindow(w uint32) uint32 {
	if w > protocol.MaxWindow {
		return protocol.MaxWindow
	}
	return w
}
