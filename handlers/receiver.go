package handlers

import (
	"io"

	"github.com/pkg/errors"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/protocol"
)

// FileTransferReceiverHandler runs on the server role. It consumes
// FileTransferData, appends payloads to the output file in the order
// received, and acks every AckEvery non-terminal segments.
type FileTransferReceiverHandler struct {
	file                 io.Writer
	handshakeDone        *bool
	windowedRecvSegments uint32
}

// NewFileTransferReceiverHandler builds a receiver handler writing to
// file. handshakeDone is shared with the session's HandshakeHandler (see
// NewHandshakeHandler); a data frame arriving before it is set is a
// ProtocolViolation.
func NewFileTransferReceiverHandler(file io.Writer, handshakeDone *bool) *FileTransferReceiverHandler {
	return &FileTransferReceiverHandler{file: file, handshakeDone: handshakeDone}
}

func (h *FileTransferReceiverHandler) FrameTypes() []uint16 {
	return []uint16{protocol.TypeFileTransferData}
}

func (h *FileTransferReceiverHandler) HandleFrame(frameType uint16, payload []byte, hdl endpoint.Handle) error {
	if !*h.handshakeDone {
		return &endpoint.ProtocolViolationError{Reason: "data frame received before handshake"}
	}

	frame, err := protocol.ParseFileTransferData(payload)
	if err != nil {
		return errors.Wrap(err, "file-transfer receiver: parse data frame")
	}

	if frame.ChunkSize == 0 {
		if err := h.flush(); err != nil {
			return errors.Wrap(err, "file-transfer receiver: flush output file")
		}
		end := protocol.EndSession{}
		if err := hdl.SendFrame(protocol.TypeEndSession, end.Marshal()); err != nil {
			return errors.Wrap(err, "file-transfer receiver: send end-session")
		}
		return nil
	}

	if _, err := h.file.Write(frame.Data); err != nil {
		return errors.Wrap(err, "file-transfer receiver: write segment")
	}

	h.windowedRecvSegments++
	if h.windowedRecvSegments == protocol.AckEvery {
		h.windowedRecvSegments = 0
		ack := protocol.FileTransferAck{SegmentIdx: frame.SegmentIdx + 1}
		if err := hdl.SendFrame(protocol.TypeFileTransferAck, ack.Marshal()); err != nil {
			return errors.Wrap(err, "file-transfer receiver: send ack")
		}
	}
	return nil
}

// flusher is implemented by output sinks that buffer writes (e.g.
// bufio.Writer). Plain *os.File has nothing to flush and is left alone.
type flusher interface {
	Flush() error
}

func (h *FileTransferReceiverHandler) flush() error {
	if f, ok := h.file.(flusher); ok {
		return f.Flush()
	}
	return nil
}
