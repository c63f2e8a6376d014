package handlers

import (
	"github.com/pkg/errors"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/protocol"
)

// EndSessionHandler runs on both roles. EndSession carries no payload; it
// simply requests shutdown of the owning endpoint.
type EndSessionHandler struct{}

func NewEndSessionHandler() *EndSessionHandler {
	return &EndSessionHandler{}
}

func (h *EndSessionHandler) FrameTypes() []uint16 {
	return []uint16{protocol.TypeEndSession}
}

func (h *EndSessionHandler) HandleFrame(frameType uint16, payload []byte, hdl endpoint.Handle) error {
	if err := hdl.Shutdown(); err != nil && err != endpoint.ErrMailboxClosed {
		return errors.Wrap(err, "end-session: shutdown")
	}
	return nil
}
