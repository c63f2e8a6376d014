package endpoint

import (
	"io"

	"github.com/xtaci/icedrop/wire"
)

func writeTestFrame(w io.Writer, frameType uint16, payload []byte) error {
	return wire.Encode(w, frameType, payload)
}

func readTestFrame(r io.Reader) (uint16, []byte, error) {
	return wire.Decode(r)
}
