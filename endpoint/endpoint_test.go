package endpoint

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	types []uint16
	got   chan decodedFrame
}

func (h *echoHandler) FrameTypes() []uint16 { return h.types }

func (h *echoHandler) HandleFrame(frameType uint16, payload []byte, hdl Handle) error {
	h.got <- decodedFrame{frameType: frameType, payload: payload}
	return hdl.SendFrame(frameType, payload)
}

func TestEndpointEchoesFrame(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	ep := New(server)
	h := &echoHandler{types: []uint16{1}, got: make(chan decodedFrame, 1)}
	ep.AddHandler(h)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ep.Run()
	}()

	require.NoError(t, writeTestFrame(client, 1, []byte("hello")))

	select {
	case got := <-h.got:
		require.Equal(t, uint16(1), got.frameType)
		require.Equal(t, []byte("hello"), got.payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handler invocation")
	}

	gotType, gotPayload, err := readTestFrame(client)
	require.NoError(t, err)
	require.Equal(t, uint16(1), gotType)
	require.Equal(t, []byte("hello"), gotPayload)

	require.NoError(t, ep.Handle().Shutdown())
	wg.Wait()
}

func TestEndpointShutdownIdempotent(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	ep := New(server)

	// Both calls land before Run returns: the second finds the token
	// already pending and is a no-op.
	h := ep.Handle()
	require.NoError(t, h.Shutdown())
	require.NoError(t, h.Shutdown())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, ep.Run())
	}()
	wg.Wait()
}

func TestEndpointUnhandledFrameType(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	ep := New(server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- ep.Run()
	}()

	require.NoError(t, writeTestFrame(client, 77, nil))

	select {
	case err := <-errCh:
		var unhandled *UnhandledFrameTypeError
		require.ErrorAs(t, err, &unhandled)
		require.Equal(t, uint16(77), unhandled.FrameType)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}
