package session

import (
	"bytes"
	"context"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/icedrop/protocol"
	"github.com/xtaci/icedrop/wire"
)

func runServer(t *testing.T, outDir string) *Server {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0", outDir, WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = srv.Run(ctx) }()
	return srv
}

func writeTempFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func runClientAndWait(t *testing.T, addr string, content []byte) {
	t.Helper()
	file := writeTempFile(t, content)

	var completed bool
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, addr, "tester")
	require.NoError(t, err)
	client.SetFile(file)
	client.SetCompletedCallback(func() { completed = true })

	require.NoError(t, client.Run(ctx))
	require.True(t, completed)
}

func TestTransferEmptyFile(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	runClientAndWait(t, srv.Addr().String(), nil)

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTransferOneByteFile(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	runClientAndWait(t, srv.Addr().String(), []byte{0x5A})

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Equal(t, []byte{0x5A}, got)
}

// TestClientRateLimitAllowsFullChunk is a regression test: the rate
// limiter's burst must be at least protocol.ChunkSize, since the sender
// always requests up to a full chunk in one WaitN call. A limiter built
// with burst == bytesPerSec rejects any chunk larger than that outright
// (rate: Wait(n=524288) exceeds limiter's burst), aborting the transfer
// for any realistic -ratelimit value.
func TestClientRateLimitAllowsFullChunk(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	content := make([]byte, 2*524288+10)
	for i := range content {
		content[i] = byte(i)
	}
	file := writeTempFile(t, content)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, srv.Addr().String(), "tester", WithClientRateLimit(10<<20))
	require.NoError(t, err)
	client.SetFile(file)

	require.NoError(t, client.Run(ctx))

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestTransferExactlyOneChunk(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	content := bytes.Repeat([]byte{0xFF}, protocol.ChunkSize)
	file := writeTempFile(t, content)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, srv.Addr().String(), "tester")
	require.NoError(t, err)
	client.SetFile(file)

	type sentEvent struct {
		segmentIdx uint32
		bytesSent  uint64
	}
	var sent []sentEvent
	completions := 0
	client.SetSegmentSentCallback(func(segmentIdx uint32, bytesSent uint64) {
		sent = append(sent, sentEvent{segmentIdx, bytesSent})
	})
	client.SetCompletedCallback(func() { completions++ })

	require.NoError(t, client.Run(ctx))

	// One full segment plus the terminal empty frame: the event fires
	// exactly once, for segment 1, with the whole file accounted for.
	require.Equal(t, []sentEvent{{1, protocol.ChunkSize}}, sent)
	require.Equal(t, 1, completions)

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Equal(t, content, got)
}

// TestPeerClosesAfterHandshake runs the client against a raw listener
// that accepts, reads the handshake, and hangs up without responding.
// The sender must surface PeerClosed.
func TestPeerClosesAfterHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _, _ = wire.Decode(conn)
		conn.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, ln.Addr().String(), "tester")
	require.NoError(t, err)
	client.SetFile(writeTempFile(t, []byte("never delivered")))

	err = client.Run(ctx)
	require.ErrorIs(t, err, wire.ErrPeerClosed)
}

// TestMalformedHandshakeDoesNotStopServer sends a HandshakeRequest
// whose name is not valid UTF-8; the server must drop that session and
// keep accepting others.
func TestMalformedHandshakeDoesNotStopServer(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	payload := []byte{2, 0, 0, 0, 0xFF, 0xFE}
	require.NoError(t, wire.Encode(conn, protocol.TypeHandshakeRequest, payload))

	// The server terminates the session with a parse error and closes
	// its end; no HandshakeResponse ever arrives.
	_, _, err = wire.Decode(conn)
	require.ErrorIs(t, err, wire.ErrPeerClosed)

	// A well-behaved session on the same server still completes.
	runClientAndWait(t, srv.Addr().String(), []byte("still serving"))

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Equal(t, []byte("still serving"), got)
}

func TestTransferEightChunksTriggersAck(t *testing.T) {
	outDir := t.TempDir()
	srv := runServer(t, outDir)

	content := make([]byte, 8*524288)
	for i := range content {
		content[i] = byte(i)
	}

	runClientAndWait(t, srv.Addr().String(), content)

	got, err := os.ReadFile(filepath.Join(outDir, outputFileName))
	require.NoError(t, err)
	require.Equal(t, content, got)
}
