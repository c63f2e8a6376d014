package session

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/handlers"
	"github.com/xtaci/icedrop/protocol"
)

// ClientOption configures a Client at construction time.
type ClientOption func(*clientOptions)

type clientOptions struct {
	dialMaxElapsed time.Duration
	rateLimitBps   int
}

// WithDialTimeout bounds how long Client connection establishment retries
// before giving up.
func WithDialTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.dialMaxElapsed = d }
}

// WithClientRateLimit caps outbound throughput in bytes/sec. 0 (the
// default) means unlimited.
func WithClientRateLimit(bytesPerSec int) ClientOption {
	return func(o *clientOptions) { o.rateLimitBps = bytesPerSec }
}

// Client is the client-role session bootstrap. NewClient dials and wires
// the endpoint for the client role; SetFile, SetSegmentSentCallback, and
// SetCompletedCallback are the host-embedding surface and must be
// called before Run.
type Client struct {
	ep     *endpoint.Endpoint
	handle endpoint.Handle
	name   string

	rateLimitBps int

	sender *handlers.FileTransferSenderHandler
}

// NewClient connects to addr (retrying per WithDialTimeout) and wires the
// endpoint for the client role. The endpoint is not run until Run is
// called; call SetFile before Run.
func NewClient(ctx context.Context, addr, name string, opts ...ClientOption) (*Client, error) {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := dialWithRetry(ctx, addr, o.dialMaxElapsed)
	if err != nil {
		return nil, err
	}

	ep := endpoint.New(conn)
	ep.AddHandler(handlers.NewEndSessionHandler())

	return &Client{
		ep:           ep,
		handle:       ep.Handle(),
		name:         name,
		rateLimitBps: o.rateLimitBps,
	}, nil
}

// SetFile sets the file streamed to the server. It must be called
// exactly once, before Run; calling it after Run (or more than once) is
// a programming error and panics, matching endpoint.AddHandler's own
// before-Run contract.
func (c *Client) SetFile(file *os.File) {
	if c.sender != nil {
		panic("session: SetFile called more than once")
	}

	var limiter *rate.Limiter
	if c.rateLimitBps > 0 {
		// Burst is a full chunk, not bytesPerSec: WaitN rejects any
		// request larger than the bucket's burst size outright, and the
		// sender always requests up to protocol.ChunkSize bytes per
		// call. The configured rate still governs the refill, so
		// average throughput is capped at rateLimitBps regardless of
		// burst.
		limiter = rate.NewLimiter(rate.Limit(c.rateLimitBps), protocol.ChunkSize)
	}

	c.sender = handlers.NewFileTransferSenderHandler(file, handlers.WithRateLimiter(limiter))
	c.ep.AddHandler(c.sender)
}

// SetSegmentSentCallback registers the SegmentSent event sink. It must
// be called after SetFile.
func (c *Client) SetSegmentSentCallback(fn handlers.SegmentSentFunc) {
	if c.sender == nil {
		panic("session: SetSegmentSentCallback called before SetFile")
	}
	handlers.WithSegmentSentCallback(fn)(c.sender)
}

// SetCompletedCallback registers the Complete event sink. It must be
// called after SetFile.
func (c *Client) SetCompletedCallback(fn handlers.CompletedFunc) {
	if c.sender == nil {
		panic("session: SetCompletedCallback called before SetFile")
	}
	handlers.WithCompletedCallback(fn)(c.sender)
}

// Run sends the initial HandshakeRequest from a one-shot goroutine and
// drives the session to completion.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		req := protocol.HandshakeRequest{Name: c.name}
		if err := c.handle.SendFrame(protocol.TypeHandshakeRequest, req.Marshal()); err != nil {
			return
		}
	}()

	go func() {
		<-ctx.Done()
		_ = c.handle.Shutdown()
	}()

	if err := c.ep.Run(); err != nil {
		return errors.Wrap(err, "session: client run")
	}
	return nil
}
