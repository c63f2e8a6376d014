package session

import (
	"context"
	"log"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/xtaci/icedrop/endpoint"
	"github.com/xtaci/icedrop/handlers"
)

// outputFileName is the fixed receiver output filename. The handshake
// does not carry a filename yet, so every session writes to the same
// name under OutDir.
// TODO: extend the handshake to carry the sender's filename.
const outputFileName = "test"

// ServerOption configures a Server at construction time.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger *log.Logger
}

// WithLogger overrides the server's logger (default: log.Default()).
func WithLogger(l *log.Logger) ServerOption {
	return func(o *serverOptions) { o.logger = l }
}

// Server is the server-role session bootstrap: listen, and for every
// accepted connection, wire an endpoint with the handshake, file-transfer
// receiver, and end-session handlers.
type Server struct {
	listener net.Listener
	outDir   string
	logger   *log.Logger
}

// NewServer listens on addr and prepares to write received files under
// outDir.
func NewServer(addr, outDir string, opts ...ServerOption) (*Server, error) {
	o := serverOptions{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "session: listen")
	}
	return &Server{listener: ln, outDir: outDir, logger: o.logger}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run accepts and serves connections until ctx is cancelled or a fatal
// accept error occurs. Per-connection failures never stop the accept
// loop.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.Wrap(err, "session: accept")
			}
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	sessionID := uuid.New()
	outPath := filepath.Join(s.outDir, outputFileName)
	outFile, err := os.Create(outPath)
	if err != nil {
		s.logger.Printf("[%s] create output file %s: %v", sessionID, outPath, err)
		return
	}
	defer outFile.Close()

	handshakeDone := false

	ep := endpoint.New(conn)
	ep.AddHandler(handlers.NewHandshakeHandler(sessionID, s.logger, &handshakeDone))
	ep.AddHandler(handlers.NewFileTransferReceiverHandler(outFile, &handshakeDone))
	ep.AddHandler(handlers.NewEndSessionHandler())

	if err := ep.Run(); err != nil {
		s.logger.Printf("[%s] session ended: %v", sessionID, err)
		return
	}
	s.logger.Printf("[%s] session closed cleanly", sessionID)
}
