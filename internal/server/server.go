// Package server exposes a credential session to out-of-process clients over
// JSON-RPC 2.0, on plain HTTP POST and on WebSocket with push notifications.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/credsync/pkg/logger"
)

// DefaultAddr is the loopback address the RPC server listens on.
const DefaultAddr = "127.0.0.1:6800"

// Server is the HTTP front of an RPCServer.
type Server struct {
	addr     string
	secret   string
	rpc      *RPCServer
	notifier *RPCNotifier
	log      logger.Logger

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// NewServer creates a Server for rs listening on addr. notifier receives
// one jrpc2 server per WebSocket connection.
func NewServer(addr string, rs *RPCServer, notifier *RPCNotifier, l logger.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	if notifier == nil {
		notifier = NewRPCNotifier(l)
	}
	return &Server{
		addr:     addr,
		secret:   rs.secret,
		rpc:      rs,
		notifier: notifier,
		log:      l,
	}
}

// Handler routes /jsonrpc to the HTTP bridge and /jsonrpc/ws to the
// WebSocket endpoint, both behind the bearer token check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", s.rpc.HTTPHandler())
	mux.Handle("/jsonrpc/ws", requireToken(s.secret, s.wsHandler()))
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeRPCError(w, http.StatusNotFound, jrpc2.MethodNotFound, "not found")
	})
	return mux
}

// Serve accepts connections on l until Shutdown is called. It returns nil
// immediately if Shutdown already ran.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return l.Close()
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.log.Info("RPC listening on %s", l.Addr())
	err := srv.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// ListenAndServe listens on the configured address and serves until
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown gracefully stops the HTTP server, the notifier and the bridge.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.server
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	s.notifier.Close()
	s.rpc.Close()
	return err
}
