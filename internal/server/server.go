package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	mu         sync.Mutex
	httpServer *http.Server
}

const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second

	DefaultPort = "8080"
)

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr accepts "8080", ":8080" or "host:8080". Empty means DefaultPort.
func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":" + DefaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run starts the HTTP server and blocks until it stops. A graceful Shutdown
// makes Run return nil.
func (s *Server) Run(port string, handler http.Handler) error {
	ln, err := net.Listen("tcp", normalizeAddr(port))
	if err != nil {
		return err
	}
	return s.Serve(ln, handler)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(ln net.Listener, handler http.Handler) error {
	srv := newHTTPServer(ln.Addr().String(), handler)
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
