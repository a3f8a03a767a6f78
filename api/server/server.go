package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"blog-api/internal/logger"
)

// Server wraps http.Server with a synchronous bind and background serve loop.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
	listener   net.Listener
	errs       chan error
}

func New(addr string, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Log
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:  log,
		errs: make(chan error, 1),
	}
}

// Start binds the listen address and serves in a background goroutine.
// 바인드 실패는 바로 반환되고, 이후 serve 실패는 Errors 로 전달된다.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Infof("starting HTTP server addr=%s", ln.Addr().String())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
		close(s.errs)
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Errors yields at most one serve failure and is closed when serving stops.
func (s *Server) Errors() <-chan error {
	return s.errs
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
