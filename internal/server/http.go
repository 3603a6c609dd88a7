package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/velocart/pkg/logger"
)

type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return HTTPServer{s}
}

// Run serves until Close is called. Any other exit calls stopFn so the
// rest of the application shuts down too.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := logger.L.With("op", op)

	defer stopFn()
	log.Info("http server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected server shutdown", "error", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := logger.L.With("op", op)

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}
	log.Info("http server closed")
}
