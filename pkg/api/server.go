package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/stevelan1995/taskgrid/pkg/config"
)

// Server is the HTTP front end over a Service.
type Server struct {
	httpServer *http.Server
	cfg        config.APIConfig
}

// NewServer builds a Server bound to cfg.Host:cfg.Port, serving svc's
// routes.
func NewServer(svc *Service, cfg config.APIConfig, version string) *Server {
	router := NewRouter(svc, version)
	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start blocks serving HTTP until Shutdown is called or ListenAndServe
// fails for a reason other than a graceful close.
func (s *Server) Start() error {
	log.Printf("api: listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("api: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}
