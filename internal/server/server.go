// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes document generation over HTTP with gin.
//
//	POST /documents/generate  DocumentConfig JSON in, .docx out
//	GET  /documents/test      fixed sample document
//	GET  /health              liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/apa-generator/internal/documents"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// shutdownGrace bounds how long Run waits for in-flight requests.
const shutdownGrace = 10 * time.Second

// Server is the HTTP front end of a documents.Service.
type Server struct {
	cfg     types.ServerConfig
	svc     *documents.Service
	log     logrus.FieldLogger
	version string
	engine  *gin.Engine
}

// New builds the router. The gin mode is taken from cfg.Mode. An invalid
// CORS origin list is an error.
func New(cfg types.ServerConfig, svc *documents.Service, log logrus.FieldLogger, version string) (*Server, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s := &Server{cfg: cfg, svc: svc, log: log, version: version}

	allowOrigins, err := corsMiddleware(cfg.CORSOrigins)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(log), allowOrigins)
	r.GET("/health", s.health)
	docs := r.Group("/documents")
	docs.POST("/generate", s.generate)
	docs.GET("/test", s.sample)
	s.engine = r
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
