// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workorder-assistant/internal/common/config"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/dispatch"
	"workorder-assistant/internal/models"
	"workorder-assistant/internal/nlp"
	"workorder-assistant/internal/workorder"
)

// AuditStore is the slice of the audit layer the HTTP surface needs.
type AuditStore interface {
	StartSession(ctx context.Context, sessionID, username string) error
	Analytics(ctx context.Context, days int) ([]models.IntentStat, error)
	PopularQueries(ctx context.Context, limit int) ([]models.PopularQuery, error)
}

// Server is the HTTP adapter in front of the dispatcher. All query routes
// sit behind a Redis-backed session gate; only login, health, and metrics
// are open.
type Server struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	resolver   nlp.Resolver
	svc        *workorder.Service
	sessions   *SessionStore
	audit      AuditStore
	log        logger.Logger

	httpServer *http.Server
}

func New(cfg *config.Config, dispatcher *dispatch.Dispatcher, resolver nlp.Resolver,
	svc *workorder.Service, sessions *SessionStore, audit AuditStore, log logger.Logger) *Server {

	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		resolver:   resolver,
		svc:        svc,
		sessions:   sessions,
		audit:      audit,
		log:        log,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.withRequestLog(s.routes()),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.requireSession(s.handleLogout))

	mux.HandleFunc("POST /nlp", s.requireSession(s.handleNLP))
	mux.HandleFunc("POST /chat", s.requireSession(s.handleChat))
	mux.HandleFunc("POST /erp", s.requireSession(s.handleERP))

	mux.HandleFunc("GET /project/{id}", s.requireSession(s.handleProject))
	mux.HandleFunc("GET /project/{id}/expense", s.requireSession(s.handleProjectExpense))
	mux.HandleFunc("GET /project/{id}/manager", s.requireSession(s.handleProjectManager))

	mux.HandleFunc("GET /analytics", s.requireSession(s.handleAnalytics))
	mux.HandleFunc("GET /analytics/popular", s.requireSession(s.handlePopularQueries))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.Server.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return mux
}

// Handler exposes the full route stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{"address": s.cfg.Server.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
