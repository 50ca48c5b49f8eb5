package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"sports-arena/internal/game"

	"github.com/go-chi/chi/v5"
)

// Engine is everything the server needs: the router's commands plus the
// hub's state stream.
type Engine interface {
	EngineInterface
	StateSource
}

// ServerConfig configures NewServer
type ServerConfig struct {
	CORSOrigins []string
	AdminToken  string
	RateLimit   RateLimitConfig
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	engine      Engine
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter

	// guards httpServer and closed between Start and Shutdown
	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// NewServer creates a server.
//
// IMPORTANT: the hub does NOT start until Start() is called, so tests can
// build a server and use Router() without background broadcasting.
func NewServer(engine Engine, cfg ServerConfig) *Server {
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit = DefaultRateLimitConfig
	}
	s := &Server{
		engine:      engine,
		wsHub:       NewWebSocketHub(NewOriginChecker(cfg.CORSOrigins)),
		rateLimiter: NewIPRateLimiter(cfg.RateLimit),
	}

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.CORSOrigins,
		AdminToken:  cfg.AdminToken,
	})

	// These routes need the hub instance, so they live outside NewRouter
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start runs the hub and serves HTTP until Shutdown. It returns nil after
// a clean shutdown, or at once when Shutdown already ran.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.httpServer = srv
	s.mu.Unlock()

	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine)

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🏟️ State: http://localhost%s/api/state  Spectate: ws://localhost%s/ws", addr, addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown stops accepting requests, closes spectators and stops the
// rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	s.wsHub.Stop()
	s.rateLimiter.Stop()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

var _ Engine = (*game.Engine)(nil)
