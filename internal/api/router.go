package api

import (
	"sports-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the arena engine methods used by the API.
// This interface enables mocking for tests without spinning up the tick loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable snapshot (may be nil before the first tick)
	Snapshot() *game.ArenaSnapshot
	// Object returns a copy of one live object
	Object(id game.ObjectID) (game.ObjectSnapshot, error)
	// Teams returns team standings
	Teams() []game.Team
	// RecentEvents returns the newest event log records
	RecentEvents(n int) []game.Record

	Spawn(opts game.SpawnOptions) (game.ObjectID, error)
	ApplyEffect(id game.ObjectID, kind game.EffectKind, d float64) error
	StopEffect(id game.ObjectID, kind game.EffectKind) error
	Duplicate(id game.ObjectID, n int) ([]game.ObjectID, error)
	UnDuplicateAll(id game.ObjectID) (int, error)
	Respawn(id game.ObjectID) error
	Destroy(id game.ObjectID) error
	ScorePoints(id game.ObjectID, points int) error
	SetInput(id game.ObjectID, f game.InputFrame) error
	Press(id game.ObjectID, button string) error
	DropBall(id game.ObjectID) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the arena engine (required)
	Engine EngineInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses DefaultOrigins.
	CORSOrigins []string

	// AdminToken guards the command routes when non-empty.
	AdminToken string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine EngineInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects beyond the
// rate limiter's cleanup goroutine when none is supplied. No network
// listeners are opened, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = DefaultOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := &routerHandlers{engine: cfg.Engine}

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Reads
		r.Get("/state", h.handleGetState)
		r.Get("/objects/{id}", h.handleGetObject)
		r.Get("/teams", h.handleGetTeams)
		r.Get("/events", h.handleGetEvents)

		// Commands
		r.Group(func(r chi.Router) {
			r.Use(RequireToken(cfg.AdminToken))

			r.Post("/objects", h.handleSpawn)
			r.Delete("/objects/{id}", h.handleDestroy)
			r.Post("/objects/{id}/effects/{effect}", h.handleApplyEffect)
			r.Delete("/objects/{id}/effects/{effect}", h.handleStopEffect)
			r.Post("/objects/{id}/duplicate", h.handleDuplicate)
			r.Post("/objects/{id}/unduplicate", h.handleUnDuplicate)
			r.Post("/objects/{id}/respawn", h.handleRespawn)
			r.Post("/objects/{id}/score", h.handleScore)
		})

		// Controller input is player traffic, not admin traffic
		r.Post("/objects/{id}/input", h.handleInput)
		r.Post("/objects/{id}/press/{button}", h.handlePress)
		r.Post("/objects/{id}/drop", h.handleDrop)
	})

	return r
}
