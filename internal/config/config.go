// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena, tuning and server settings.
//
// Defaults live here; environment variables override them, and an optional
// TOML tuning file (TUNING_PATH) overrides player and ball tuning.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"sports-arena/internal/game"
)

// ErrInvalidTuning is returned when a tuning file decodes but holds values
// the simulation cannot run with.
var ErrInvalidTuning = errors.New("invalid tuning")

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the fixed-tick settings.
type SimConfig struct {
	TickRate int   // Ticks per second
	Seed     int64 // RNG seed, 0 picks one at startup
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate: 50, // Matches a 0.02s fixed step
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds pitch geometry and integrator settings.
type ArenaConfig struct {
	Width       float64  // Pitch size along X
	Depth       float64  // Pitch size along Z
	Gravity     float64  // Downward acceleration
	CellSize    float64  // Broad-phase grid cell size
	Restitution float64  // Bounciness of body contacts
	Teams       []string // Team names, in id order
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:       40,
		Depth:       24,
		Gravity:     9.81,
		CellSize:    4,
		Restitution: 0.3,
		Teams:       []string{"Home", "Away"},
	}
}

// ArenaFromEnv returns arena configuration with environment variable overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if d := getEnvFloat("ARENA_DEPTH", 0); d > 0 {
		cfg.Depth = d
	}
	if g := getEnvFloat("ARENA_GRAVITY", -1); g >= 0 {
		cfg.Gravity = g
	}
	if teams := os.Getenv("ARENA_TEAMS"); teams != "" {
		cfg.Teams = splitList(teams)
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// LimitsConfig controls DoS protection and snapshot sizes.
type LimitsConfig struct {
	MaxObjects int // Hard cap on live objects
	MaxEvents  int // Events per snapshot
	MaxCues    int // Cosmetic cues per snapshot
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		MaxObjects: 1024,
		MaxEvents:  256,
		MaxCues:    256,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() LimitsConfig {
	cfg := DefaultLimits()

	if n := getEnvInt("MAX_OBJECTS", 0); n > 0 {
		cfg.MaxObjects = n
	}

	return cfg
}

// Game converts the limits to the engine's type.
func (l LimitsConfig) Game() game.ResourceLimits {
	return game.ResourceLimits{MaxObjects: l.MaxObjects, MaxEvents: l.MaxEvents, MaxCues: l.MaxCues}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	RateLimit      float64 // Requests per second per IP
	RateBurst      int
	DebugAddr      string // pprof + metrics listener, empty disables it
	EventLogPath   string // JSONL event log, empty keeps events in memory
	AdminToken     string // Required on admin routes when set
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           3000,
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		RateLimit:      20,
		RateBurst:      40,
		DebugAddr:      "127.0.0.1:6060",
		EventLogPath:   "events.jsonl",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if o := os.Getenv("ALLOWED_ORIGINS"); o != "" {
		cfg.AllowedOrigins = splitList(o)
	}
	if r := getEnvFloat("RATE_LIMIT", 0); r > 0 {
		cfg.RateLimit = r
	}
	if b := getEnvInt("RATE_BURST", 0); b > 0 {
		cfg.RateBurst = b
	}
	if v, ok := os.LookupEnv("DEBUG_ADDR"); ok {
		cfg.DebugAddr = v
	}
	if v, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = v
	}
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")

	return cfg
}

// =============================================================================
// TUNING
// =============================================================================

// Tuning holds the per-object numbers set before simulation starts.
type Tuning struct {
	Player game.PlayerTuning `toml:"player"`
	Ball   game.BallTuning   `toml:"ball"`
}

// DefaultTuning returns the built-in player and ball tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Player: game.DefaultPlayerTuning(),
		Ball:   game.DefaultBallTuning(),
	}
}

// LoadTuning reads a TOML tuning file over the defaults. Keys missing from
// the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return t, fmt.Errorf("decode tuning %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return t, fmt.Errorf("unknown tuning key %q: %w", undecoded[0].String(), ErrInvalidTuning)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate rejects negative speeds and durations.
func (t Tuning) Validate() error {
	p, b := t.Player, t.Ball
	checks := []struct {
		name string
		v    float64
	}{
		{"player.move_speed", p.MoveSpeed},
		{"player.move_accel", p.MoveAccel},
		{"player.strafe_speed", p.StrafeSpeed},
		{"player.dash_speed", p.DashSpeed},
		{"player.dash_duration", p.DashDuration},
		{"player.dash_cooldown", p.DashCooldown},
		{"player.turn_speed", p.TurnSpeed},
		{"player.tackle_duration", p.TackleDuration},
		{"player.hold_distance", p.HoldDistance},
		{"ball.carry_radius", b.CarryRadius},
		{"ball.shoot_power", b.ShootPower},
		{"ball.lob_power", b.LobPower},
		{"ball.tackle_duration", b.TackleDuration},
		{"ball.flight_time", b.FlightTime},
	}
	for _, c := range checks {
		if c.v < 0 {
			return fmt.Errorf("%s = %v: %w", c.name, c.v, ErrInvalidTuning)
		}
	}
	if p.TurnThreshold > p.StrafeThreshold {
		return fmt.Errorf("player.turn_threshold above strafe_threshold: %w", ErrInvalidTuning)
	}
	return nil
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Arena  ArenaConfig
	Limits LimitsConfig
	Server ServerConfig
	Tuning Tuning
}

// Load returns the complete configuration with environment overrides.
// A tuning file named by TUNING_PATH must decode cleanly.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Sim:    SimFromEnv(),
		Arena:  ArenaFromEnv(),
		Limits: LimitsFromEnv(),
		Server: ServerFromEnv(),
		Tuning: DefaultTuning(),
	}
	if path := os.Getenv("TUNING_PATH"); path != "" {
		t, err := LoadTuning(path)
		if err != nil {
			return cfg, err
		}
		cfg.Tuning = t
	}
	return cfg, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
