package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning: %v", err)
	}
	return path
}

// TestDefaults verifies the built-in configuration
func TestDefaults(t *testing.T) {
	if s := DefaultSim(); s.TickRate != 50 || s.Seed != 0 {
		t.Errorf("Unexpected sim defaults %+v", s)
	}
	a := DefaultArena()
	if a.Width != 40 || a.Depth != 24 || !slices.Equal(a.Teams, []string{"Home", "Away"}) {
		t.Errorf("Unexpected arena defaults %+v", a)
	}
	if l := DefaultLimits().Game(); l.MaxObjects != 1024 || l.MaxEvents != 256 || l.MaxCues != 256 {
		t.Errorf("Unexpected limits %+v", l)
	}
	if s := DefaultServer(); s.Port != 3000 || s.AdminToken != "" {
		t.Errorf("Unexpected server defaults %+v", s)
	}
	if err := DefaultTuning().Validate(); err != nil {
		t.Errorf("Default tuning should validate, got %v", err)
	}
}

// TestEnvOverrides verifies environment variables win over defaults
func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICK_RATE", "60")
	t.Setenv("SIM_SEED", "7")
	t.Setenv("ARENA_WIDTH", "30")
	t.Setenv("ARENA_GRAVITY", "0")
	t.Setenv("ARENA_TEAMS", "Red, Blue ,,Green")
	t.Setenv("MAX_OBJECTS", "64")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DEBUG_ADDR", "")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("TUNING_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sim.TickRate != 60 || cfg.Sim.Seed != 7 {
		t.Errorf("Unexpected sim config %+v", cfg.Sim)
	}
	if cfg.Arena.Width != 30 || cfg.Arena.Depth != 24 || cfg.Arena.Gravity != 0 {
		t.Errorf("Unexpected arena config %+v", cfg.Arena)
	}
	if !slices.Equal(cfg.Arena.Teams, []string{"Red", "Blue", "Green"}) {
		t.Errorf("Expected trimmed team list, got %v", cfg.Arena.Teams)
	}
	if cfg.Limits.MaxObjects != 64 {
		t.Errorf("Expected 64 objects, got %d", cfg.Limits.MaxObjects)
	}
	if cfg.Server.Port != 8080 || len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("Unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.DebugAddr != "" {
		t.Errorf("Empty DEBUG_ADDR should disable the debug server, got %q", cfg.Server.DebugAddr)
	}
	if cfg.Server.AdminToken != "secret" {
		t.Errorf("Expected admin token, got %q", cfg.Server.AdminToken)
	}
}

// TestEnvIgnoresGarbage verifies unparsable values keep defaults
func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TICK_RATE", "fast")
	t.Setenv("ARENA_WIDTH", "-5")

	if s := SimFromEnv(); s.TickRate != 50 {
		t.Errorf("Expected default tick rate, got %d", s.TickRate)
	}
	if a := ArenaFromEnv(); a.Width != 40 {
		t.Errorf("Expected default width, got %v", a.Width)
	}
}

func TestLoadTuning(t *testing.T) {
	path := writeTuning(t, `
[player]
move_speed = 9
butterfingers = true

[player.bindings]
dash = "Dash"

[ball]
shoot_power = 25
stealable = false
`)

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning failed: %v", err)
	}
	if tun.Player.MoveSpeed != 9 || !tun.Player.Butterfingers {
		t.Errorf("Player values not applied: %+v", tun.Player)
	}
	if tun.Player.Bindings.Dash != "Dash" || tun.Player.Bindings.Shoot != "Fire" {
		t.Errorf("Expected dash rebound and shoot kept, got %+v", tun.Player.Bindings)
	}
	if tun.Player.DashSpeed != 14 {
		t.Errorf("Missing keys should keep defaults, got dash speed %v", tun.Player.DashSpeed)
	}
	if tun.Ball.ShootPower != 25 || tun.Ball.Stealable {
		t.Errorf("Ball values not applied: %+v", tun.Ball)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"unknown key", "[player]\nwarp_speed = 3\n", true},
		{"negative speed", "[ball]\nshoot_power = -1\n", true},
		{"thresholds crossed", "[player]\nturn_threshold = 0.9\nstrafe_threshold = 0.5\n", true},
		{"bad syntax", "[player\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuning(writeTuning(t, tt.body))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got := errors.Is(err, ErrInvalidTuning); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidTuning) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

// TestLoadWithTuningPath verifies Load surfaces tuning file errors
func TestLoadWithTuningPath(t *testing.T) {
	t.Setenv("TUNING_PATH", writeTuning(t, "[player]\nmove_speed = 7\n"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tuning.Player.MoveSpeed != 7 {
		t.Errorf("Expected tuned move speed 7, got %v", cfg.Tuning.Player.MoveSpeed)
	}

	t.Setenv("TUNING_PATH", writeTuning(t, "[ball]\nbogus = 1\n"))
	if _, err := Load(); !errors.Is(err, ErrInvalidTuning) {
		t.Errorf("Expected ErrInvalidTuning, got %v", err)
	}
}
