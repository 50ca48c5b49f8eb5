package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sports-arena/internal/api"
	"sports-arena/internal/config"
	"sports-arena/internal/game"
	"sports-arena/internal/game/spatial"
	"sports-arena/internal/world"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🏟️ ================================")
	log.Println("🏟️  SPORTS ARENA")
	log.Println("🏟️ ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	arenaCfg := appConfig.Arena
	serverCfg := appConfig.Server

	wcfg := world.DefaultConfig()
	wcfg.Bounds = spatial.Box{
		MinX: -arenaCfg.Width / 2, MaxX: arenaCfg.Width / 2,
		MinZ: -arenaCfg.Depth / 2, MaxZ: arenaCfg.Depth / 2,
	}
	wcfg.Gravity = arenaCfg.Gravity
	wcfg.CellSize = arenaCfg.CellSize
	wcfg.Restitution = arenaCfg.Restitution
	wcfg.Step = 1 / float64(appConfig.Sim.TickRate)

	engine := game.NewEngine(game.EngineConfig{
		TickRate: appConfig.Sim.TickRate,
		Seed:     appConfig.Sim.Seed,
		Teams:    arenaCfg.Teams,
		Limits:   appConfig.Limits.Game(),
	}, world.New(wcfg))
	engine.SetTickObserver(api.ObserveTick)

	limits := engine.Limits()
	log.Printf("🎮 Config: %d TPS, %.0fx%.0f pitch, %d teams, match %s",
		engine.TickRate(), arenaCfg.Width, arenaCfg.Depth, len(arenaCfg.Teams), engine.MatchID())
	log.Printf("🛡️ Resource limits: %d objects, %d events, %d cues", limits.MaxObjects, limits.MaxEvents, limits.MaxCues)

	n, err := seedArena(engine, arenaCfg, appConfig.Tuning)
	if err != nil {
		log.Fatalf("❌ Seeding arena: %v", err)
	}
	log.Printf("⚽ Arena seeded with %d objects", n)

	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
		}
	}

	api.StartDebugServer(api.ObservabilityConfig{
		ListenAddr:    serverCfg.DebugAddr,
		AllowExternal: os.Getenv("ALLOW_DEBUG_EXTERNAL") == "true",
		BasicAuthUser: os.Getenv("DEBUG_USER"),
		BasicAuthPass: os.Getenv("DEBUG_PASS"),
	})

	if serverCfg.AdminToken == "" {
		log.Println("⚠️ ADMIN_TOKEN not set - command routes are open")
	}
	server := api.NewServer(engine, api.ServerConfig{
		CORSOrigins: serverCfg.AllowedOrigins,
		AdminToken:  serverCfg.AdminToken,
		RateLimit: api.RateLimitConfig{
			RequestsPerSecond: serverCfg.RateLimit,
			Burst:             serverCfg.RateBurst,
			CleanupInterval:   api.DefaultRateLimitConfig.CleanupInterval,
		},
	})

	engine.Start()
	log.Println("✅ Arena engine started")

	go func() {
		if err := server.Start(":" + strconv.Itoa(serverCfg.Port)); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}
