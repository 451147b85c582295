// Command parksim runs the park guest and staff simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/talgya/park-peeps/internal/api"
	"github.com/talgya/park-peeps/internal/config"
	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/persistence"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func main() {
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("PARKSIM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("park simulation starting")

	// ── Configuration ─────────────────────────────────────────────────
	cfgPath := os.Getenv("PARKSIM_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/park.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no park config found, using the built-in park", "path", cfgPath)
		cfg, err = config.Default(), nil
	}
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Build Park ────────────────────────────────────────────
	var sim *engine.Simulation
	if db.HasWorldState() {
		slog.Info("found saved park, loading...")
		sim, err = db.LoadWorld()
		if err != nil {
			slog.Error("failed to load park", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved park found, building a new one...")
		sim, err = buildPark(cfg)
		if err != nil {
			slog.Error("failed to build park", "error", err)
			os.Exit(1)
		}
		if err := db.SaveWorldState(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Interval = cfg.TickInterval
	sim.Attach(eng)

	// Auto-save every real minute at normal speed.
	eng.OnMinute = func(tick uint64) {
		if err := db.SaveWorldState(sim); err != nil {
			slog.Error("auto-save failed", "tick", tick, "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.AdminKey == "" {
		slog.Warn("PARKSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	apiServer := &api.Server{
		Sim:            sim,
		Eng:            eng,
		DB:             db,
		Port:           cfg.Server.Port,
		AdminKey:       cfg.Server.AdminKey,
		AllowedOrigins: origins,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	stats := sim.Snapshot()
	fmt.Printf("\nThe park is open: %s rides, %s guests, %d staff, %s in the bank.\n",
		humanize.Comma(int64(sim.Rides.Count())), humanize.Comma(int64(stats.GuestsInPark)), stats.Staff, stats.Cash)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)
	if tick := sim.CurrentTick(); tick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", tick, engine.ParkTime(tick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Warn("API shutdown", "error", err)
	}

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveWorldState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Park state saved.")
}

// buildPark generates a fresh park from the config: map, rides and an empty
// peep pool.
func buildPark(cfg *config.Config) (*engine.Simulation, error) {
	m, layout := world.Generate(cfg.GenConfig())
	for s, c := range world.SurfaceCounts(m) {
		slog.Info("surface", "type", world.SurfaceName(s), "tiles", c)
	}

	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}
	rides := ride.NewRegistry()
	for i, def := range defs {
		if i >= len(layout.Plots) {
			slog.Warn("no room left for ride", "ride", def.Name, "plots", len(layout.Plots))
			continue
		}
		r, err := rides.Build(m, layout.Plots[i], def)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", def.Name, err)
		}
		if cfg.Rides[i].IsOpen() {
			r.Open()
		}
		slog.Info("ride built", "ride", r.Name, "type", r.Type, "price", r.Price, "open", r.IsOpen())
	}

	sim := engine.NewSimulation(m, layout, rides, cfg.EngineConfig())
	slog.Info("park ready",
		"size", fmt.Sprintf("%dx%d", m.Width, m.Height),
		"rides", rides.Count(),
		"rating", sim.Rating,
		"save_id", sim.SaveID,
	)
	return sim, nil
}
