// Package main runs the actor simulation: it loads content, restores or
// spawns actors, steps the world on a fixed interval and persists snapshots.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/observability"
	"github.com/cory-johannsen/actorcore/internal/scripting"
	"github.com/cory-johannsen/actorcore/internal/server"
	"github.com/cory-johannsen/actorcore/internal/sim"
	"github.com/cory-johannsen/actorcore/internal/storage/postgres"
	"github.com/cory-johannsen/actorcore/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	perTemplate := flag.Int("spawn", 1, "actors spawned per template when no snapshots exist")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	content, closeScripts := loadContent(cfg.Content, logger)
	defer closeScripts()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	world := sim.NewWorld(content, sim.Timings(cfg.Simulation.Regen), logger)
	restored := 0
	if store != nil {
		restored, err = world.LoadAll(ctx, store)
		if err != nil {
			logger.Fatal("restoring snapshots", zap.Error(err))
		}
	}
	if restored == 0 {
		spawnAll(world, content.Templates, *perTemplate, logger)
	}
	logger.Info("world ready",
		zap.Int("restored", restored),
		zap.Int("actors", len(world.Actors())),
		zap.Duration("startup", time.Since(start)),
	)

	lc := server.NewLifecycle(logger)
	lc.Add("simulation", sim.NewRunner(world, cfg.Simulation, store, logger))
	if err := lc.Run(ctx); err != nil {
		logger.Error("simulation exited with error", zap.Error(err))
		os.Exit(1)
	}
}

// loadContent reads every content directory. A missing scripts directory
// disables scripting.
func loadContent(cfg config.ContentConfig, logger *zap.Logger) (sim.Content, func()) {
	loadStart := time.Now()
	auras, err := aura.LoadDirectory(cfg.AurasDir)
	if err != nil {
		logger.Fatal("loading aura definitions", zap.Error(err))
	}
	items, err := inventory.LoadDirectory(cfg.ItemsDir)
	if err != nil {
		logger.Fatal("loading item definitions", zap.Error(err))
	}
	templates, err := actor.LoadTemplates(cfg.ActorsDir)
	if err != nil {
		logger.Fatal("loading actor templates", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("auras", len(auras.All())),
		zap.Int("items", len(items.All())),
		zap.Int("templates", len(templates.All())),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	content := sim.Content{Templates: templates, Auras: auras, Items: items}
	if _, err := os.Stat(cfg.ScriptsDir); err != nil {
		logger.Info("scripting disabled", zap.String("dir", cfg.ScriptsDir))
		return content, func() {}
	}
	mgr := scripting.NewManager(cfg.InstructionLimit, logger)
	if err := mgr.Load(cfg.ScriptsDir); err != nil {
		logger.Fatal("loading scripts", zap.Error(err))
	}
	content.Hooks = mgr
	return content, mgr.Close
}

// openStore returns the configured snapshot store, or nil when persistence
// is disabled.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (sim.Store, func()) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		repo, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("opening postgres store", zap.Error(err))
		}
		return repo, repo.Close
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal("opening sqlite store", zap.Error(err))
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.Storage.SQLitePath))
		return s, func() { _ = s.Close() }
	default:
		logger.Info("persistence disabled")
		return nil, func() {}
	}
}

// spawnAll spawns n actors of every template into a herd named after it.
func spawnAll(world *sim.World, templates *actor.Templates, n int, logger *zap.Logger) {
	for _, tmpl := range templates.All() {
		for range n {
			if _, err := world.Spawn(tmpl.ID, tmpl.ID); err != nil {
				logger.Fatal("spawning actor", zap.String("template", tmpl.ID), zap.Error(err))
			}
		}
		logger.Info("herd spawned",
			zap.String("herd", tmpl.ID),
			zap.Int("members", world.Herd(tmpl.ID).Len()),
			zap.Float64("average_level", world.Herd(tmpl.ID).AverageLevel()),
		)
	}
}
