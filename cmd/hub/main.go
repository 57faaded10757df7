// Package main runs the Nightcourt hub on the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/config"
	"github.com/cory-johannsen/nightcourt/internal/content"
	"github.com/cory-johannsen/nightcourt/internal/frontend/console"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
	"github.com/cory-johannsen/nightcourt/internal/hub"
	"github.com/cory-johannsen/nightcourt/internal/lifecycle"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
	"github.com/cory-johannsen/nightcourt/internal/observability"
	"github.com/cory-johannsen/nightcourt/internal/scripting"
)

const narrativeNamespace = "narrative"

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty uses defaults and the environment")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, !*noColor, logger, start); err != nil {
		logger.Error("hub exited with error", zap.Error(err))
		_ = logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, color bool, logger *zap.Logger, start time.Time) error {
	tables, err := content.Load(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("quests", len(tables.Quests)),
		zap.Int("enemies", len(tables.Enemies)),
	)

	src := dice.NewCryptoSource()
	if cfg.Game.Seed != 0 {
		src = dice.NewSeededSource(cfg.Game.Seed)
		logger.Info("rolls are seeded", zap.Int64("seed", cfg.Game.Seed))
	}

	var narrator narrative.Provider = narrative.Offline{}
	if cfg.Scripting.ScriptRoot != "" {
		scripts := scripting.NewManager(dice.NewLoggedRoller(src, logger.Named("lua.dice")), cfg.Scripting.InstructionLimit, logger.Named("lua"))
		defer scripts.Close()
		if err := scripts.Load(narrativeNamespace, cfg.Scripting.ScriptRoot); err != nil {
			return fmt.Errorf("loading narrative scripts: %w", err)
		}
		narrator = narrative.NewScripted(scripts, narrativeNamespace, narrative.Offline{}, logger.Named("narrative"))
		logger.Info("narrative scripts loaded", zap.String("dir", cfg.Scripting.ScriptRoot))
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	notices := make(chan hub.Notice, 64)
	name := cfg.Player.Name
	if name == "" {
		name = "Nameless"
	}
	h, err := hub.New(tables, hub.Options{
		Identity:       character.Identity{Name: name, Archetype: character.Archetype(cfg.Player.Archetype)},
		BrewCost:       cfg.Game.BrewCost,
		CheckpointCost: cfg.Game.CheckpointCost,
		OracleCost:     cfg.Game.OracleCost,
		EnemyTurnDelay: cfg.Game.EnemyTurnDelay,
		Source:         src,
		Clock:          syndicate.SystemClock{},
		Narrator:       narrator,
		Metrics:        metrics,
		OnNotice: func(n hub.Notice) {
			select {
			case notices <- n:
			default:
				logger.Warn("notice dropped", zap.String("source", n.Source))
			}
		},
		Logger: logger.Named("hub"),
	})
	if err != nil {
		return fmt.Errorf("creating hub: %w", err)
	}
	defer h.Close()

	if cfg.Player.Origin != "" {
		if _, err := h.ChooseOrigin(cfg.Player.Origin); err != nil {
			return fmt.Errorf("applying origin: %w", err)
		}
	}

	ready := make(chan syndicate.ActiveMission, 8)
	watcher := h.NewWatcher(cfg.Game.MissionPollInterval)
	watcher.Subscribe(ready)

	lc := lifecycle.New(logger.Named("lifecycle"))
	if metrics != nil && cfg.Metrics.Addr != "" {
		lc.Add("metrics", lifecycle.ServiceFunc(func(ctx context.Context) error {
			return metrics.Serve(ctx, cfg.Metrics.Addr, logger.Named("metrics"))
		}))
	}
	lc.Add("mission-watcher", lifecycle.ServiceFunc(func(ctx context.Context) error {
		stop := watcher.Start()
		defer stop()
		<-ctx.Done()
		return ctx.Err()
	}))
	con := console.New(h, os.Stdout, console.Options{
		Notices:        notices,
		Missions:       ready,
		ConflictSettle: cfg.Game.ConflictSettleDelay,
		Color:          color,
		Logger:         logger.Named("console"),
	})
	lc.Add("console", lifecycle.ServiceFunc(func(ctx context.Context) error {
		return con.Run(ctx, os.Stdin)
	}))

	logger.Info("hub starting", zap.Duration("startup", time.Since(start)))
	return lc.Run(context.Background())
}
