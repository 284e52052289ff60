package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/otspells/internal/cache"
	"github.com/udisondev/otspells/internal/config"
	"github.com/udisondev/otspells/internal/data"
	"github.com/udisondev/otspells/internal/db"
	"github.com/udisondev/otspells/internal/geo"
	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/script"
	"github.com/udisondev/otspells/internal/spell"
	"github.com/udisondev/otspells/internal/world"
)

const SpellServerConfigPath = "config/spellserver.yaml"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("loading .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := SpellServerConfigPath
	if p := os.Getenv("OTSPELLS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSpellServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config %s: %w", cfgPath, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("spell server starting", "config", cfgPath, "source", cfg.DefinitionSource)

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	var store spell.CooldownStore
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		store = cache.NewCooldownStore(client)
		slog.Info("redis connected", "addr", cfg.Redis.Addr)
	}

	scripts := script.NewRuntime()
	w := world.New(geo.NewGrid())

	deps := spell.Deps{
		World:   w,
		Combat:  logCombat{},
		Scripts: scripts,
		Notify: func(c model.Creature, msg string) {
			slog.Info("message", "to", c.Name(), "text", msg)
		},
		Store: store,
	}
	spells := spell.New(spell.Settings{
		SpellExhaustion:  cfg.SpellExhaustionTime,
		CombatExhaustion: cfg.CombatExhaustionTime,
		InFightTime:      cfg.SpellInFightTime,
		RequireSpells:    cfg.RequireSpells,
		KnownVocation:    data.KnownVocation,
	}, deps)

	srv := newServer(spells, w, scripts, source, cfg.ScriptsDir, cfg.TickInterval)
	if err := srv.reloadAll(ctx); err != nil {
		return fmt.Errorf("loading spells: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting turn processor", "interval", cfg.TickInterval)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				slog.Info("reload requested")
				srv.RequestReload()
			}
		}
	})

	if cfg.Console {
		// Not part of the group: a blocked stdin read must not delay shutdown.
		go runConsole(gctx, os.Stdin, srv)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("spell server stopped")
	return nil
}

// openSource returns the definition source selected by config and its cleanup.
func openSource(ctx context.Context, cfg config.SpellServer) (definitionSource, func(), error) {
	if cfg.DefinitionSource == config.SourceFile {
		path := cfg.SpellsPath
		return func(context.Context) ([]spell.Definition, error) {
			return data.LoadSpellDefinitions(path)
		}, func() {}, nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	repo := db.NewSpellRepository(database.Pool())
	return repo.LoadAll, database.Close, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
