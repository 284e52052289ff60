package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/script"
	"github.com/udisondev/otspells/internal/spell"
	"github.com/udisondev/otspells/internal/world"
)

// definitionSource yields the ordered ability definitions.
type definitionSource func(ctx context.Context) ([]spell.Definition, error)

// server is the single turn processor. Casts, world ticks and reloads all run
// on its goroutine, so they never interleave.
type server struct {
	spells     *spell.Spells
	world      *world.World
	scripts    *script.Runtime
	source     definitionSource
	scriptsDir string
	tick       time.Duration

	cmds   chan func(ctx context.Context)
	reload chan struct{}

	// players is owned by the turn goroutine.
	players map[string]*model.Player
}

func newServer(spells *spell.Spells, w *world.World, scripts *script.Runtime, source definitionSource, scriptsDir string, tick time.Duration) *server {
	return &server{
		spells:     spells,
		world:      w,
		scripts:    scripts,
		source:     source,
		scriptsDir: scriptsDir,
		tick:       tick,
		cmds:       make(chan func(ctx context.Context), 64),
		reload:     make(chan struct{}, 1),
		players:    make(map[string]*model.Player),
	}
}

// Run processes turns until ctx is done.
func (s *server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.world.Tick(); n > 0 {
				slog.Debug("illusions expired", "count", n)
			}
		case <-s.reload:
			if err := s.reloadAll(ctx); err != nil {
				slog.Error("reload failed, keeping current spells", "error", err)
			}
		case fn := <-s.cmds:
			fn(ctx)
		}
	}
}

// Submit queues fn for the turn goroutine.
func (s *server) Submit(ctx context.Context, fn func(ctx context.Context)) error {
	select {
	case s.cmds <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestReload schedules a reload between turns. Requests coalesce.
func (s *server) RequestReload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// reloadAll re-reads definitions and scripts and rebuilds the spell index.
// Scripts are compiled into a fresh runtime that replaces the live one only
// once the new index is in place, so a failed reload leaves both untouched.
func (s *server) reloadAll(ctx context.Context) error {
	defs, err := s.source(ctx)
	if err != nil {
		return fmt.Errorf("reading definitions: %w", err)
	}

	fresh := script.NewRuntime()
	switch {
	case s.scriptsDir == "":
	case !dirExists(s.scriptsDir):
		slog.Warn("scripts directory missing", "dir", s.scriptsDir)
	default:
		if err := fresh.LoadDir(s.scriptsDir); err != nil {
			slog.Warn("some scripts failed to load", "dir", s.scriptsDir, "error", err)
		}
	}

	if _, err := s.spells.LoadWithScripts(defs, fresh); err != nil {
		return err
	}
	s.scripts = fresh
	return nil
}

// spawn adds a player to the world and restores persisted exhaustion.
func (s *server) spawn(ctx context.Context, name string, vocation, level, magicLevel, maxMana int32, pos model.Position) (*model.Player, error) {
	if _, ok := s.players[name]; ok {
		return nil, fmt.Errorf("player %q already online", name)
	}
	p, err := model.NewPlayer(s.world.IDs().NextPlayerID(), name, vocation, level, magicLevel, maxMana)
	if err != nil {
		return nil, err
	}
	p.SetPosition(pos)
	if err := s.world.AddPlayer(p); err != nil {
		return nil, err
	}
	if err := s.spells.Cooldowns().Restore(ctx, spell.CooldownOwner(p)); err != nil {
		slog.Warn("restoring exhaustion", "player", name, "error", err)
	}
	s.players[name] = p
	return p, nil
}

// despawn removes a player from the world. Exhaustion stays with the character.
func (s *server) despawn(name string) error {
	p, err := s.player(name)
	if err != nil {
		return err
	}
	s.world.RemoveCreature(p.ObjectID())
	delete(s.players, name)
	return nil
}

func (s *server) player(name string) (*model.Player, error) {
	p, ok := s.players[name]
	if !ok {
		return nil, fmt.Errorf("player %q not online", name)
	}
	return p, nil
}

// logResult reports the outcome of a cast attempt.
func logResult(p *model.Player, what string, res spell.CastResult) {
	switch res.Outcome {
	case spell.NotASpell:
		slog.Info("chat", "player", p.Name(), "text", what)
	case spell.Success:
		slog.Info("cast", "player", p.Name(), "input", what, "mana", p.Mana(), "soul", p.Soul())
	default:
		slog.Info("cast failed", "player", p.Name(), "input", what, "error", res.Err)
	}
}

// dirExists reports whether dir is an existing directory.
func dirExists(dir string) bool {
	st, err := os.Stat(dir)
	return err == nil && st.IsDir()
}
