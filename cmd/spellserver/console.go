package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/world"
)

var errUsage = errors.New("usage")

// command is one parsed console line. Commands run on the turn goroutine.
type command struct {
	name string
	args []string
	// rest is the raw text after the player argument, used by "say".
	rest string
}

// parseCommand splits a console line. Empty lines and comments yield ok=false.
func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return command{}, false
	}
	fields := strings.Fields(line)
	cmd := command{name: strings.ToLower(fields[0]), args: fields[1:]}
	if cmd.name == "say" && len(fields) > 2 {
		// Keep the utterance as typed; quotes and spacing matter to phrase matching.
		after := strings.TrimSpace(line[len(fields[0]):])
		cmd.rest = strings.TrimSpace(after[len(fields[1]):])
	}
	return cmd, true
}

// runConsole feeds commands from r to srv until r is exhausted or ctx is done.
func runConsole(ctx context.Context, r io.Reader, srv *server) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cmd, ok := parseCommand(sc.Text())
		if !ok {
			continue
		}
		err := srv.Submit(ctx, func(ctx context.Context) {
			if err := srv.exec(ctx, cmd); err != nil {
				slog.Warn("console command failed", "command", cmd.name, "error", err)
			}
		})
		if err != nil {
			return
		}
	}
	if err := sc.Err(); err != nil {
		slog.Error("reading console", "error", err)
	}
}

func (s *server) exec(ctx context.Context, cmd command) error {
	switch cmd.name {
	case "spawn":
		// spawn <name> <vocation> <level> <magic level> <max mana> <x> <y> <z>
		n, err := ints(cmd.args, 1, 7)
		if err != nil {
			return fmt.Errorf("spawn name voc level ml maxmana x y z: %w", err)
		}
		p, err := s.spawn(ctx, cmd.args[0], n[0], n[1], n[2], n[3], model.Pos(n[4], n[5], n[6]))
		if err != nil {
			return err
		}
		slog.Info("player spawned", "name", p.Name(), "id", p.ObjectID(), "pos", p.Position())
		return nil

	case "despawn":
		if len(cmd.args) != 1 {
			return fmt.Errorf("despawn name: %w", errUsage)
		}
		if err := s.despawn(cmd.args[0]); err != nil {
			return err
		}
		slog.Info("player left", "name", cmd.args[0])
		return nil

	case "say":
		if len(cmd.args) < 2 {
			return fmt.Errorf("say name words: %w", errUsage)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		logResult(p, cmd.rest, s.spells.PlayerSaySpell(ctx, p, model.SpeakSay, cmd.rest))
		return nil

	case "rune":
		// rune <name> <rune id> <charges> <x> <y> <z>
		n, err := ints(cmd.args, 1, 5)
		if err != nil {
			return fmt.Errorf("rune name id charges x y z: %w", err)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		item := model.NewChargedItem(n[0], n[1])
		res := s.spells.ExecuteRune(ctx, p, item, p.Position(), model.Pos(n[2], n[3], n[4]))
		logResult(p, "rune "+cmd.args[1], res)
		slog.Debug("rune charges left", "charges", item.Charges())
		return nil

	case "learn":
		if len(cmd.args) < 2 {
			return fmt.Errorf("learn name spell: %w", errUsage)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		p.Learn(strings.Join(cmd.args[1:], " "))
		return nil

	case "give":
		// give <name> <item id> <count>
		n, err := ints(cmd.args, 1, 2)
		if err != nil {
			return fmt.Errorf("give name item count: %w", err)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		return p.Inventory().Add(n[0], n[1])

	case "face":
		if len(cmd.args) != 2 {
			return fmt.Errorf("face name direction: %w", errUsage)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		d, err := parseDirection(cmd.args[1])
		if err != nil {
			return err
		}
		p.SetDirection(d)
		return nil

	case "creature":
		// creature <type> <look type>
		n, err := ints(cmd.args, 1, 1)
		if err != nil {
			return fmt.Errorf("creature type looktype: %w", err)
		}
		s.world.RegisterCreatureType(cmd.args[0], model.Outfit{LookType: n[0]})
		return nil

	case "monster":
		// monster <type> <x> <y> <z>
		n, err := ints(cmd.args, 1, 3)
		if err != nil {
			return fmt.Errorf("monster type x y z: %w", err)
		}
		outfit, ok := s.world.OutfitOf(cmd.args[0])
		if !ok {
			return fmt.Errorf("unknown creature type %q", cmd.args[0])
		}
		m := world.NewMonster(s.world.IDs().NextMonsterID(), cmd.args[0], model.Pos(n[0], n[1], n[2]), outfit)
		return s.world.AddCreature(m)

	case "target":
		if len(cmd.args) != 2 {
			return fmt.Errorf("target name creature: %w", errUsage)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		id, err := strconv.ParseUint(cmd.args[1], 0, 32)
		if err != nil {
			t, ok := s.world.FindPlayer(cmd.args[1])
			if !ok {
				return fmt.Errorf("no creature %q", cmd.args[1])
			}
			p.SetTarget(t)
			return nil
		}
		t, ok := s.world.Creature(uint32(id))
		if !ok {
			return fmt.Errorf("no creature %d", id)
		}
		p.SetTarget(t)
		return nil

	case "spells":
		if len(cmd.args) != 1 {
			return fmt.Errorf("spells name: %w", errUsage)
		}
		p, err := s.player(cmd.args[0])
		if err != nil {
			return err
		}
		count := s.spells.InstantSpellCount(p)
		for i := range count {
			sp := s.spells.InstantSpellByIndex(p, i).Instant()
			slog.Info("spellbook", "player", p.Name(), "name", sp.Name(), "words", sp.Words, "level", sp.Level(), "mana", sp.Mana())
		}
		return nil

	case "reload":
		s.RequestReload()
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd.name)
	}
}

// ints parses want integer arguments starting at args[from].
func ints(args []string, from, want int) ([]int32, error) {
	if len(args) != from+want {
		return nil, errUsage
	}
	out := make([]int32, want)
	for i := range want {
		v, err := strconv.ParseInt(args[from+i], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", from+i+1, err)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func parseDirection(s string) (model.Direction, error) {
	switch strings.ToLower(s) {
	case "n", "north":
		return model.North, nil
	case "e", "east":
		return model.East, nil
	case "s", "south":
		return model.South, nil
	case "w", "west":
		return model.West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
