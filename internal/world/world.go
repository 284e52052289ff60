// Package world is an in-memory game world: creatures, tile flags, item
// stacks and the creature types that illusions and summons refer to.
package world

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/otspells/internal/geo"
	"github.com/udisondev/otspells/internal/model"
)

// MaxSummons is how many summons one creature may own.
const MaxSummons = 2

const (
	minFloor = 0
	maxFloor = 15
)

var (
	ErrUnknownCreature   = errors.New("unknown creature type")
	ErrTileBlocked       = errors.New("tile blocked")
	ErrTooManySummons    = errors.New("too many summons")
	ErrNotConvincible    = errors.New("creature cannot be convinced")
	ErrDuplicateCreature = errors.New("creature already in world")
	ErrUnsupported       = errors.New("operation not supported by creature")
)

// movable is a creature the world can relocate.
type movable interface {
	model.Creature
	SetPosition(model.Position)
}

// dressable is a creature whose outfit can change.
type dressable interface {
	model.Creature
	Outfit() model.Outfit
	SetOutfit(model.Outfit)
}

type illusion struct {
	creature dressable
	original model.Outfit
	until    time.Time
}

// World holds the creatures and the map state abilities interact with.
//
// Thread-safe: creatures live in sync.Map, the rest is guarded by mu.
type World struct {
	grid *geo.Grid
	ids  *ObjectIDGenerator
	now  func() time.Time

	creatures sync.Map // objectID → model.Creature
	players   sync.Map // lower-case name → model.Creature

	mu        sync.RWMutex
	items     map[model.Position][]int32
	types     map[string]model.Outfit
	illusions map[uint32]*illusion
}

// New creates an empty world over grid.
func New(grid *geo.Grid) *World {
	if grid == nil {
		grid = geo.NewGrid()
	}
	return &World{
		grid:      grid,
		ids:       NewObjectIDGenerator(),
		now:       time.Now,
		items:     make(map[model.Position][]int32),
		types:     make(map[string]model.Outfit),
		illusions: make(map[uint32]*illusion),
	}
}

// SetClock replaces the time source. Tests only.
func (w *World) SetClock(now func() time.Time) {
	w.now = now
}

// Grid returns the tile map.
func (w *World) Grid() *geo.Grid { return w.grid }

// IDs returns the object id generator.
func (w *World) IDs() *ObjectIDGenerator { return w.ids }

// AddPlayer adds a player; players are searchable by name.
func (w *World) AddPlayer(p model.Creature) error {
	if err := w.AddCreature(p); err != nil {
		return err
	}
	w.players.Store(strings.ToLower(p.Name()), p)
	return nil
}

// AddCreature adds any creature.
func (w *World) AddCreature(c model.Creature) error {
	if _, loaded := w.creatures.LoadOrStore(c.ObjectID(), c); loaded {
		return fmt.Errorf("adding %s (%d): %w", c.Name(), c.ObjectID(), ErrDuplicateCreature)
	}
	return nil
}

// RemoveCreature removes a creature. Unknown ids are ignored.
func (w *World) RemoveCreature(objectID uint32) {
	v, ok := w.creatures.LoadAndDelete(objectID)
	if !ok {
		return
	}
	c := v.(model.Creature)
	w.players.CompareAndDelete(strings.ToLower(c.Name()), c)

	w.mu.Lock()
	delete(w.illusions, objectID)
	w.mu.Unlock()
}

// Creature returns a creature by object id.
func (w *World) Creature(objectID uint32) (model.Creature, bool) {
	v, ok := w.creatures.Load(objectID)
	if !ok {
		return nil, false
	}
	return v.(model.Creature), true
}

// FindPlayer looks an online player up by name, case-insensitively.
func (w *World) FindPlayer(name string) (model.Creature, bool) {
	v, ok := w.players.Load(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return nil, false
	}
	return v.(model.Creature), true
}

// CreatureAt returns the creature standing on pos. With several, the lowest
// object id wins.
func (w *World) CreatureAt(pos model.Position) (model.Creature, bool) {
	var found model.Creature
	w.creatures.Range(func(_, v any) bool {
		c := v.(model.Creature)
		if c.Position() == pos && (found == nil || c.ObjectID() < found.ObjectID()) {
			found = c
		}
		return true
	})
	return found, found != nil
}

// CreatureCount returns the number of creatures (O(N)).
func (w *World) CreatureCount() int {
	n := 0
	w.creatures.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// PutItem places an item on top of the stack at pos.
func (w *World) PutItem(pos model.Position, itemID int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items[pos] = append(w.items[pos], itemID)
}

// TopItemAt returns the item on top of the stack at pos.
func (w *World) TopItemAt(pos model.Position) (int32, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	stack := w.items[pos]
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}

// IsTileBlocked reports whether nothing can be placed on pos.
func (w *World) IsTileBlocked(pos model.Position) bool {
	return w.grid.IsSolid(pos)
}

// IsSightClear reports whether a projectile can travel from → to.
func (w *World) IsSightClear(from, to model.Position) bool {
	return w.grid.CanSeeTarget(from, to)
}

// RegisterCreatureType registers a creature type and its outfit.
func (w *World) RegisterCreatureType(name string, outfit model.Outfit) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.types[strings.ToLower(name)] = outfit
}

// OutfitOf returns the outfit of a creature type.
func (w *World) OutfitOf(creatureName string) (model.Outfit, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	o, ok := w.types[strings.ToLower(strings.TrimSpace(creatureName))]
	return o, ok
}

// Summons returns the monsters mastered by owner, ordered by object id.
func (w *World) Summons(owner uint32) []*Monster {
	var out []*Monster
	w.creatures.Range(func(_, v any) bool {
		if m, ok := v.(*Monster); ok && m.Master() == owner {
			out = append(out, m)
		}
		return true
	})
	slices.SortFunc(out, func(a, b *Monster) int { return cmp.Compare(a.id, b.id) })
	return out
}

// SummonCreature spawns a creature of the named type at pos, mastered by owner.
func (w *World) SummonCreature(owner model.Creature, name string, pos model.Position) error {
	outfit, ok := w.OutfitOf(name)
	if !ok {
		return fmt.Errorf("summoning %q: %w", name, ErrUnknownCreature)
	}
	if len(w.Summons(owner.ObjectID())) >= MaxSummons {
		return fmt.Errorf("summoning %q for %s: %w", name, owner.Name(), ErrTooManySummons)
	}
	if w.IsTileBlocked(pos) {
		return fmt.Errorf("summoning %q at %v: %w", name, pos, ErrTileBlocked)
	}
	if _, occupied := w.CreatureAt(pos); occupied {
		return fmt.Errorf("summoning %q at %v: %w", name, pos, ErrTileBlocked)
	}

	m := NewMonster(w.ids.NextMonsterID(), name, pos, outfit)
	m.claim(owner.ObjectID())
	if err := w.AddCreature(m); err != nil {
		return err
	}

	slog.Debug("creature summoned",
		"owner", owner.Name(),
		"creature", name,
		"objectID", m.id,
		"pos", pos)
	return nil
}

// ChangeFloor moves c one floor up or down onto the tile it faces.
func (w *World) ChangeFloor(c model.Creature, up bool) error {
	mc, ok := c.(movable)
	if !ok {
		return fmt.Errorf("moving %s: %w", c.Name(), ErrUnsupported)
	}

	dest := c.Position().Step(c.Direction())
	if up {
		dest.Z--
	} else {
		dest.Z++
	}
	if dest.Z < minFloor || dest.Z > maxFloor || w.IsTileBlocked(dest) {
		return fmt.Errorf("moving %s to %v: %w", c.Name(), dest, ErrTileBlocked)
	}
	if _, occupied := w.CreatureAt(dest); occupied {
		return fmt.Errorf("moving %s to %v: %w", c.Name(), dest, ErrTileBlocked)
	}

	mc.SetPosition(dest)
	return nil
}

// SetIllusion dresses c in outfit for d. Tick restores the real outfit.
func (w *World) SetIllusion(c model.Creature, outfit model.Outfit, d time.Duration) error {
	dc, ok := c.(dressable)
	if !ok {
		return fmt.Errorf("dressing %s: %w", c.Name(), ErrUnsupported)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ill, active := w.illusions[c.ObjectID()]
	if !active {
		ill = &illusion{creature: dc, original: dc.Outfit()}
		w.illusions[c.ObjectID()] = ill
	}
	ill.until = w.now().Add(d)
	dc.SetOutfit(outfit)
	return nil
}

// HasIllusion reports whether c currently wears an illusion.
func (w *World) HasIllusion(objectID uint32) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.illusions[objectID]
	return ok
}

// Convince makes a wild monster follow owner.
func (w *World) Convince(owner, target model.Creature) error {
	m, ok := target.(*Monster)
	if !ok {
		return fmt.Errorf("convincing %s: %w", target.Name(), ErrNotConvincible)
	}
	if len(w.Summons(owner.ObjectID())) >= MaxSummons {
		return fmt.Errorf("convincing %s for %s: %w", target.Name(), owner.Name(), ErrTooManySummons)
	}
	if !m.claim(owner.ObjectID()) {
		return fmt.Errorf("convincing %s: %w", target.Name(), ErrNotConvincible)
	}
	return nil
}

// Tick restores expired illusions. It returns how many were restored.
func (w *World) Tick() int {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for id, ill := range w.illusions {
		if now.Before(ill.until) {
			continue
		}
		ill.creature.SetOutfit(ill.original)
		delete(w.illusions, id)
		n++
	}
	return n
}
