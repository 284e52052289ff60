package spell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/otspells/internal/model"
)

// Category is an independent exhaustion timer bucket.
type Category uint8

const (
	// CategoryInstant is armed by instant and conjure spells.
	CategoryInstant Category = iota
	// CategoryCombat is armed by rune spells.
	CategoryCombat

	categoryCount
)

// Categories returns every exhaustion category.
func Categories() []Category {
	return []Category{CategoryInstant, CategoryCombat}
}

func (c Category) String() string {
	switch c {
	case CategoryInstant:
		return "instant"
	case CategoryCombat:
		return "combat"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// CooldownOwner returns the identity exhaustion windows are kept under.
// Object ids are handed out per login, so windows follow the character name.
func CooldownOwner(c model.Creature) string {
	return strings.ToLower(strings.TrimSpace(c.Name()))
}

// CooldownStore persists exhaustion windows beyond the process, e.g. across relog.
type CooldownStore interface {
	Save(ctx context.Context, owner string, cat Category, until time.Time) error
	Load(ctx context.Context, owner string) (map[Category]time.Time, error)
}

type cooldownKey struct {
	owner string
	cat   Category
}

// Tracker holds one exhaustion timestamp per owner (see CooldownOwner) and category.
// Entries are overwritten on every arm and never deleted; stale ones expire by comparison.
//
// Thread-safe: protected by sync.Mutex.
type Tracker struct {
	mu       sync.Mutex
	until    map[cooldownKey]time.Time
	defaults [categoryCount]time.Duration
	now      func() time.Time
	store    CooldownStore
}

// NewTracker creates a Tracker with per-category default durations.
func NewTracker(instant, combat time.Duration) *Tracker {
	t := &Tracker{
		until: make(map[cooldownKey]time.Time),
		now:   time.Now,
	}
	t.defaults[CategoryInstant] = instant
	t.defaults[CategoryCombat] = combat
	return t
}

// SetClock replaces the time source.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// SetStore enables write-through persistence. nil disables it.
func (t *Tracker) SetStore(store CooldownStore) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store = store
}

// Default returns the process-wide duration of a category.
func (t *Tracker) Default(cat Category) time.Duration {
	if cat >= categoryCount {
		return 0
	}
	return t.defaults[cat]
}

// IsExhausted reports now < exhaustUntil for the owner and category.
func (t *Tracker) IsExhausted(owner string, cat Category) bool {
	return t.Remaining(owner, cat) > 0
}

// Remaining returns the time left until the category is usable again.
func (t *Tracker) Remaining(owner string, cat Category) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.until[cooldownKey{owner, cat}]
	if !ok {
		return 0
	}
	return max(until.Sub(t.now()), 0)
}

// Arm sets exhaustUntil = now + duration, where duration is custom when
// non-zero and the category default otherwise. Returns the new deadline.
// Persistence failures are logged; the in-memory window is authoritative.
func (t *Tracker) Arm(ctx context.Context, owner string, cat Category, custom time.Duration) time.Time {
	d := custom
	if d == 0 {
		d = t.Default(cat)
	}

	t.mu.Lock()
	until := t.now().Add(d)
	t.until[cooldownKey{owner, cat}] = until
	store := t.store
	t.mu.Unlock()

	if store != nil {
		if err := store.Save(ctx, owner, cat, until); err != nil {
			slog.Warn("persisting exhaustion",
				"owner", owner,
				"category", cat,
				"error", err)
		}
	}
	return until
}

// Restore loads persisted windows for an owner, e.g. on login.
// Windows already over are ignored.
func (t *Tracker) Restore(ctx context.Context, owner string) error {
	t.mu.Lock()
	store := t.store
	t.mu.Unlock()
	if store == nil {
		return nil
	}

	windows, err := store.Load(ctx, owner)
	if err != nil {
		return fmt.Errorf("restoring exhaustion for %q: %w", owner, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for cat, until := range windows {
		if cat >= categoryCount || !until.After(now) {
			continue
		}
		key := cooldownKey{owner, cat}
		if until.After(t.until[key]) {
			t.until[key] = until
		}
	}
	return nil
}
