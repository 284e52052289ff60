package spell

//go:generate mockgen -destination=mock/mock_spell.go -package=mockspell github.com/udisondev/otspells/internal/spell CombatEngine,ScriptRuntime,CooldownStore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/script"
)

// World is the part of the game world the pipeline and native effects use.
type World interface {
	FindPlayer(name string) (model.Creature, bool)
	CreatureAt(pos model.Position) (model.Creature, bool)
	TopItemAt(pos model.Position) (int32, bool)
	IsTileBlocked(pos model.Position) bool
	IsSightClear(from, to model.Position) bool

	SummonCreature(owner model.Creature, name string, pos model.Position) error
	ChangeFloor(c model.Creature, up bool) error
	OutfitOf(creatureName string) (model.Outfit, bool)
	SetIllusion(c model.Creature, outfit model.Outfit, d time.Duration) error
	Convince(owner, target model.Creature) error
}

// ScriptRuntime runs scripted entry points. *script.Runtime implements it.
type ScriptRuntime interface {
	Resolve(entry string) error
	Invoke(entry string, call script.Call) (bool, error)
}

// Notifier delivers a text message to a creature.
type Notifier func(c model.Creature, msg string)

// CastContext is everything an effect receives for one cast.
type CastContext struct {
	ID      string
	Ability Ability
	Caster  model.Creature
	// Target is nil when the cast has no creature target.
	Target   model.Creature
	Position model.Position
	Param    string
	Item     *model.Item
	From     model.Position

	// Conjure output, prefilled from the spell; natives may change ConjureID.
	ConjureID    int32
	ConjureCount int32

	ctx     context.Context
	scripts ScriptRuntime
}

// frame is one in-flight cast of a caster.
type frame struct {
	reentered bool
}

// guard tracks casters with a cast being dispatched.
type guard struct {
	mu     sync.Mutex
	active map[uint32]*frame
}

func newGuard() *guard {
	return &guard{active: make(map[uint32]*frame)}
}

// enter registers a cast. A second cast for the same caster marks the
// running one as reentered and is rejected.
func (g *guard) enter(casterID uint32) (*frame, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.active[casterID]; ok {
		f.reentered = true
		return nil, fmt.Errorf("caster %d: %w", casterID, ErrReentrantCast)
	}
	f := &frame{}
	g.active[casterID] = f
	return f, nil
}

func (g *guard) leave(casterID uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, casterID)
}

// Dispatcher invokes the effect bound to a validated ability.
type Dispatcher struct {
	world  World
	combat CombatEngine
	notify Notifier
	intn   func(n int) int

	// recast is the entry for nested casts requested by scripts.
	recast func(ctx context.Context, c model.Creature, words string) bool
}

// Invoke runs the handler synchronously. nil means the effect succeeded.
func (d *Dispatcher) Invoke(h Handler, cc *CastContext) error {
	switch h.Kind {
	case HandlerNative:
		fn, ok := natives[h.Native]
		if !ok {
			return fmt.Errorf("native %d not registered", h.Native)
		}
		return fn(d, cc)
	case HandlerScripted:
		return d.invokeScript(h.Entry, cc)
	default:
		return errors.New("no handler bound")
	}
}

func (d *Dispatcher) invokeScript(entry string, cc *CastContext) error {
	if cc.scripts == nil {
		return errors.New("script runtime not configured")
	}

	ok, err := cc.scripts.Invoke(entry, d.buildCall(cc))
	if err != nil {
		return fmt.Errorf("script %s: %w", entry, err)
	}
	if !ok {
		return ErrEffectFailed
	}
	return nil
}

func (d *Dispatcher) buildCall(cc *CastContext) script.Call {
	call := script.Call{
		CastID:     cc.ID,
		Spell:      cc.Ability.Name(),
		CasterID:   cc.Caster.ObjectID(),
		CasterName: cc.Caster.Name(),
		X:          cc.Position.X,
		Y:          cc.Position.Y,
		Z:          cc.Position.Z,
		Param:      cc.Param,
	}
	if c, ok := cc.Caster.(Caster); ok {
		call.Level = c.Level()
		call.MagicLevel = c.MagicLevel()
		call.Mana = c.Mana()
		call.MaxMana = c.MaxMana()
		call.Soul = c.Soul()
		call.Vocation = c.Vocation()
	}
	if cc.Target != nil {
		call.TargetID = cc.Target.ObjectID()
		call.TargetName = cc.Target.Name()
	}

	caster, ctx := cc.Caster, cc.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	call.Say = func(text string) { d.tell(caster, text) }
	call.Cast = func(words string) bool {
		if d.recast == nil {
			return false
		}
		return d.recast(ctx, caster, words)
	}
	return call
}

func (d *Dispatcher) tell(c model.Creature, msg string) {
	if d.notify != nil {
		d.notify(c, msg)
	}
}
