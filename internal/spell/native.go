package spell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/udisondev/otspells/internal/model"
)

const (
	illusionDuration     = 180 * time.Second
	runeIllusionDuration = 200 * time.Second
)

// foodItems are the items conjure-food picks from.
var foodItems = []int32{2666, 2671, 2681, 2674, 2689, 2690, 2696}

type nativeFunc func(d *Dispatcher, cc *CastContext) error

// natives maps native id → built-in effect.
var natives = map[NativeID]nativeFunc{}

func registerNative(id NativeID, fn nativeFunc) {
	natives[id] = fn
}

func init() {
	registerNative(NativeSearchPlayer, searchPlayer)
	registerNative(NativeSummonCreature, summonCreature)
	registerNative(NativeLevitate, levitate)
	registerNative(NativeIllusion, illusion)
	registerNative(NativeConjureItem, conjureItem)
	registerNative(NativeConjureFood, conjureFood)
	registerNative(NativeRuneIllusion, runeIllusion)
	registerNative(NativeConvince, convince)
	registerNative(NativeCombat, applyCombat)
}

var (
	errNoWorld    = errors.New("world not configured")
	errNeedsParam = errors.New("parameter required")
)

func searchPlayer(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	if cc.Param == "" {
		return errNeedsParam
	}
	target, ok := d.world.FindPlayer(cc.Param)
	if !ok {
		d.tell(cc.Caster, "A player with this name is not online.")
		return fmt.Errorf("player %q not online: %w", cc.Param, ErrEffectFailed)
	}
	d.tell(cc.Caster, DescribeLocation(cc.Caster.Position(), target))
	return nil
}

// DescribeLocation tells where target is as seen from pos.
func DescribeLocation(pos model.Position, target model.Creature) string {
	to := target.Position()
	dist := pos.Distance(to)
	dz := to.Z - pos.Z // lower Z is a higher floor

	if dist < 5 {
		switch {
		case dz < 0:
			return target.Name() + " is above you."
		case dz > 0:
			return target.Name() + " is below you."
		default:
			return target.Name() + " is standing next to you."
		}
	}

	dir, _ := pos.DirectionTo(to)
	switch {
	case dist < 101 && dz < 0:
		return fmt.Sprintf("%s is on a higher level to the %s.", target.Name(), dir)
	case dist < 101 && dz > 0:
		return fmt.Sprintf("%s is on a lower level to the %s.", target.Name(), dir)
	case dist < 101:
		return fmt.Sprintf("%s is to the %s.", target.Name(), dir)
	case dist < 250:
		return fmt.Sprintf("%s is far to the %s.", target.Name(), dir)
	default:
		return fmt.Sprintf("%s is very far to the %s.", target.Name(), dir)
	}
}

func summonCreature(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	if cc.Param == "" {
		return errNeedsParam
	}
	pos := CasterPosition(cc.Caster.Position(), cc.Caster.Direction())
	if err := d.world.SummonCreature(cc.Caster, cc.Param, pos); err != nil {
		return fmt.Errorf("summoning %q: %w", cc.Param, err)
	}
	return nil
}

func levitate(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	var up bool
	switch strings.ToLower(cc.Param) {
	case "up":
		up = true
	case "down":
	default:
		return fmt.Errorf("levitate direction %q: %w", cc.Param, errNeedsParam)
	}
	return d.world.ChangeFloor(cc.Caster, up)
}

func illusion(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	return CreateIllusionByName(d.world, cc.Caster, cc.Param, illusionDuration)
}

func conjureItem(_ *Dispatcher, cc *CastContext) error {
	return checkRoom(cc)
}

func conjureFood(d *Dispatcher, cc *CastContext) error {
	idx := 0
	if d.intn != nil {
		idx = d.intn(len(foodItems))
	}
	cc.ConjureID = foodItems[idx]
	return checkRoom(cc)
}

// checkRoom verifies the conjured items fit; the reagent frees one unit.
func checkRoom(cc *CastContext) error {
	c, ok := cc.Caster.(Caster)
	if !ok {
		return errors.New("conjuring requires a player caster")
	}
	need := cc.ConjureCount
	if cs, ok := cc.Ability.(*ConjureSpell); ok && cs.ReagentID() != 0 {
		need--
	}
	if need > 0 && !c.Inventory().CanAdd(need) {
		return fmt.Errorf("conjuring %d x item %d: %w", cc.ConjureCount, cc.ConjureID, model.ErrInventoryFull)
	}
	return nil
}

func runeIllusion(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	itemID, ok := d.world.TopItemAt(cc.Position)
	if !ok {
		return fmt.Errorf("no item at %v: %w", cc.Position, ErrEffectFailed)
	}
	return CreateIllusionByItem(d.world, cc.Caster, itemID, runeIllusionDuration)
}

func convince(d *Dispatcher, cc *CastContext) error {
	if d.world == nil {
		return errNoWorld
	}
	if cc.Target == nil {
		return fmt.Errorf("nothing to convince: %w", ErrEffectFailed)
	}
	return d.world.Convince(cc.Caster, cc.Target)
}

func applyCombat(d *Dispatcher, cc *CastContext) error {
	if d.combat == nil {
		return errors.New("combat engine not configured")
	}
	var desc *CombatDescriptor
	switch a := cc.Ability.(type) {
	case *CombatSpell:
		desc = a.Combat()
	case castable:
		desc = a.spellBase().Combat()
	}
	if desc == nil {
		return errors.New("no combat descriptor")
	}
	if !d.combat.ApplyCombat(desc, cc.Caster, cc.Target, cc.Position) {
		return ErrEffectFailed
	}
	return nil
}

// CreateIllusion changes how c looks for d.
func CreateIllusion(w World, c model.Creature, outfit model.Outfit, d time.Duration) error {
	if err := w.SetIllusion(c, outfit, d); err != nil {
		return fmt.Errorf("creating illusion for %s: %w", c.Name(), err)
	}
	return nil
}

// CreateIllusionByName makes c look like the named creature type.
func CreateIllusionByName(w World, c model.Creature, name string, d time.Duration) error {
	if name == "" {
		return errNeedsParam
	}
	outfit, ok := w.OutfitOf(name)
	if !ok {
		return fmt.Errorf("unknown creature %q: %w", name, ErrEffectFailed)
	}
	return CreateIllusion(w, c, outfit, d)
}

// CreateIllusionByItem makes c look like an item.
func CreateIllusionByItem(w World, c model.Creature, itemID int32, d time.Duration) error {
	if itemID <= 0 {
		return fmt.Errorf("invalid item %d: %w", itemID, ErrEffectFailed)
	}
	return CreateIllusion(w, c, model.Outfit{LookTypeEx: itemID}, d)
}
