package spell

import "github.com/udisondev/otspells/internal/model"

// checkCommon runs the preconditions shared by every castable ability, in
// order: enabled, level, magic level, vocation, premium, exhaustion, mana, soul.
func (s *Spells) checkCommon(c Caster, sp *Spell, cat Category) Reason {
	switch {
	case !sp.enabled:
		return ReasonDisabled
	case c.Level() < sp.level:
		return ReasonLevel
	case c.MagicLevel() < sp.magicLevel:
		return ReasonMagicLevel
	case !sp.AllowsVocation(c.Vocation()):
		return ReasonVocation
	case sp.premium && !c.IsPremium():
		return ReasonPremium
	case s.cooldowns.IsExhausted(CooldownOwner(c), cat):
		return ReasonExhausted
	case c.Mana() < sp.ManaCost(c):
		return ReasonNotEnoughMana
	case c.Soul() < sp.SoulCost(c):
		return ReasonNotEnoughSoul
	}
	return ReasonNone
}

// checkInstant runs the instant-specific checks and resolves the target
// creature (may be nil) and the position the effect applies to.
func (s *Spells) checkInstant(c Caster, sp *InstantSpell, conj *ConjureSpell, param string) (model.Creature, model.Position, Reason) {
	pos := c.Position()

	if sp.learnable && !c.HasLearned(sp.Name()) {
		return nil, pos, ReasonNotLearned
	}
	if sp.needWeapon && !c.HasWeapon() {
		return nil, pos, ReasonNeedWeapon
	}
	if conj != nil {
		need := conj.conjureCount
		if conj.reagentID != 0 {
			if c.Inventory().Count(conj.reagentID) < 1 {
				return nil, pos, ReasonMissingReagent
			}
			need--
		}
		if need > 0 && !c.Inventory().CanAdd(need) {
			return nil, pos, ReasonNoRoom
		}
	}

	if sp.needDirection {
		front := CasterPosition(pos, c.Direction())
		if sp.blockingSolid && s.tileBlocked(front) {
			return nil, pos, ReasonTileBlocked
		}
		return nil, front, ReasonNone
	}

	// Self-targeted spells never take another creature as target.
	if sp.selfTarget {
		return c, pos, ReasonNone
	}

	// Only spells aimed at a creature look at targets at all.
	if !sp.needTarget && !sp.casterTargetOrDirection {
		return nil, pos, ReasonNone
	}

	// A named player overrides the current target.
	target := c.Target()
	if sp.HasParam && param != "" {
		target = s.findPlayer(param)
		if target == nil {
			return nil, pos, ReasonNeedTarget
		}
	}

	if target == nil {
		if sp.needTarget {
			return nil, pos, ReasonNeedTarget
		}
		// casterTargetOrDirection: fall back to the tile in front.
		front := CasterPosition(pos, c.Direction())
		if sp.blockingSolid && s.tileBlocked(front) {
			return nil, pos, ReasonTileBlocked
		}
		return nil, front, ReasonNone
	}

	tpos := target.Position()
	if target.ObjectID() != c.ObjectID() {
		if !pos.SameFloor(tpos) || (sp.rangeTiles > 0 && pos.Distance(tpos) > sp.rangeTiles) {
			return nil, pos, ReasonOutOfRange
		}
		if sp.checkLineOfSight && !s.sightClear(pos, tpos) {
			return nil, pos, ReasonSightBlocked
		}
	}
	return target, tpos, ReasonNone
}

// checkRune runs the rune-specific checks and resolves the creature standing
// on the destination tile (may be nil).
func (s *Spells) checkRune(c Caster, sp *RuneSpell, item *model.Item, to model.Position) (model.Creature, Reason) {
	if r := sp.Accepts(item); r != ReasonNone {
		return nil, r
	}
	if sp.needWeapon && !c.HasWeapon() {
		return nil, ReasonNeedWeapon
	}

	from := c.Position()
	if !from.SameFloor(to) || (sp.rangeTiles > 0 && from.Distance(to) > sp.rangeTiles) {
		return nil, ReasonOutOfRange
	}
	if !s.sightClear(from, to) {
		return nil, ReasonSightBlocked
	}
	if sp.blockingSolid && s.tileBlocked(to) {
		return nil, ReasonTileBlocked
	}

	target := s.creatureAt(to)
	if target == nil && to == from {
		target = c
	}

	switch {
	case sp.blockingCreature && target != nil:
		return nil, ReasonCreatureBlocking
	case sp.needTarget && target == nil:
		return nil, ReasonNeedTarget
	case sp.selfTarget && (target == nil || target.ObjectID() != c.ObjectID()):
		return nil, ReasonSelfOnly
	}
	return target, ReasonNone
}

func (s *Spells) findPlayer(name string) model.Creature {
	w := s.dispatcher.world
	if w == nil {
		return nil
	}
	if p, ok := w.FindPlayer(name); ok {
		return p
	}
	return nil
}

func (s *Spells) tileBlocked(pos model.Position) bool {
	w := s.dispatcher.world
	return w != nil && w.IsTileBlocked(pos)
}

func (s *Spells) sightClear(from, to model.Position) bool {
	w := s.dispatcher.world
	return w == nil || w.IsSightClear(from, to)
}

func (s *Spells) creatureAt(pos model.Position) model.Creature {
	w := s.dispatcher.world
	if w == nil {
		return nil
	}
	if cr, ok := w.CreatureAt(pos); ok {
		return cr
	}
	return nil
}
