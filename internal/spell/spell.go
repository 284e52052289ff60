// Package spell implements the ability engine: ability definitions, the
// validation pipeline, native/scripted dispatch, exhaustion tracking and the
// Spells registry that routes player speech and rune use to abilities.
//
// The engine assumes a single turn processor: casts are validated and
// dispatched one at a time, and Reload runs between ticks.
package spell

import (
	"slices"
	"time"

	"github.com/udisondev/otspells/internal/model"
)

// Kind tags the concrete ability variant.
type Kind uint8

const (
	KindInstant Kind = iota + 1
	KindConjure
	KindRune
	KindCombat
)

func (k Kind) String() string {
	switch k {
	case KindInstant:
		return "instant"
	case KindConjure:
		return "conjure"
	case KindRune:
		return "rune"
	case KindCombat:
		return "combat"
	default:
		return "unknown"
	}
}

// Ability is one of *InstantSpell, *ConjureSpell, *RuneSpell or *CombatSpell.
type Ability interface {
	Kind() Kind
	Name() string
	// IsInstant separates speech-triggered from item-triggered abilities.
	IsInstant() bool
	// Handler returns the bound effect.
	Handler() Handler
}

// Spell is the castable part shared by instant, conjure and rune abilities:
// costs, restrictions and the bound effect. Immutable after Configure.
type Spell struct {
	name string

	level       int32
	magicLevel  int32
	mana        int32
	manaPercent int32
	soul        int32
	rangeTiles  int32
	vocations   []int32

	enabled          bool
	premium          bool
	learnable        bool
	aggressive       bool
	exhaustion       bool
	needTarget       bool
	needWeapon       bool
	selfTarget       bool
	blockingSolid    bool
	blockingCreature bool

	cooldown time.Duration
	handler  Handler
	combat   *CombatDescriptor
}

func (s *Spell) Name() string            { return s.name }
func (s *Spell) Level() int32            { return s.level }
func (s *Spell) MagicLevel() int32       { return s.magicLevel }
func (s *Spell) Mana() int32             { return s.mana }
func (s *Spell) ManaPercent() int32      { return s.manaPercent }
func (s *Spell) Soul() int32             { return s.soul }
func (s *Spell) Range() int32            { return s.rangeTiles }
func (s *Spell) IsEnabled() bool         { return s.enabled }
func (s *Spell) IsPremium() bool         { return s.premium }
func (s *Spell) IsLearnable() bool       { return s.learnable }
func (s *Spell) IsAggressive() bool      { return s.aggressive }
func (s *Spell) HasExhaustion() bool     { return s.exhaustion }
func (s *Spell) NeedTarget() bool        { return s.needTarget }
func (s *Spell) NeedWeapon() bool        { return s.needWeapon }
func (s *Spell) SelfTarget() bool        { return s.selfTarget }
func (s *Spell) BlockingSolid() bool     { return s.blockingSolid }
func (s *Spell) BlockingCreature() bool  { return s.blockingCreature }
func (s *Spell) Cooldown() time.Duration { return s.cooldown }
func (s *Spell) Handler() Handler        { return s.handler }

// Combat returns the combat descriptor bound to the spell, or nil.
func (s *Spell) Combat() *CombatDescriptor { return s.combat }

// Vocations returns a copy of the allowed vocation ids. Empty means unrestricted.
func (s *Spell) Vocations() []int32 { return slices.Clone(s.vocations) }

// AllowsVocation reports whether vocation may cast the spell.
func (s *Spell) AllowsVocation(vocation int32) bool {
	return len(s.vocations) == 0 || slices.Contains(s.vocations, vocation)
}

// ManaCost returns the mana the caster pays: the absolute cost if set,
// otherwise manaPercent of the caster's maximum mana.
func (s *Spell) ManaCost(c Caster) int32 {
	if s.mana != 0 {
		return s.mana
	}
	if s.manaPercent != 0 {
		return int32(int64(c.MaxMana()) * int64(s.manaPercent) / 100)
	}
	return 0
}

// SoulCost returns the soul points the caster pays.
func (s *Spell) SoulCost(Caster) int32 {
	return s.soul
}

// spellBase gives the pipeline access to the castable part of a variant.
func (s *Spell) spellBase() *Spell { return s }

type castable interface {
	Ability
	spellBase() *Spell
}

// Caster is the player-side state read and charged by the pipeline.
// *model.Player implements it.
type Caster interface {
	model.Creature

	Level() int32
	MagicLevel() int32
	Mana() int32
	MaxMana() int32
	Soul() int32
	Vocation() int32
	IsPremium() bool
	ChangeMana(delta int32)
	ChangeSoul(delta int32)

	Target() model.Creature
	HasLearned(spell string) bool
	HasWeapon() bool
	Inventory() *model.Inventory
	SetInFight(d time.Duration)
}

// CasterPosition returns the tile in front of a creature standing at pos facing dir.
func CasterPosition(pos model.Position, dir model.Direction) model.Position {
	return pos.Step(dir)
}
