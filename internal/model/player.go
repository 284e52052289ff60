package model

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Player is an in-memory player character.
// Exposes the level, mana, soul and vocation state read and charged by spells.
//
// Thread-safe: state is protected by sync.RWMutex.
type Player struct {
	objectID uint32
	name     string

	mu         sync.RWMutex
	level      int32
	magicLevel int32
	mana       int32
	maxMana    int32
	soul       int32
	maxSoul    int32
	vocation   int32
	premium    bool
	position   Position
	direction  Direction
	target     Creature
	weapon     bool
	outfit     Outfit
	inFight    time.Time
	learned    map[string]struct{}

	inventory *Inventory
	now       func() time.Time
}

// NewPlayer creates a player with full mana and soul.
func NewPlayer(objectID uint32, name string, vocation, level, magicLevel, maxMana int32) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player %d: empty name", objectID)
	}
	if level < 1 {
		return nil, fmt.Errorf("player %q: level must be >= 1, got %d", name, level)
	}
	return &Player{
		objectID:   objectID,
		name:       name,
		level:      level,
		magicLevel: magicLevel,
		mana:       maxMana,
		maxMana:    maxMana,
		soul:       100,
		maxSoul:    100,
		vocation:   vocation,
		learned:    make(map[string]struct{}),
		inventory:  NewInventory(0),
		now:        time.Now,
	}, nil
}

func (p *Player) ObjectID() uint32 { return p.objectID }
func (p *Player) Name() string     { return p.name }

func (p *Player) Level() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *Player) MagicLevel() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.magicLevel
}

func (p *Player) Mana() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mana
}

func (p *Player) MaxMana() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxMana
}

func (p *Player) Soul() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.soul
}

func (p *Player) Vocation() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vocation
}

func (p *Player) IsPremium() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.premium
}

// ChangeMana adds delta to current mana, clamped to [0, maxMana].
func (p *Player) ChangeMana(delta int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mana = min(max(p.mana+delta, 0), p.maxMana)
}

// ChangeSoul adds delta to current soul points, clamped to [0, maxSoul].
func (p *Player) ChangeSoul(delta int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soul = min(max(p.soul+delta, 0), p.maxSoul)
}

// SetMana sets current mana without clamping to maxMana.
func (p *Player) SetMana(mana int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mana = mana
}

// SetMaxMana sets maximum mana.
func (p *Player) SetMaxMana(maxMana int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxMana = maxMana
}

// SetSoul sets current soul points.
func (p *Player) SetSoul(soul int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soul = soul
}

// SetPremium toggles the premium account flag.
func (p *Player) SetPremium(premium bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.premium = premium
}

func (p *Player) Position() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition moves the player to pos.
func (p *Player) SetPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

func (p *Player) Direction() Direction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.direction
}

// SetDirection turns the player.
func (p *Player) SetDirection(d Direction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.direction = d
}

// Target returns the currently attacked creature or nil.
func (p *Player) Target() Creature {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.target
}

// SetTarget sets the attacked creature (nil clears).
func (p *Player) SetTarget(c Creature) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = c
}

// HasWeapon reports whether a weapon is equipped.
func (p *Player) HasWeapon() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.weapon
}

// SetWeapon equips or unequips a weapon.
func (p *Player) SetWeapon(equipped bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weapon = equipped
}

// Learn marks a spell as learned. Names are case-insensitive.
func (p *Player) Learn(spell string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.learned[strings.ToLower(spell)] = struct{}{}
}

// HasLearned reports whether the spell was learned.
func (p *Player) HasLearned(spell string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.learned[strings.ToLower(spell)]
	return ok
}

// Inventory returns the carried items.
func (p *Player) Inventory() *Inventory {
	return p.inventory
}

// Outfit returns the current appearance.
func (p *Player) Outfit() Outfit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outfit
}

// SetOutfit changes the appearance.
func (p *Player) SetOutfit(o Outfit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outfit = o
}

// SetInFight marks the player as in combat for d. An existing longer mark is kept.
func (p *Player) SetInFight(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	until := p.now().Add(d)
	if until.After(p.inFight) {
		p.inFight = until
	}
}

// InFight reports whether the player is currently marked as in combat.
func (p *Player) InFight() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.now().Before(p.inFight)
}
