package world

import (
	"sync"

	"github.com/udisondev/otspells/internal/model"
)

// Monster is a non-player creature. Summoned and convinced monsters have a master.
type Monster struct {
	id   uint32
	name string

	mu     sync.RWMutex
	pos    model.Position
	dir    model.Direction
	outfit model.Outfit
	master uint32
}

// NewMonster creates a monster without master.
func NewMonster(id uint32, name string, pos model.Position, outfit model.Outfit) *Monster {
	return &Monster{
		id:     id,
		name:   name,
		pos:    pos,
		dir:    model.South,
		outfit: outfit,
	}
}

func (m *Monster) ObjectID() uint32 { return m.id }
func (m *Monster) Name() string     { return m.name }

func (m *Monster) Position() model.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos
}

func (m *Monster) SetPosition(pos model.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = pos
}

func (m *Monster) Direction() model.Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dir
}

func (m *Monster) SetDirection(d model.Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dir = d
}

func (m *Monster) Outfit() model.Outfit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outfit
}

func (m *Monster) SetOutfit(o model.Outfit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outfit = o
}

// Master returns the object id of the owner, 0 when wild.
func (m *Monster) Master() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.master
}

// claim sets the master if the monster is wild.
func (m *Monster) claim(master uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.master != 0 {
		return false
	}
	m.master = master
	return true
}
