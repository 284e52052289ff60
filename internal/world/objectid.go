package world

import "sync/atomic"

// ObjectIDGenerator hands out object ids for creatures spawned at runtime.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: players
//	0x20000000 - 0x2FFFFFFF: monsters and summons
type ObjectIDGenerator struct {
	nextPlayerID  atomic.Uint32
	nextMonsterID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextMonsterID.Store(0x20000000)
	return gen
}

// NextPlayerID returns the next player object id.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextMonsterID returns the next monster object id.
func (g *ObjectIDGenerator) NextMonsterID() uint32 {
	return g.nextMonsterID.Add(1)
}

// IsMonsterID reports whether id lies in the monster range.
func IsMonsterID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}
