package geo

import (
	"sync"

	"github.com/udisondev/otspells/internal/model"
)

// TileFlags describe what a tile blocks.
type TileFlags uint8

const (
	// Solid tiles cannot hold creatures or fields (walls, water, trees).
	Solid TileFlags = 1 << iota
	// BlockProjectile tiles stop missiles and line of sight.
	BlockProjectile
)

// Grid stores blocking flags per tile. Tiles that were never set are open.
//
// Thread-safe: protected by sync.RWMutex.
type Grid struct {
	mu    sync.RWMutex
	tiles map[model.Position]TileFlags
}

// NewGrid creates an empty, fully open grid.
func NewGrid() *Grid {
	return &Grid{tiles: make(map[model.Position]TileFlags)}
}

// Set replaces the flags of a tile. Zero flags clear the tile.
func (g *Grid) Set(pos model.Position, flags TileFlags) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if flags == 0 {
		delete(g.tiles, pos)
		return
	}
	g.tiles[pos] = flags
}

// Flags returns the flags of a tile.
func (g *Grid) Flags(pos model.Position) TileFlags {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tiles[pos]
}

// IsSolid reports whether the tile blocks creatures.
func (g *Grid) IsSolid(pos model.Position) bool {
	return g.Flags(pos)&Solid != 0
}

// CanSeeTarget checks line of sight between two tiles on the same floor.
// Start and end tiles never block; any tile in between with BlockProjectile does.
func (g *Grid) CanSeeTarget(from, to model.Position) bool {
	if !from.SameFloor(to) {
		return false
	}
	if from.X == to.X && from.Y == to.Y {
		return true
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	it := NewLineIterator(from.X, from.Y, to.X, to.Y)
	it.Next() // skip start tile
	for it.Next() {
		if it.AtTarget() {
			break
		}
		if g.tiles[model.Pos(it.X(), it.Y(), from.Z)]&BlockProjectile != 0 {
			return false
		}
	}
	return true
}
