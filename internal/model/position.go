package model

// Direction is the facing of a creature.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
	SouthWest
	SouthEast
	NorthWest
	NorthEast
)

// String returns the lower-case compass name used in player messages.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case SouthWest:
		return "south-west"
	case SouthEast:
		return "south-east"
	case NorthWest:
		return "north-west"
	case NorthEast:
		return "north-east"
	default:
		return "unknown"
	}
}

// Position is a tile coordinate. Z is the floor.
// Value type, passed by value.
type Position struct {
	X int32
	Y int32
	Z int32
}

// Pos creates a Position.
func Pos(x, y, z int32) Position {
	return Position{X: x, Y: y, Z: z}
}

// Step returns the adjacent tile in direction d on the same floor.
func (p Position) Step(d Direction) Position {
	switch d {
	case North:
		p.Y--
	case East:
		p.X++
	case South:
		p.Y++
	case West:
		p.X--
	case SouthWest:
		p.X--
		p.Y++
	case SouthEast:
		p.X++
		p.Y++
	case NorthWest:
		p.X--
		p.Y--
	case NorthEast:
		p.X++
		p.Y--
	}
	return p
}

// Distance returns the tile distance (Chebyshev) on the XY plane, ignoring floors.
func (p Position) Distance(other Position) int32 {
	return max(abs32(p.X-other.X), abs32(p.Y-other.Y))
}

// SameFloor reports whether both positions are on the same floor.
func (p Position) SameFloor(other Position) bool {
	return p.Z == other.Z
}

// DirectionTo returns the compass direction from p towards other.
// Returns false when both positions share X and Y.
func (p Position) DirectionTo(other Position) (Direction, bool) {
	dx := other.X - p.X
	dy := other.Y - p.Y
	if dx == 0 && dy == 0 {
		return North, false
	}

	// Within a 1:2.5 slope the direction counts as straight.
	ax, ay := abs32(dx), abs32(dy)
	switch {
	case ay*5 <= ax*2:
		if dx > 0 {
			return East, true
		}
		return West, true
	case ax*5 <= ay*2:
		if dy > 0 {
			return South, true
		}
		return North, true
	case dx > 0 && dy > 0:
		return SouthEast, true
	case dx > 0:
		return NorthEast, true
	case dy > 0:
		return SouthWest, true
	default:
		return NorthWest, true
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
