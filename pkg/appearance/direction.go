package appearance

import "fmt"

// Direction is one of the four canonical facing directions, numbered the way
// the host engine numbers them.
type Direction uint8

const (
	Back  Direction = 0
	Right Direction = 1
	Front Direction = 2
	Left  Direction = 3

	DirectionCount = 4
)

var directionNames = [DirectionCount]string{"Back", "Right", "Front", "Left"}

// String returns the direction name.
func (d Direction) String() string {
	if d >= DirectionCount {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Valid reports whether d is a canonical direction.
func (d Direction) Valid() bool {
	return d < DirectionCount
}

// Horizontal reports whether d faces left or right.
func (d Direction) Horizontal() bool {
	return d == Right || d == Left
}

// DirectionFromInt clamps a host direction index into range. Values outside
// 0-3 map to Front.
func DirectionFromInt(v int) Direction {
	if v < 0 || v >= DirectionCount {
		return Front
	}
	return Direction(v)
}

// Effective returns the direction whose models apply when the host draws d
// with its flip flag. Sideways facings follow the flag; Back and Front are
// unchanged.
func Effective(d Direction, hostFlip bool) Direction {
	if !d.Horizontal() {
		return d
	}
	if hostFlip {
		return Left
	}
	return Right
}
