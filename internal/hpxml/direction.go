package hpxml

import (
	"strconv"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
)

// H2K direction codes start at South (1) and step 45 degrees at a time up to
// South-West (8). Code 9 means "not applicable".
const directionCount = 8

// Facade is a side of the house relative to its front.
type Facade int

const (
	Front Facade = iota
	Back
	Left
	Right
)

func (f Facade) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// facades holds the direction code each side of the house faces.
type facades struct {
	codes map[int]Facade
}

// rotate moves a 1-based direction code by steps of 45 degrees.
func rotate(code, steps int) int {
	return ((code-1+steps)%directionCount+directionCount)%directionCount + 1
}

// facadesFor derives the four facade directions from the front direction.
func facadesFor(front int) (facades, error) {
	if front < 1 || front > directionCount {
		return facades{}, &types.InvalidCodeError{
			Field: "House/Specifications/FacingDirection@code",
			Code:  strconv.Itoa(front),
		}
	}
	return facades{codes: map[int]Facade{
		front:             Front,
		rotate(front, 4):  Back,
		rotate(front, 2):  Left,
		rotate(front, -2): Right,
	}}, nil
}

// facadeOf reports which facade a direction code belongs to. Diagonal codes
// belong to none.
func (f facades) facadeOf(code int) (Facade, bool) {
	facade, ok := f.codes[code]
	return facade, ok
}
