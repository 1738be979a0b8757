package vmath

import "github.com/go-gl/mathgl/mgl64"

// Direction is the sign of a collision normal along one axis
type Direction int8

const (
	DirectionNone Direction = iota
	DirectionPositive
	DirectionNegative
)

// Sign returns -1, 0 or 1
func (d Direction) Sign() float64 {
	switch d {
	case DirectionPositive:
		return 1
	case DirectionNegative:
		return -1
	default:
		return 0
	}
}

// Opposite flips a direction, None stays None
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionPositive:
		return DirectionNegative
	case DirectionNegative:
		return DirectionPositive
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionPositive:
		return "+"
	case DirectionNegative:
		return "-"
	default:
		return "0"
	}
}

// Axis indices into a Vec3 or a Normal
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Normal is an axis-aligned unit direction, one Direction per axis
type Normal [3]Direction

// NormalAlong builds a Normal with a single non-None axis
func NormalAlong(axis int, dir Direction) Normal {
	var n Normal
	n[axis] = dir
	return n
}

// Vec3 returns the sign vector, each component in {-1, 0, 1}
func (n Normal) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{n[0].Sign(), n[1].Sign(), n[2].Sign()}
}

// Opposite flips every axis
func (n Normal) Opposite() Normal {
	return Normal{n[0].Opposite(), n[1].Opposite(), n[2].Opposite()}
}

// IsZero reports whether no axis carries a direction
func (n Normal) IsZero() bool {
	return n == Normal{}
}

func (n Normal) String() string {
	return "(" + n[0].String() + "x " + n[1].String() + "y " + n[2].String() + "z)"
}
