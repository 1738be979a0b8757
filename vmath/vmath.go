package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Number is any scalar the grid helpers accept
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp restricts v to [lo, hi]
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AbsOf returns |v| for any signed scalar
func AbsOf[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// ============================================================================
// Grid index <-> position
// ============================================================================

// PositionToIndex2D flattens (x, y) in a row-major grid of the given width
func PositionToIndex2D[I constraints.Integer](x, y, width I) I {
	return y*width + x
}

// IndexToPosition2D is the inverse of PositionToIndex2D
func IndexToPosition2D[I constraints.Integer](index, width I) (x, y I) {
	return index % width, index / width
}

// PositionToIndex3D flattens (x, y, z) with x varying fastest, then y, then z
func PositionToIndex3D[I constraints.Integer](x, y, z I, size [3]I) I {
	return (z*size[1]+y)*size[0] + x
}

// IndexToPosition3D is the inverse of PositionToIndex3D
func IndexToPosition3D[I constraints.Integer](index I, size [3]I) (x, y, z I) {
	x = index % size[0]
	index /= size[0]
	y = index % size[1]
	z = index / size[1]
	return x, y, z
}

// CellOf returns the cell coordinate of a scalar position for a given cell size.
// Negative positions round towards negative infinity. The result saturates
// to the int32 range and NaN maps to the lowest cell.
func CellOf[T Number](position float64, cellSize T) int {
	cell := math.Floor(position / float64(cellSize))
	switch {
	case math.IsNaN(cell) || cell < math.MinInt32:
		return math.MinInt32
	case cell > math.MaxInt32:
		return math.MaxInt32
	}
	return int(cell)
}

// ============================================================================
// Vector helpers missing from mgl64
// ============================================================================

// Hadamard multiplies two vectors component-wise
func Hadamard(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Abs returns the component-wise absolute value
func Abs(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{AbsOf(v[0]), AbsOf(v[1]), AbsOf(v[2])}
}

// ClampVec clamps every component of v into [lo[i], hi[i]]
func ClampVec(v, lo, hi mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		Clamp(v[0], lo[0], hi[0]),
		Clamp(v[1], lo[1], hi[1]),
		Clamp(v[2], lo[2], hi[2]),
	}
}

// IsFinite reports whether no component is NaN or infinite
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
