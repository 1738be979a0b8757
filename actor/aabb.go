package actor

import (
	"github.com/akmonengine/verlet/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box by its corners
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap, touching faces included
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

func (a AABB) Centered() CenteredAABB {
	half := a.Max.Sub(a.Min).Mul(0.5)
	return CenteredAABB{Position: a.Min.Add(half), HalfSize: half}
}

func (a AABB) TopLeft() TopLeftAABB {
	return TopLeftAABB{Position: a.Min, Size: a.Max.Sub(a.Min)}
}

// TopLeftAABB is anchored on its minimum corner. With +y pointing down
// the minimum corner is the top-left-front one.
type TopLeftAABB struct {
	Position mgl64.Vec3
	Size     mgl64.Vec3
}

func (a TopLeftAABB) MinMax() AABB {
	return AABB{Min: a.Position, Max: a.Position.Add(a.Size)}
}

func (a TopLeftAABB) Centered() CenteredAABB {
	half := a.Size.Mul(0.5)
	return CenteredAABB{Position: a.Position.Add(half), HalfSize: half}
}

// Intersects reports whether two top-left boxes overlap, touching included
func (a TopLeftAABB) Intersects(other TopLeftAABB) bool {
	return a.MinMax().Overlaps(other.MinMax())
}

// CenteredAABB is the canonical box form used by bodies: a centre and a
// non-negative half size per axis.
type CenteredAABB struct {
	Position mgl64.Vec3
	HalfSize mgl64.Vec3
}

func (a CenteredAABB) MinMax() AABB {
	return AABB{Min: a.Position.Sub(a.HalfSize), Max: a.Position.Add(a.HalfSize)}
}

func (a CenteredAABB) TopLeft() TopLeftAABB {
	return TopLeftAABB{Position: a.Position.Sub(a.HalfSize), Size: a.HalfSize.Mul(2)}
}

// Intersects is true when the boxes overlap or touch on every axis
func (a CenteredAABB) Intersects(other CenteredAABB) bool {
	distance := vmath.Abs(a.Position.Sub(other.Position))
	reach := a.HalfSize.Add(other.HalfSize)
	for i := 0; i < 3; i++ {
		if distance[i] > reach[i] {
			return false
		}
	}
	return true
}

// ContainsPoint checks if a point lies inside or on the box
func (a CenteredAABB) ContainsPoint(point mgl64.Vec3) bool {
	distance := vmath.Abs(point.Sub(a.Position))
	for i := 0; i < 3; i++ {
		if distance[i] > a.HalfSize[i] {
			return false
		}
	}
	return true
}

// Penetrations returns the six face-to-face overlaps in the order
// +x, +y, +z, -x, -y, -z. The positive entry of an axis is how far the
// max face of a has gone past the min face of other.
func (a CenteredAABB) Penetrations(other CenteredAABB) [6]float64 {
	var p [6]float64
	for i := 0; i < 3; i++ {
		p[i] = (a.Position[i] + a.HalfSize[i]) - (other.Position[i] - other.HalfSize[i])
		p[i+3] = (other.Position[i] + other.HalfSize[i]) - (a.Position[i] - a.HalfSize[i])
	}
	return p
}

// CollisionNormalAndPenetration picks the face with the smallest overlap.
// The normal points from a towards other: moving a by -normal*penetration
// separates the boxes. Ties keep the earliest face in +x, +y, +z, -x, -y, -z
// order. Penetration never goes below zero.
func (a CenteredAABB) CollisionNormalAndPenetration(other CenteredAABB) (vmath.Normal, float64) {
	penetrations := a.Penetrations(other)

	best := 0
	for i := 1; i < len(penetrations); i++ {
		if penetrations[i] < penetrations[best] {
			best = i
		}
	}

	dir := vmath.DirectionPositive
	if best >= 3 {
		dir = vmath.DirectionNegative
	}

	return vmath.NormalAlong(best%3, dir), max(penetrations[best], 0)
}

// CollisionAxisWithDirection tells, per axis, on which side of a the box
// previous lay. An axis on which previous already overlapped a reports None.
func (a CenteredAABB) CollisionAxisWithDirection(previous CenteredAABB) vmath.Normal {
	var n vmath.Normal
	for i := 0; i < 3; i++ {
		reach := a.HalfSize[i] + previous.HalfSize[i]
		delta := previous.Position[i] - a.Position[i]
		switch {
		case delta > reach:
			n[i] = vmath.DirectionPositive
		case delta < -reach:
			n[i] = vmath.DirectionNegative
		}
	}
	return n
}
