package constraint

import (
	"fmt"

	"github.com/akmonengine/verlet/actor"
	"github.com/akmonengine/verlet/vmath"
)

// Contact is a detected pair. BodyL is always dynamic, BodyR may be of any
// kind but None. The pointers must reference distinct bodies.
type Contact struct {
	IndexL int
	IndexR int
	BodyL  *actor.Body
	BodyR  *actor.Body
}

// Solve runs the response rule of the pair and reports whether the bodies
// were still in contact, or for a trigger whether the overlap was recorded.
// Solving a pair that was already separated is a no-op.
func (c *Contact) Solve(dt float64) bool {
	l, r := c.BodyL, c.BodyR
	if c.IndexL == c.IndexR || l == r {
		panic(fmt.Sprintf("constraint: body %d paired with itself", c.IndexL))
	}

	switch {
	case l.IsDynamic() && r.IsDynamic():
		return c.solveDynamic(dt)
	case l.IsDynamic() && r.Kind == actor.BodyKindStaticCuboid:
		return c.solveStatic(dt)
	case l.IsDynamic() && r.IsSensor():
		return c.record()
	default:
		panic(fmt.Sprintf("constraint: no response between %s %d and %s %d", l.Kind, c.IndexL, r.Kind, c.IndexR))
	}
}

// IsTrigger reports whether the pair only records a trigger overlap
func (c *Contact) IsTrigger() bool {
	return c.BodyR.IsSensor()
}

func (c *Contact) solveDynamic(dt float64) bool {
	l, r := c.BodyL, c.BodyR
	if !l.Detect(r) {
		return false
	}

	normal, penetration := l.AABB().CollisionNormalAndPenetration(r.AABB())
	n := normal.Vec3()

	// ========== 1. Positional correction, split evenly ==========
	correction := n.Mul(penetration / 2)
	l.Particle.ApplyUniformPositionChange(correction.Mul(-1))
	r.Particle.ApplyUniformPositionChange(correction)

	// ========== 2. Equal and opposite impulses ==========
	separation := n.Mul(-1)
	restitution := ComputeRestitution(l.Material, r.Material)
	j := Impulse(l.Velocity(dt), r.Velocity(dt), l.Material.Mass, r.Material.Mass, separation, restitution)
	if j != 0 {
		l.Particle.ApplyImpulse(separation.Mul(j/l.Material.Mass), dt)
		r.Particle.ApplyImpulse(separation.Mul(-j/r.Material.Mass), dt)
	}

	// ========== 3. Grounded state ==========
	switch normal[vmath.AxisY] {
	case vmath.DirectionPositive:
		ground(l)
	case vmath.DirectionNegative:
		ground(r)
	}

	return true
}

func (c *Contact) solveStatic(dt float64) bool {
	l, r := c.BodyL, c.BodyR
	if !l.Detect(r) {
		return false
	}

	normal, penetration := l.AABB().CollisionNormalAndPenetration(r.AABB())
	n := normal.Vec3()

	l.Particle.ApplyUniformPositionChange(n.Mul(-penetration))

	separation := n.Mul(-1)
	restitution := ComputeRestitution(l.Material, r.Material)
	if j := ImmovableImpulse(l.Velocity(dt), l.Material.Mass, separation, restitution); j != 0 {
		l.Particle.ApplyImpulse(separation.Mul(j/l.Material.Mass), dt)
	}

	if normal[vmath.AxisY] == vmath.DirectionPositive {
		ground(l)
	}

	return true
}

func (c *Contact) record() bool {
	l, r := c.BodyL, c.BodyR
	if !l.Detect(r) {
		return false
	}

	predicate := r.Predicate
	if predicate == nil {
		predicate = actor.AcceptSolids
	}
	if !predicate(c.IndexL, l) {
		return false
	}
	r.Collisions = append(r.Collisions, c.IndexL)

	return true
}

// ground flags a player whose bottom face (+y is down) rests on something
func ground(b *actor.Body) {
	if b.Kind == actor.BodyKindPlayer {
		b.Grounded = true
	}
}
