package actor

import (
	"fmt"
	"math"

	"github.com/akmonengine/verlet/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyKind tags the variant held by a Body
type BodyKind uint8

const (
	// BodyKindNone is a tombstone left by a removed body. It keeps the
	// indices of the other bodies stable.
	BodyKindNone BodyKind = iota

	// BodyKindPlayer is a dynamic box that tracks whether it stands on something
	BodyKindPlayer

	// BodyKindCuboid is a plain dynamic box
	BodyKindCuboid

	// BodyKindStaticCuboid never moves and has infinite mass (ground, walls)
	BodyKindStaticCuboid

	// BodyKindTriggerCuboid never moves and records the solids overlapping it
	// without pushing them
	BodyKindTriggerCuboid
)

func (k BodyKind) String() string {
	switch k {
	case BodyKindNone:
		return "None"
	case BodyKindPlayer:
		return "Player"
	case BodyKindCuboid:
		return "Cuboid"
	case BodyKindStaticCuboid:
		return "StaticCuboid"
	case BodyKindTriggerCuboid:
		return "TriggerCuboid"
	default:
		return fmt.Sprintf("BodyKind(%d)", uint8(k))
	}
}

const DefaultRestitution = 0.5

type Material struct {
	Mass        float64
	Friction    float64 // 0 = no friction, 1 = grounded player stops at once. Player only.
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
}

// TriggerPredicate decides whether a solid body counts as a trigger collision
type TriggerPredicate func(index int, body *Body) bool

// AcceptSolids is the default trigger predicate
func AcceptSolids(_ int, body *Body) bool {
	return body.IsSolid()
}

// Body is a tagged union over every body kind. Fields that do not apply to
// the current Kind are left at their zero value.
type Body struct {
	Kind BodyKind

	// Static and trigger bodies keep PreviousPosition == Position
	Particle    Particle
	HalfExtents mgl64.Vec3

	Material Material
	// Per-axis factor in [0,1] applied to the displacement, on top of the
	// solver's dampening. Dynamic bodies only.
	Dampening mgl64.Vec3

	// Player only: set when the player rests on top of another solid
	Grounded bool

	// Trigger only
	Predicate  TriggerPredicate
	Collisions []int
}

// NewPlayer creates a player at rest
func NewPlayer(position, halfExtents mgl64.Vec3, mass float64) Body {
	return Body{
		Kind:        BodyKindPlayer,
		Particle:    NewParticle(position),
		HalfExtents: halfExtents,
		Material:    Material{Mass: mass, Restitution: DefaultRestitution},
		Dampening:   mgl64.Vec3{1, 1, 1},
	}
}

// NewCuboid creates a dynamic box at rest
func NewCuboid(position, halfExtents mgl64.Vec3, mass float64) Body {
	return Body{
		Kind:        BodyKindCuboid,
		Particle:    NewParticle(position),
		HalfExtents: halfExtents,
		Material:    Material{Mass: mass, Restitution: DefaultRestitution},
		Dampening:   mgl64.Vec3{1, 1, 1},
	}
}

func NewStaticCuboid(position, halfExtents mgl64.Vec3) Body {
	return Body{
		Kind:        BodyKindStaticCuboid,
		Particle:    NewParticle(position),
		HalfExtents: halfExtents,
		Material:    Material{Mass: math.Inf(1), Restitution: DefaultRestitution},
	}
}

// NewTriggerCuboid creates a sensor box. A nil predicate accepts every solid.
func NewTriggerCuboid(position, halfExtents mgl64.Vec3, predicate TriggerPredicate) Body {
	if predicate == nil {
		predicate = AcceptSolids
	}
	return Body{
		Kind:        BodyKindTriggerCuboid,
		Particle:    NewParticle(position),
		HalfExtents: halfExtents,
		Material:    Material{Mass: math.Inf(1)},
		Predicate:   predicate,
	}
}

// None returns a tombstone
func None() Body {
	return Body{Kind: BodyKindNone}
}

// Validate reports bodies that could never be simulated correctly
func (b *Body) Validate() error {
	if b.Kind > BodyKindTriggerCuboid {
		return fmt.Errorf("unknown body kind %d", b.Kind)
	}
	if b.IsNone() {
		return nil
	}
	for i := 0; i < 3; i++ {
		if !(b.HalfExtents[i] >= 0) {
			return fmt.Errorf("%s half extents %v must be non-negative", b.Kind, b.HalfExtents)
		}
	}
	if !vmath.IsFinite(b.Particle.Position) || !vmath.IsFinite(b.Particle.PreviousPosition) {
		return fmt.Errorf("%s position %v is not finite", b.Kind, b.Particle.Position)
	}
	if b.IsDynamic() {
		if !(b.Material.Mass > 0) || math.IsInf(b.Material.Mass, 1) {
			return fmt.Errorf("%s mass %v must be positive and finite", b.Kind, b.Material.Mass)
		}
		for i := 0; i < 3; i++ {
			if b.Dampening[i] < 0 || b.Dampening[i] > 1 {
				return fmt.Errorf("%s dampening %v must lie in [0,1]", b.Kind, b.Dampening)
			}
		}
	}
	return nil
}

func (b *Body) IsNone() bool {
	return b.Kind == BodyKindNone
}

// IsDynamic reports whether the integrator moves the body
func (b *Body) IsDynamic() bool {
	return b.Kind == BodyKindPlayer || b.Kind == BodyKindCuboid
}

// IsActive reports whether the body drives pair detection. Static and
// trigger bodies are only ever the other side of a pair.
func (b *Body) IsActive() bool {
	return b.IsDynamic()
}

func (b *Body) IsSensor() bool {
	return b.Kind == BodyKindTriggerCuboid
}

// IsSolid reports whether the body pushes other solids away
func (b *Body) IsSolid() bool {
	return b.Kind == BodyKindPlayer || b.Kind == BodyKindCuboid || b.Kind == BodyKindStaticCuboid
}

func (b *Body) mustNotBeNone(operation string) {
	if b.IsNone() {
		panic(fmt.Sprintf("actor: %s called on a None body", operation))
	}
}

func (b *Body) Position() mgl64.Vec3 {
	b.mustNotBeNone("Position")
	return b.Particle.Position
}

func (b *Body) HalfSize() mgl64.Vec3 {
	b.mustNotBeNone("HalfSize")
	return b.HalfExtents
}

func (b *Body) AABB() CenteredAABB {
	b.mustNotBeNone("AABB")
	return CenteredAABB{Position: b.Particle.Position, HalfSize: b.HalfExtents}
}

// PreviousAABB is the box at the start of the current step
func (b *Body) PreviousAABB() CenteredAABB {
	b.mustNotBeNone("PreviousAABB")
	return CenteredAABB{Position: b.Particle.PreviousPosition, HalfSize: b.HalfExtents}
}

// Detect is the narrow-phase overlap test
func (b *Body) Detect(other *Body) bool {
	return b.AABB().Intersects(other.AABB())
}

// Velocity returns the implied velocity over a step of dt
func (b *Body) Velocity(dt float64) mgl64.Vec3 {
	b.mustNotBeNone("Velocity")
	return b.Particle.CalculateVelocity(dt)
}

// SetVelocity rewrites the previous position so the body moves at v over the next step of dt
func (b *Body) SetVelocity(v mgl64.Vec3, dt float64) {
	if !b.IsDynamic() {
		return
	}
	b.Particle.PreviousPosition = b.Particle.Position.Sub(v.Mul(dt))
}

// Accelerate adds an acceleration applied on the next Update
func (b *Body) Accelerate(a mgl64.Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.Particle.Accelerate(a)
}

// Teleport moves the body to position and brings it to rest
func (b *Body) Teleport(position mgl64.Vec3) {
	b.mustNotBeNone("Teleport")
	b.Particle.Position = position
	b.Particle.PreviousPosition = position
}

// Update integrates a dynamic body over dt. Other kinds are left untouched.
func (b *Body) Update(gravity, dampening mgl64.Vec3, dt float64) {
	if !b.IsDynamic() {
		return
	}

	b.Particle.Accelerate(gravity)

	damp := vmath.Hadamard(dampening, b.Dampening)
	if b.Kind == BodyKindPlayer && b.Grounded && b.Material.Friction > 0 {
		keep := 1 - vmath.Clamp(b.Material.Friction, 0, 1)
		damp[vmath.AxisX] *= keep
		damp[vmath.AxisZ] *= keep
	}

	b.Particle.Update(dt, vmath.Hadamard(b.Particle.CalculateDisplacement(), damp))
	b.Grounded = false
}
