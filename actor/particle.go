package actor

import "github.com/go-gl/mathgl/mgl64"

// Particle is a verlet point: velocity is implied by the difference between
// the current and previous positions.
type Particle struct {
	Position         mgl64.Vec3
	PreviousPosition mgl64.Vec3
	// Reset on every Update
	Acceleration mgl64.Vec3
}

// NewParticle creates a particle at rest
func NewParticle(position mgl64.Vec3) Particle {
	return Particle{
		Position:         position,
		PreviousPosition: position,
	}
}

func (p *Particle) Accelerate(a mgl64.Vec3) {
	p.Acceleration = p.Acceleration.Add(a)
}

// ApplyUniformPositionChange translates the particle without changing its velocity
func (p *Particle) ApplyUniformPositionChange(d mgl64.Vec3) {
	p.Position = p.Position.Add(d)
	p.PreviousPosition = p.PreviousPosition.Add(d)
}

// ApplyImpulse changes the implied velocity by j without moving the particle.
// j is a velocity change, callers divide by mass first.
func (p *Particle) ApplyImpulse(j mgl64.Vec3, dt float64) {
	p.PreviousPosition = p.PreviousPosition.Sub(j.Mul(dt))
}

func (p *Particle) CalculateDisplacement() mgl64.Vec3 {
	return p.Position.Sub(p.PreviousPosition)
}

func (p *Particle) CalculateVelocity(dt float64) mgl64.Vec3 {
	return p.CalculateDisplacement().Mul(1.0 / dt)
}

// Update advances one verlet step. displacement is the (already dampened)
// distance travelled during the previous step.
func (p *Particle) Update(dt float64, displacement mgl64.Vec3) {
	p.PreviousPosition = p.Position
	p.Position = p.Position.Add(displacement).Add(p.Acceleration.Mul(dt * dt))
	p.Acceleration = mgl64.Vec3{}
}
