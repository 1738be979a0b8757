package constraint

import (
	"github.com/akmonengine/verlet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	Solve(dt float64) bool
}

func ComputeRestitution(matA, matB actor.Material) float64 {
	// Average, so a bouncy body keeps some bounce against a dull one
	return (matA.Restitution + matB.Restitution) / 2.0
}

// Impulse returns the scalar impulse j along n for two movable bodies.
// n is the direction the first body gets pushed; a positive relative
// velocity along n means the bodies already separate and yields 0.
func Impulse(velocityA, velocityB mgl64.Vec3, massA, massB float64, n mgl64.Vec3, restitution float64) float64 {
	relative := velocityA.Sub(velocityB).Dot(n)
	if relative > 0 {
		return 0
	}
	return -(1 + restitution) * relative / (1/massA + 1/massB)
}

// ImmovableImpulse is Impulse against a body of infinite mass at rest
func ImmovableImpulse(velocity mgl64.Vec3, mass float64, n mgl64.Vec3, restitution float64) float64 {
	relative := velocity.Dot(n)
	if relative > 0 {
		return 0
	}
	return -(1 + restitution) * relative / (1 / mass)
}
