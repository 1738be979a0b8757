package verlet

import (
	"github.com/akmonengine/verlet/actor"
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is what a renderer needs to draw one body as a unit cube
type Instance struct {
	Index int
	Kind  actor.BodyKind
	Model mgl32.Mat4
}

// Instances appends one Instance per live body to dst and returns it.
// Passing the previous frame's slice back avoids reallocating.
func (s *Solver) Instances(dst []Instance) []Instance {
	dst = dst[:0]
	for i := range s.bodies {
		body := &s.bodies[i]
		if body.IsNone() {
			continue
		}

		p := body.Particle.Position
		h := body.HalfExtents
		model := mgl32.Translate3D(float32(p[0]), float32(p[1]), float32(p[2])).
			Mul4(mgl32.Scale3D(float32(2*h[0]), float32(2*h[1]), float32(2*h[2])))

		dst = append(dst, Instance{Index: i, Kind: body.Kind, Model: model})
	}
	return dst
}
