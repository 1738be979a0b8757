package verlet

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/verlet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type OutOfBoundsKind uint8

const (
	// OutOfBoundsKindContinueUpdating leaves the body out of the grid: it
	// keeps integrating but collides with nothing
	OutOfBoundsKindContinueUpdating OutOfBoundsKind = iota
	// OutOfBoundsKindSwapRemove moves the last body into the freed index
	OutOfBoundsKindSwapRemove
	// OutOfBoundsKindRemove leaves a None tombstone, indices stay stable
	OutOfBoundsKindRemove
	// OutOfBoundsKindClamp brings the body to rest at the closest point in the grid
	OutOfBoundsKindClamp
	// OutOfBoundsKindTeleport brings the body to rest at a fixed position
	OutOfBoundsKindTeleport
	// OutOfBoundsKindCustom hands the body to a callback
	OutOfBoundsKindCustom
)

// OutOfBoundsFunc may mutate or replace the body. It is bucketized
// afterwards if it ends up inside the grid.
type OutOfBoundsFunc func(index int, body *actor.Body)

// OutOfBoundsPolicy decides what happens to a body whose centre left the grid
type OutOfBoundsPolicy struct {
	Kind     OutOfBoundsKind
	Position mgl64.Vec3
	Callback OutOfBoundsFunc
}

func OutOfBoundsContinueUpdating() OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindContinueUpdating}
}

func OutOfBoundsSwapRemove() OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindSwapRemove}
}

func OutOfBoundsRemove() OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindRemove}
}

func OutOfBoundsClamp() OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindClamp}
}

func OutOfBoundsTeleportTo(position mgl64.Vec3) OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindTeleport, Position: position}
}

func OutOfBoundsCustom(callback OutOfBoundsFunc) OutOfBoundsPolicy {
	return OutOfBoundsPolicy{Kind: OutOfBoundsKindCustom, Callback: callback}
}

func (p OutOfBoundsPolicy) validate() error {
	switch p.Kind {
	case OutOfBoundsKindContinueUpdating, OutOfBoundsKindSwapRemove, OutOfBoundsKindRemove, OutOfBoundsKindClamp:
		return nil
	case OutOfBoundsKindTeleport:
		if math.IsNaN(p.Position.X()) || math.IsNaN(p.Position.Y()) || math.IsNaN(p.Position.Z()) {
			return fmt.Errorf("teleport position %v is NaN", p.Position)
		}
		return nil
	case OutOfBoundsKindCustom:
		if p.Callback == nil {
			return errors.New("custom out-of-bounds policy without a callback")
		}
		return nil
	default:
		return fmt.Errorf("unknown out-of-bounds policy %d", p.Kind)
	}
}

type bucketAction uint8

const (
	bucketInsert bucketAction = iota
	bucketSkip
	// the index now holds another body which must be handled in turn
	bucketRetry
)

// handleOutOfBounds applies the policy to body index, whose centre is
// outside the grid
func (s *Solver) handleOutOfBounds(index int) bucketAction {
	body := &s.bodies[index]

	switch s.outOfBounds.Kind {
	case OutOfBoundsKindSwapRemove:
		s.logger.Printf("verlet: body %d (%s) left the grid at %v, swap removed", index, body.Kind, body.Particle.Position)
		last := len(s.bodies) - 1
		s.events.forget(index)
		if index != last {
			s.bodies[index] = s.bodies[last]
			s.events.rename(last, index)
		}
		s.bodies[last] = actor.Body{}
		s.bodies = s.bodies[:last]
		return bucketRetry

	case OutOfBoundsKindRemove:
		s.logger.Printf("verlet: body %d (%s) left the grid at %v, removed", index, body.Kind, body.Particle.Position)
		s.RemoveBody(index)
		return bucketSkip

	case OutOfBoundsKindClamp:
		body.Teleport(s.grid.ClampInside(body.Particle.Position))

	case OutOfBoundsKindTeleport:
		body.Teleport(s.outOfBounds.Position)

	case OutOfBoundsKindCustom:
		s.outOfBounds.Callback(index, body)
		if body.IsNone() {
			s.events.forget(index)
			return bucketSkip
		}

	default:
		return bucketSkip
	}

	if !s.grid.Contains(body.Particle.Position) {
		return bucketSkip
	}
	return bucketInsert
}
