package verlet

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// SubstepPolicy decides what Advance does once a frame needs more than
// MaxSubsteps steps to catch up
type SubstepPolicy uint8

const (
	// SubstepAbort drops the backlog and returns ErrSubstepCapExceeded
	SubstepAbort SubstepPolicy = iota
	// SubstepWarn drops the backlog and logs a warning
	SubstepWarn
	// SubstepUnbounded steps until the accumulator is drained
	SubstepUnbounded
)

var ErrSubstepCapExceeded = errors.New("verlet: substep cap exceeded")

// Steppable is anything advanced in fixed ticks, usually a *Solver
type Steppable interface {
	Step(dt float64)
}

// Stepper runs a Steppable at a fixed timestep from variable frame times
type Stepper struct {
	target      Steppable
	dt          float64
	maxSubsteps int
	policy      SubstepPolicy
	logger      *log.Logger

	accumulator float64
}

// NewStepper wraps target. maxSubsteps is ignored by SubstepUnbounded.
// A nil logger means log.Default().
func NewStepper(target Steppable, dt float64, maxSubsteps int, policy SubstepPolicy, logger *log.Logger) (*Stepper, error) {
	if target == nil {
		return nil, errors.New("verlet: stepper needs a target")
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return nil, fmt.Errorf("verlet: invalid fixed timestep %v", dt)
	}
	if policy > SubstepUnbounded {
		return nil, fmt.Errorf("verlet: unknown substep policy %d", policy)
	}
	if policy != SubstepUnbounded && maxSubsteps <= 0 {
		return nil, fmt.Errorf("verlet: max substeps must be positive, got %d", maxSubsteps)
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Stepper{
		target:      target,
		dt:          dt,
		maxSubsteps: maxSubsteps,
		policy:      policy,
		logger:      logger,
	}, nil
}

// Advance adds frameTime to the accumulator and steps while a whole dt is
// available. It returns the number of steps taken.
func (s *Stepper) Advance(frameTime float64) (int, error) {
	if frameTime > 0 {
		s.accumulator += frameTime
	}

	steps := 0
	for s.accumulator >= s.dt {
		if s.policy != SubstepUnbounded && steps >= s.maxSubsteps {
			backlog := s.accumulator
			s.accumulator = math.Mod(s.accumulator, s.dt)

			if s.policy == SubstepAbort {
				return steps, fmt.Errorf("%w: %d substeps taken, %.4fs behind", ErrSubstepCapExceeded, steps, backlog)
			}
			s.logger.Printf("verlet: substep cap of %d exceeded, dropping %.4fs", s.maxSubsteps, backlog-s.accumulator)
			return steps, nil
		}

		s.target.Step(s.dt)
		s.accumulator -= s.dt
		steps++
	}

	return steps, nil
}

// Alpha is the fraction of a step left in the accumulator, in [0,1), for
// interpolating rendered positions between ticks
func (s *Stepper) Alpha() float64 {
	return s.accumulator / s.dt
}

func (s *Stepper) Dt() float64 {
	return s.dt
}
