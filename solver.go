package verlet

import (
	"fmt"
	"log"
	"slices"

	"github.com/akmonengine/verlet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Solver owns the bodies and the spatial grid and advances them one tick at
// a time. It is not safe for concurrent use: Step needs exclusive access.
type Solver struct {
	// List of all bodies, indexed by the ids handed out to callers
	bodies []actor.Body

	gravity   mgl64.Vec3
	dampening mgl64.Vec3

	grid        *SpatialGrid
	outOfBounds OutOfBoundsPolicy
	workers     int
	iterations  int
	logger      *log.Logger

	events Events

	// Reused between ticks
	pairs []Pair
	seen  map[pairKey]struct{}
}

// NewSolver validates the configuration and takes a copy of its bodies
func NewSolver(config Config) (*Solver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewSpatialGrid(config.GridSize, config.CellSize, config.GridOrigin)
	if err != nil {
		return nil, err
	}

	workers := config.Workers
	if workers == 0 {
		workers = DEFAULT_WORKERS
	}
	iterations := config.Iterations
	if iterations == 0 {
		iterations = DEFAULT_ITERATIONS
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Solver{
		bodies:      slices.Clone(config.Bodies),
		gravity:     config.Gravity,
		dampening:   config.Dampening,
		grid:        grid,
		outOfBounds: config.OutOfBounds,
		workers:     workers,
		iterations:  iterations,
		logger:      logger,
		events:      NewEvents(),
		seen:        make(map[pairKey]struct{}),
	}, nil
}

// Bodies returns the body collection. Callers may mutate bodies in place
// between ticks but must not append to the slice: use AddBody.
func (s *Solver) Bodies() []actor.Body {
	return s.bodies
}

// Body returns the body at index
func (s *Solver) Body(index int) *actor.Body {
	return &s.bodies[index]
}

// AddBody appends a body and returns its index. Existing indices stay valid.
func (s *Solver) AddBody(body actor.Body) (int, error) {
	if err := body.Validate(); err != nil {
		return -1, fmt.Errorf("verlet: add body: %w", err)
	}
	s.bodies = append(s.bodies, body)
	return len(s.bodies) - 1, nil
}

// RemoveBody replaces a body with a None tombstone
func (s *Solver) RemoveBody(index int) {
	s.bodies[index] = actor.None()
	s.events.forget(index)
}

func (s *Solver) Grid() *SpatialGrid {
	return s.grid
}

func (s *Solver) Events() *Events {
	return &s.events
}

func (s *Solver) Gravity() mgl64.Vec3 {
	return s.gravity
}

func (s *Solver) SetGravity(gravity mgl64.Vec3) {
	s.gravity = gravity
}

func (s *Solver) Dampening() mgl64.Vec3 {
	return s.dampening
}

// Step advances the simulation by dt
func (s *Solver) Step(dt float64) {
	if !(dt > 0) {
		panic(fmt.Sprintf("verlet: Step called with dt = %v", dt))
	}

	// Phase 1: Integration
	s.resetTriggers()
	s.integrate(dt)

	// Phase 2.0: Bucketize - Broad phase
	s.bucketize()

	// Phase 2.1: Candidate pairs, merged from every worker
	pairs := s.detectCollision()

	// Phase 3: Response, serial
	NarrowPhase(s.bodies, pairs, dt, s.iterations, &s.events)

	// Phase 4: Compact the grid for the next tick
	s.grid.Clear()

	s.events.flush()
}

func (s *Solver) resetTriggers() {
	for i := range s.bodies {
		if s.bodies[i].IsSensor() {
			s.bodies[i].Collisions = s.bodies[i].Collisions[:0]
		}
	}
}

func (s *Solver) integrate(dt float64) {
	task(s.workers, s.bodies, func(_ int, body *actor.Body) {
		body.Update(s.gravity, s.dampening, dt)
	})
}

// bucketize deposits every body in the grid, handing out-of-grid bodies to
// the out-of-bounds policy first
func (s *Solver) bucketize() {
	for i := 0; i < len(s.bodies); {
		body := &s.bodies[i]
		if body.IsNone() {
			i++
			continue
		}

		if !s.grid.Contains(body.Particle.Position) {
			switch s.handleOutOfBounds(i) {
			case bucketRetry:
				continue
			case bucketSkip:
				i++
				continue
			}
		}

		s.grid.Insert(i, s.bodies[i].AABB())
		i++
	}
}

func (s *Solver) detectCollision() []Pair {
	s.pairs = CollectPairs(BroadPhase(s.grid, s.bodies, s.workers), s.pairs[:0], s.seen)
	return s.pairs
}
