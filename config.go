package verlet

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/akmonengine/verlet/actor"
	"github.com/akmonengine/verlet/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// DEFAULT_ITERATIONS response passes per tick. One pass resolves isolated
// pairs, more passes settle bodies pushed into a third one.
const DEFAULT_ITERATIONS = 4

var ErrInvalidConfig = errors.New("verlet: invalid configuration")

type Config struct {
	// Gravity acceleration, +y points down
	Gravity mgl64.Vec3
	// Per-axis factor in [0,1] applied to every dynamic displacement
	Dampening mgl64.Vec3

	// Cells per axis
	GridSize [3]int
	// World units per cell
	CellSize [3]int
	// World position of the grid's minimum corner
	GridOrigin mgl64.Vec3

	OutOfBounds OutOfBoundsPolicy

	Bodies []actor.Body

	// Goroutines used by integration and detection. 0 means DEFAULT_WORKERS.
	Workers int
	// Response passes per tick. 0 means DEFAULT_ITERATIONS.
	Iterations int

	// Receives removals of out-of-grid bodies. nil means log.Default().
	Logger *log.Logger
}

// DefaultConfig returns a 10x10x10 grid of 5 unit cells centred on the
// origin, gravity of 50 downwards and horizontal dampening of 0.8.
func DefaultConfig() Config {
	return Config{
		Gravity:     mgl64.Vec3{0, 50, 0},
		Dampening:   mgl64.Vec3{0.8, 1, 0.8},
		GridSize:    [3]int{10, 10, 10},
		CellSize:    [3]int{5, 5, 5},
		GridOrigin:  mgl64.Vec3{-25, -25, -25},
		OutOfBounds: OutOfBoundsContinueUpdating(),
		Workers:     runtime.GOMAXPROCS(0),
		Iterations:  DEFAULT_ITERATIONS,
	}
}

// Validate reports the first configuration error, wrapping ErrInvalidConfig
func (c Config) Validate() error {
	if !vmath.IsFinite(c.Gravity) {
		return fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfig, c.Gravity)
	}
	for i := 0; i < 3; i++ {
		if !(c.Dampening[i] >= 0 && c.Dampening[i] <= 1) {
			return fmt.Errorf("%w: dampening %v must lie in [0,1]", ErrInvalidConfig, c.Dampening)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: negative iteration count %d", ErrInvalidConfig, c.Iterations)
	}
	if err := c.OutOfBounds.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i := range c.Bodies {
		if err := c.Bodies[i].Validate(); err != nil {
			return fmt.Errorf("%w: body %d: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}
