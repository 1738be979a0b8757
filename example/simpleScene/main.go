package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/verlet"
	"github.com/akmonengine/verlet/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed scene.yaml
var defaultScene []byte

type sceneGrid struct {
	Size   [3]int     `yaml:"size"`
	Cell   [3]int     `yaml:"cell"`
	Origin [3]float64 `yaml:"origin"`
}

type sceneBody struct {
	Kind        string     `yaml:"kind"`
	Position    [3]float64 `yaml:"position"`
	Half        [3]float64 `yaml:"half"`
	Mass        float64    `yaml:"mass,omitempty"`
	Friction    float64    `yaml:"friction,omitempty"`
	Restitution float64    `yaml:"restitution,omitempty"`
}

// Scene is the YAML description of a world
type Scene struct {
	Gravity       [3]float64  `yaml:"gravity"`
	Dampening     [3]float64  `yaml:"dampening"`
	Grid          sceneGrid   `yaml:"grid"`
	OutOfBounds   string      `yaml:"outOfBounds"`
	Dt            float64     `yaml:"dt"`
	MaxSubsteps   int         `yaml:"maxSubsteps"`
	SubstepPolicy string      `yaml:"substepPolicy"`
	Bodies        []sceneBody `yaml:"bodies"`
}

func loadScene(path string) (Scene, error) {
	data := defaultScene
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Scene{}, err
		}
	}

	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	return scene, nil
}

func (b sceneBody) build() (actor.Body, error) {
	position, half := mgl64.Vec3(b.Position), mgl64.Vec3(b.Half)

	var body actor.Body
	switch b.Kind {
	case "player":
		body = actor.NewPlayer(position, half, b.Mass)
	case "cuboid":
		body = actor.NewCuboid(position, half, b.Mass)
	case "static":
		body = actor.NewStaticCuboid(position, half)
	case "trigger":
		body = actor.NewTriggerCuboid(position, half, nil)
	default:
		return actor.Body{}, fmt.Errorf("unknown body kind %q", b.Kind)
	}

	if b.Friction != 0 {
		body.Material.Friction = b.Friction
	}
	if b.Restitution != 0 {
		body.Material.Restitution = b.Restitution
	}
	return body, nil
}

func (s Scene) config(logger *log.Logger) (verlet.Config, error) {
	config := verlet.DefaultConfig()
	config.Gravity = mgl64.Vec3(s.Gravity)
	config.Dampening = mgl64.Vec3(s.Dampening)
	config.GridSize = s.Grid.Size
	config.CellSize = s.Grid.Cell
	config.GridOrigin = mgl64.Vec3(s.Grid.Origin)
	config.Logger = logger

	switch s.OutOfBounds {
	case "", "continue":
		config.OutOfBounds = verlet.OutOfBoundsContinueUpdating()
	case "remove":
		config.OutOfBounds = verlet.OutOfBoundsRemove()
	case "swapRemove":
		config.OutOfBounds = verlet.OutOfBoundsSwapRemove()
	case "clamp":
		config.OutOfBounds = verlet.OutOfBoundsClamp()
	default:
		return config, fmt.Errorf("unknown out-of-bounds policy %q", s.OutOfBounds)
	}

	for i, b := range s.Bodies {
		body, err := b.build()
		if err != nil {
			return config, fmt.Errorf("body %d: %w", i, err)
		}
		config.Bodies = append(config.Bodies, body)
	}
	return config, nil
}

func (s Scene) policy() (verlet.SubstepPolicy, error) {
	switch s.SubstepPolicy {
	case "abort":
		return verlet.SubstepAbort, nil
	case "", "warn":
		return verlet.SubstepWarn, nil
	case "unbounded":
		return verlet.SubstepUnbounded, nil
	}
	return 0, fmt.Errorf("unknown substep policy %q", s.SubstepPolicy)
}

func main() {
	scenePath := flag.String("scene", "", "YAML scene file, the embedded scene when empty")
	frames := flag.Int("frames", 120, "frames to simulate")
	frameTime := flag.Float64("frame", 1.0/60.0, "simulated frame time in seconds")
	flag.Parse()

	logger := log.New(os.Stderr, "simpleScene: ", log.Lmicroseconds)

	scene, err := loadScene(*scenePath)
	if err != nil {
		logger.Fatal(err)
	}
	config, err := scene.config(logger)
	if err != nil {
		logger.Fatal(err)
	}
	policy, err := scene.policy()
	if err != nil {
		logger.Fatal(err)
	}

	solver, err := verlet.NewSolver(config)
	if err != nil {
		logger.Fatal(err)
	}
	stepper, err := verlet.NewStepper(solver, scene.Dt, scene.MaxSubsteps, policy, logger)
	if err != nil {
		logger.Fatal(err)
	}

	solver.Events().Subscribe(verlet.TRIGGER_ENTER, func(event verlet.Event) {
		e := event.(verlet.TriggerEnterEvent)
		logger.Printf("body %d entered trigger %d through %v", e.Body, e.Trigger, e.Side)
	})
	solver.Events().Subscribe(verlet.TRIGGER_EXIT, func(event verlet.Event) {
		e := event.(verlet.TriggerExitEvent)
		logger.Printf("body %d left trigger %d", e.Body, e.Trigger)
	})
	solver.Events().Subscribe(verlet.COLLISION_ENTER, func(event verlet.Event) {
		e := event.(verlet.CollisionEnterEvent)
		logger.Printf("body %d hit body %d on side %v", e.BodyA, e.BodyB, e.Side)
	})

	var instances []verlet.Instance
	for frame := 0; frame < *frames; frame++ {
		steps, err := stepper.Advance(*frameTime)
		if err != nil {
			logger.Printf("frame %d: %v", frame, err)
		}
		if steps == 0 {
			continue
		}

		instances = solver.Instances(instances)
		for _, instance := range instances {
			body := solver.Body(instance.Index)
			if !body.IsDynamic() {
				continue
			}
			logger.Printf("frame %3d %-6s #%d pos=%.3f vel=%.3f grounded=%v",
				frame, body.Kind, instance.Index, body.Position(), body.Velocity(scene.Dt), body.Grounded)
		}
	}
}
