// Command rigid2d-demo exercises the rigid2d dynamics core the way
// the teacher's standalone physics-2d binary exercised its own
// PhysicsEngine: a flag-driven scene generator plus a periodic stats
// reporter. It is CLI glue, not part of the core's public contract
// (spec.md §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/hexnought/rigid2d"
)

type config struct {
	GravityX, GravityY float64
	TimeStep           float64
	Duration           float64
	MaxFPS             int

	Verbose       bool
	Quiet         bool
	StatsInterval float64

	SceneFile   string
	BodiesCount int
	SceneType   string
	Workers     int

	ProfileCPU string
}

func parseFlags() *config {
	c := &config{}

	flag.Float64Var(&c.GravityX, "gravity-x", 0.0, "gravity X component")
	flag.Float64Var(&c.GravityY, "gravity-y", 5.0, "gravity Y component")
	flag.Float64Var(&c.TimeStep, "timestep", 1.0, "physics time step passed to World.Step")
	flag.Float64Var(&c.Duration, "duration", 0, "simulation duration in seconds (0 = infinite)")
	flag.IntVar(&c.MaxFPS, "fps", 60, "ticks per second")

	flag.BoolVar(&c.Verbose, "verbose", false, "verbose output")
	flag.BoolVar(&c.Quiet, "quiet", false, "minimal output")
	flag.Float64Var(&c.StatsInterval, "stats-interval", 2.0, "statistics reporting interval")

	flag.StringVar(&c.SceneFile, "scene", "", "scene file to load (.json, .yaml, .yml)")
	flag.IntVar(&c.BodiesCount, "bodies", 100, "number of bodies for generated scenes")
	flag.StringVar(&c.SceneType, "scene-type", "default", "scene type (default, pyramid, rain, container, pendulum, mixed)")
	flag.IntVar(&c.Workers, "workers", 1, "parallel workers for building the rain scene (1 = sequential)")
	flag.StringVar(&c.ProfileCPU, "profile-cpu", "", "CPU profile output file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rigid2d-demo - exercises the rigid2d dynamics core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := validateConfig(c); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return c
}

func validateConfig(c *config) error {
	if c.MaxFPS < 1 || c.MaxFPS > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if c.BodiesCount < 1 {
		return fmt.Errorf("bodies count must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	validSceneTypes := map[string]bool{
		"default": true, "pyramid": true, "rain": true, "container": true,
		"pendulum": true, "mixed": true,
	}
	if !validSceneTypes[c.SceneType] {
		return fmt.Errorf("invalid scene type: %s", c.SceneType)
	}
	return nil
}

func generateScene(w *rigid2d.World, c *config) {
	switch c.SceneType {
	case "pyramid":
		generatePyramidScene(w, c.BodiesCount)
	case "rain":
		generateRainScene(w, c.BodiesCount, c.Workers)
	case "container":
		generateContainerScene(w, c.BodiesCount)
	case "pendulum":
		generatePendulumScene(w, c.BodiesCount)
	case "mixed":
		generateMixedScene(w, c.BodiesCount)
	default:
		generateDefaultScene(w, c.BodiesCount)
	}
}

func mustAppend(w *rigid2d.World, cfg rigid2d.BodyConfig, kind rigid2d.BodyKind) {
	body, err := rigid2d.NewBody(cfg, kind)
	if err != nil {
		log.Printf("skipping body: %v", err)
		return
	}
	if err := w.AppendBody(body); err != nil {
		log.Printf("skipping body: %v", err)
	}
}

func circleConfig(x, y, radius float64) rigid2d.BodyConfig {
	return rigid2d.BodyConfig{
		Pos:   rigid2d.NewVector2(x, y),
		Shape: rigid2d.ShapeSpec{Radius: radius},
	}
}

func boxConfig(x, y, w, h float64, static string) rigid2d.BodyConfig {
	return rigid2d.BodyConfig{
		Pos:    rigid2d.NewVector2(x, y),
		Shape:  rigid2d.ShapeSpec{Width: w, Height: h},
		Nature: rigid2d.Nature{Static: static},
	}
}

func generateDefaultScene(w *rigid2d.World, bodyCount int) {
	mustAppend(w, boxConfig(w.GetWidth()/2, w.GetHeight()-5, w.GetWidth(), 10, "total"), rigid2d.KindRectangle)

	for i := 0; i < bodyCount; i++ {
		x := rand.Float64() * w.GetWidth()
		y := rand.Float64() * w.GetHeight() / 2

		if rand.Float64() < 0.6 {
			mustAppend(w, circleConfig(x, y, rand.Float64()*8+4), rigid2d.KindCircle)
		} else {
			size := rand.Float64()*16 + 8
			mustAppend(w, boxConfig(x, y, size, size, "none"), rigid2d.KindRectangle)
		}
	}
}

func generatePyramidScene(w *rigid2d.World, bodyCount int) {
	mustAppend(w, boxConfig(w.GetWidth()/2, w.GetHeight()-5, w.GetWidth(), 10, "total"), rigid2d.KindRectangle)

	levels := int(float64(bodyCount))/10 + 1
	boxSize := 20.0
	y := w.GetHeight() - 20
	for level := levels; level > 0; level-- {
		for i := 0; i < level; i++ {
			x := w.GetWidth()/2 + float64(i-level/2)*boxSize
			mustAppend(w, boxConfig(x, y, boxSize*0.9, boxSize*0.9, "none"), rigid2d.KindRectangle)
		}
		y -= boxSize
	}
}

func generateRainScene(w *rigid2d.World, bodyCount, workers int) {
	w.AppendViewportBoundaries()

	if workers <= 1 {
		for i := 0; i < bodyCount; i++ {
			x := rand.Float64() * w.GetWidth()
			y := rand.Float64() * w.GetHeight() / 3
			mustAppend(w, circleConfig(x, y, rand.Float64()*6+3), rigid2d.KindCircle)
		}
		return
	}

	specs := make([]rigid2d.BodyConfig, bodyCount)
	kinds := make([]rigid2d.BodyKind, bodyCount)
	for i := range specs {
		x := rand.Float64() * w.GetWidth()
		y := rand.Float64() * w.GetHeight() / 3
		specs[i] = circleConfig(x, y, rand.Float64()*6+3)
		kinds[i] = rigid2d.KindCircle
	}

	if _, err := rigid2d.BuildSceneConcurrently(w, specs, kinds, workers); err != nil {
		log.Fatalf("failed to build rain scene concurrently: %v", err)
	}
}

// generatePendulumScene seeds anchor/bob pairs the way the teacher's own
// generatePendulumScene did: a static anchor circle and a free bob circle
// given a sideways kick. The teacher never modeled a hinge constraint
// between them, so neither do we; this is a swinging-on-contact scene,
// not a true pendulum.
func generatePendulumScene(w *rigid2d.World, bodyCount int) {
	for i := 0; i < bodyCount/3+1; i++ {
		x := float64(i-bodyCount/6) * 10

		mustAppend(w, rigid2d.BodyConfig{
			Pos:    rigid2d.NewVector2(x, 50),
			Shape:  rigid2d.ShapeSpec{Radius: 0.5},
			Nature: rigid2d.Nature{Static: "total"},
		}, rigid2d.KindCircle)

		mustAppend(w, rigid2d.BodyConfig{
			Pos: rigid2d.NewVector2(x, 30),
			Shape: rigid2d.ShapeSpec{Radius: 1.5},
			Nature: rigid2d.Nature{
				Mass:           2,
				LinearVelocity: rigid2d.NewVector2((rand.Float64()-0.5)*50, 0),
			},
		}, rigid2d.KindCircle)
	}
}

// generateMixedScene builds platforms plus a mix of circles and boxes
// with randomized material properties, grounded on the teacher's own
// generateMixedScene.
func generateMixedScene(w *rigid2d.World, bodyCount int) {
	mustAppend(w, boxConfig(w.GetWidth()*0.25, w.GetHeight()-40, 150, 10, "total"), rigid2d.KindRectangle)
	mustAppend(w, boxConfig(w.GetWidth()*0.75, w.GetHeight()-40, 150, 10, "total"), rigid2d.KindRectangle)

	for i := 0; i < 5; i++ {
		x := rand.Float64() * w.GetWidth()
		y := w.GetHeight() - float64(i)*60 - 60
		width := rand.Float64()*90 + 60
		mustAppend(w, boxConfig(x, y, width, 9, "total"), rigid2d.KindRectangle)
	}

	for i := 0; i < bodyCount; i++ {
		x := rand.Float64() * w.GetWidth()
		y := rand.Float64() * w.GetHeight() / 3

		switch rand.Intn(3) {
		case 0:
			radius := rand.Float64()*6 + 1.5
			mustAppend(w, rigid2d.BodyConfig{
				Pos:   rigid2d.NewVector2(x, y),
				Shape: rigid2d.ShapeSpec{Radius: radius},
				Nature: rigid2d.Nature{
					Restitution: rigid2d.Float64Ptr(rand.Float64()*0.5 + 0.5),
					Friction:    rand.Float64()*0.5 + 0.2,
				},
			}, rigid2d.KindCircle)
		case 1:
			size := rand.Float64()*9 + 3
			mustAppend(w, rigid2d.BodyConfig{
				Pos:   rigid2d.NewVector2(x, y),
				Shape: rigid2d.ShapeSpec{Width: size, Height: size},
				Nature: rigid2d.Nature{
					Restitution: rigid2d.Float64Ptr(rand.Float64()*0.5 + 0.3),
					Friction:    rand.Float64()*0.6 + 0.3,
				},
			}, rigid2d.KindRectangle)
		case 2:
			width := rand.Float64()*12 + 3
			height := rand.Float64()*6 + 1.5
			mustAppend(w, rigid2d.BodyConfig{
				Pos:   rigid2d.NewVector2(x, y),
				Shape: rigid2d.ShapeSpec{Width: width, Height: height},
				Nature: rigid2d.Nature{
					Restitution: rigid2d.Float64Ptr(rand.Float64()*0.4 + 0.4),
					Friction:    rand.Float64()*0.5 + 0.4,
				},
			}, rigid2d.KindRectangle)
		}
	}
}

func generateContainerScene(w *rigid2d.World, bodyCount int) {
	w.AppendViewportBoundaries()
	for i := 0; i < bodyCount; i++ {
		x := rand.Float64() * w.GetWidth()
		y := rand.Float64() * w.GetHeight() / 2
		size := rand.Float64()*10 + 5
		mustAppend(w, boxConfig(x, y, size, size, "none"), rigid2d.KindRectangle)
	}
}

func main() {
	c := parseFlags()

	if c.Quiet {
		log.SetOutput(os.Stderr)
	} else if c.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	if c.ProfileCPU != "" {
		f, err := os.Create(c.ProfileCPU)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	runtime.GOMAXPROCS(runtime.NumCPU())
	rand.Seed(time.Now().UnixNano())

	world := rigid2d.NewWorld(800, 600, rigid2d.WorldConfig{
		Gravity: rigid2d.Vector2Ptr(rigid2d.NewVector2(c.GravityX, c.GravityY)),
	})

	if c.SceneFile != "" {
		scene, err := rigid2d.LoadSceneFromFile(c.SceneFile)
		if err != nil {
			log.Fatalf("failed to load scene: %v", err)
		}
		if err := world.LoadScene(scene); err != nil {
			log.Fatalf("failed to set up scene: %v", err)
		}
		if scene.Duration > 0 {
			c.Duration = scene.Duration
		}
		if !c.Quiet {
			log.Printf("loaded scene from %s", c.SceneFile)
		}
	} else {
		generateScene(world, c)
		if !c.Quiet {
			log.Printf("generated %s scene with %d bodies", c.SceneType, c.BodiesCount)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if c.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Duration*float64(time.Second)))
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			if !c.Quiet {
				log.Println("shutting down gracefully...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if !c.Quiet {
		go reportStats(ctx, world, c.StatsInterval)
		log.Printf("rigid2d demo started (bodies: %d)", world.GetBodyCount())
	}

	runLoop(ctx, world, c.MaxFPS, c.TimeStep)

	if !c.Quiet {
		log.Printf("simulation completed: steps=%d bodies=%d", world.StepCount(), world.GetBodyCount())
	}
}

// runLoop drives World.Step at a fixed tick rate with an explicit dt,
// grounded on the teacher's PhysicsEngine.Run (a ticker at targetFPS
// calling world.Step(ctx, dt) every tick) rather than Motion's own
// internal unit-dt ticker, so -fps and -timestep both take effect.
func runLoop(ctx context.Context, w *rigid2d.World, fps int, dt float64) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Step(dt)
		case <-ctx.Done():
			return
		}
	}
}

func reportStats(ctx context.Context, w *rigid2d.World, interval float64) {
	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Printf("steps: %d | bodies: %d", w.StepCount(), w.GetBodyCount())
		case <-ctx.Done():
			return
		}
	}
}
