package rigid2d

import (
	"sync"
	"sync/atomic"
	"time"
)

// RunState is Motion's state machine (spec.md §4.7).
type RunState int

const (
	Stopped RunState = iota
	Running
)

const defaultTickRate = 60 // nominal Hz; integration itself is unit-time per step

// StepFunc is a per-step user callback registered via AddWorldStepFn,
// invoked exactly once per step before rendering.
type StepFunc func()

// Motion is the stepping clock: it drives force application,
// integration, collision detection, resolution, the sleep heuristic,
// and the renderer tick. Grounded on the teacher's
// PhysicsEngine.Run/PhysicsWorld.Step, collapsed to the single-threaded
// cooperative loop spec.md §5 mandates (no WorkerPool on this path).
type Motion struct {
	state RunState

	heap       *BodyHeap
	boundaries *BoundaryManager
	forces     *ForceManager
	collisions *CollisionManager
	resolver   *ContactResolver
	renderer   Renderer

	stepFns []StepFunc
	report  ErrorReporter

	// stepCount is read by StepCount() from goroutines other than the
	// one driving Step() (e.g. a host's stats reporter running
	// alongside Start()'s ticker or a manual Step() loop), so it is
	// atomic rather than a plain uint64.
	stepCount atomic.Uint64

	ticker *time.Ticker
	quit   chan struct{}
	mu     sync.Mutex
}

func NewMotion(heap *BodyHeap, boundaries *BoundaryManager, forces *ForceManager, renderer Renderer, report ErrorReporter) *Motion {
	if report == nil {
		report = defaultErrorReporter
	}
	return &Motion{
		heap:       heap,
		boundaries: boundaries,
		forces:     forces,
		collisions: NewCollisionManager(),
		resolver:   NewContactResolver(report),
		renderer:   renderer,
		report:     report,
	}
}

func (m *Motion) AddWorldStepFn(fn StepFunc) {
	if fn != nil {
		m.stepFns = append(m.stepFns, fn)
	}
}

func (m *Motion) State() RunState { return m.state }

func (m *Motion) StepCount() uint64 { return m.stepCount.Load() }

// Start transitions to Running and schedules recurring steps via a
// nominal-60Hz ticker (spec.md §5: "accepts ticks at whatever rate the
// host provides but assumes a nominal 60 Hz").
func (m *Motion) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Running {
		return
	}
	m.state = Running
	m.quit = make(chan struct{})
	m.ticker = time.NewTicker(time.Second / defaultTickRate)

	ticker, quit := m.ticker, m.quit
	go func() {
		for {
			select {
			case <-ticker.C:
				m.Step(1.0)
			case <-quit:
				return
			}
		}
	}()
}

// Pause stops future ticks. An in-progress step always completes
// (spec.md §5); there is no timeout.
func (m *Motion) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Running {
		return
	}
	m.state = Stopped
	if m.ticker != nil {
		m.ticker.Stop()
	}
	if m.quit != nil {
		close(m.quit)
	}
}

// Step must never be called concurrently with itself: spec.md §5
// guarantees a single-threaded, cooperative stepping model, so a host
// must not mix Start()'s internal ticker with its own direct Step()
// calls on the same Motion. StepCount() and BodyHeap's read methods
// are safe to call from another goroutine while a step is in flight
// (e.g. a stats reporter alongside runLoop); everything else a step
// touches (body fields, force/collision state) is not.
//
// Step runs exactly one simulation tick (spec.md §4.7):
//  1. force application + integration for every StateSimulate body
//  2. collision detection
//  3. contact resolution
//  4. sleep heuristic
//  5. user step functions
//  6. renderer repaint
//
// dt defaults to 1.0 (unit-dt) when driven by Start's internal ticker;
// a host running its own fixed-dt loop may call Step directly with a
// different dt (SPEC_FULL.md §3).
func (m *Motion) Step(dt float64) {
	bodies := m.heap.Heap()

	for _, b := range bodies {
		if b.State != StateSimulate {
			continue
		}
		if err := b.update(m.forces, dt); err != nil {
			safeCall(m.report, "domain", func() { m.report(err) })
		}
	}

	manifolds := m.collisions.Detect(bodies, m.boundaries.All())
	m.resolver.Resolve(manifolds)

	for _, b := range bodies {
		if b.State != StateSimulate {
			continue
		}
		b.pushMotionSample()
		if b.isTimeToSleep() {
			b.State = StateSleep
		}
	}

	for _, fn := range m.stepFns {
		f := fn
		safeCall(m.report, "step-function", f)
	}

	m.stepCount.Add(1)

	if m.renderer != nil {
		m.renderer.Repaint()
	}
}
