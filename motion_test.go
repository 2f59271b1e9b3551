package rigid2d

import "testing"

func newTestMotion(t *testing.T) (*Motion, *BodyHeap, *BoundaryManager, *ForceManager) {
	t.Helper()
	heap := NewBodyHeap()
	boundaries := NewBoundaryManager()
	forces := NewForceManager()
	m := NewMotion(heap, boundaries, forces, NullRenderer{}, nil)
	return m, heap, boundaries, forces
}

// TestMotion_FreeFall reproduces spec.md §8 scenario 1 exactly: gravity
// (0,5), a radius-10 circle of mass 1 dropped at (400,0), no drag. With
// semi-implicit Euler at dt=1 the velocity after step k is 5k, so
// pos.y after 10 steps is Σk=1..10 5k = 275.
func TestMotion_FreeFall(t *testing.T) {
	m, heap, _, forces := newTestMotion(t)
	forces.AddLinearForce(&LinearForce{Kind: ForceGravity, Value: NewVector2(0, 5)})

	b, err := NewBody(BodyConfig{
		Pos:    NewVector2(400, 0),
		Shape:  ShapeSpec{Radius: 10},
		Nature: Nature{Mass: 1},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		m.Step(1.0)
	}

	const wantPosY = 275.0
	if !almostEqual(b.Pos.Y, wantPosY, 1e-9) {
		t.Errorf("Pos.Y = %v, want %v after 10 steps of free fall (spec.md §8 scenario 1)", b.Pos.Y, wantPosY)
	}
	const wantVY = 50.0 // v after step 10 = 5*10
	if !almostEqual(b.V.Y, wantVY, 1e-9) {
		t.Errorf("V.Y = %v, want %v", b.V.Y, wantVY)
	}
	if m.StepCount() != 10 {
		t.Errorf("StepCount() = %v, want 10", m.StepCount())
	}
}

// TestMotion_FloorBounce reproduces spec.md §8 scenario 2: a
// restitution=1, friction=0 circle falling onto BoundaryBottom must
// leave the floor at the same speed it arrived, within 1%. The impact
// velocity is reconstructed as the pre-bounce speed plus the one
// step's worth of gravity applied before the resolver saw it, since
// that (not the previous step's already-observed velocity) is what
// the resolver actually reflects.
func TestMotion_FloorBounce(t *testing.T) {
	m, heap, boundaries, forces := newTestMotion(t)
	const gravity = 5.0
	forces.AddLinearForce(&LinearForce{Kind: ForceGravity, Value: NewVector2(0, gravity)})
	// A restitution=1, friction=0 floor: sharedRestitution takes the
	// lesser restitution of the two bodies in contact (sharedFriction
	// their geometric mean), so a less-than-1 boundary restitution would
	// cap the bounce below the exact-swap the scenario calls for.
	boundaries.Append(&Boundary{Side: Bottom, Normal: NewVector2(0, -1), Offset: -600, Friction: 0, Restitution: 1.0})

	b, err := NewBody(BodyConfig{
		Pos:    NewVector2(400, 0),
		Shape:  ShapeSpec{Radius: 10},
		Nature: Nature{Mass: 1, Restitution: Float64Ptr(1.0)},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	var impactVelocity, peakVelocity float64
	prevVY := b.V.Y
	for i := 0; i < 200; i++ {
		m.Step(1.0)
		if prevVY >= 0 && b.V.Y < 0 {
			impactVelocity = prevVY + gravity
			peakVelocity = -b.V.Y
			break
		}
		prevVY = b.V.Y
	}

	if impactVelocity == 0 {
		t.Fatal("body never bounced off the floor within 200 steps")
	}
	if !almostEqual(peakVelocity, impactVelocity, impactVelocity*0.01) {
		t.Errorf("peak upward velocity = %v, want within 1%% of impact velocity %v (spec.md §8 scenario 2)", peakVelocity, impactVelocity)
	}
}

func TestMotion_StaticStackDoesNotSink(t *testing.T) {
	m, heap, _, forces := newTestMotion(t)
	forces.AddLinearForce(&LinearForce{Kind: ForceGravity, Value: NewVector2(0, 2)})

	ground, err := NewBody(BodyConfig{
		Pos:    NewVector2(0, 50),
		Shape:  ShapeSpec{Width: 100, Height: 10},
		Nature: Nature{Static: "total"},
	}, KindRectangle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(ground); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	box, err := NewBody(BodyConfig{Pos: NewVector2(0, 30), Shape: ShapeSpec{Width: 10, Height: 10}}, KindRectangle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(box); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	for i := 0; i < 40; i++ {
		m.Step(1.0)
	}

	if ground.Pos.Y != 50 {
		t.Errorf("ground.Pos.Y = %v, want 50 (static bodies never move)", ground.Pos.Y)
	}
	// Ground's top edge is at y=45; a resting 10-tall box should settle
	// with its center near y=40, never passing through to y>45.
	if box.Pos.Y > 45 {
		t.Errorf("box.Pos.Y = %v, want <= 45 (resting on the ground, not sinking through)", box.Pos.Y)
	}
}

// TestMotion_HeadOnElasticCollision reproduces spec.md §8 scenario 4
// exactly: two equal-mass (m=1) circles, r=10, restitution=1,
// friction=0, at (100,300) v=(5,0) and (200,300) v=(-5,0). After
// contact the velocities swap sign, within 1%.
func TestMotion_HeadOnElasticCollision(t *testing.T) {
	m, heap, _, _ := newTestMotion(t)

	a, err := NewBody(BodyConfig{
		Pos:    NewVector2(100, 300),
		Shape:  ShapeSpec{Radius: 10},
		Nature: Nature{Mass: 1, LinearVelocity: NewVector2(5, 0), Restitution: Float64Ptr(1.0)},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	b, err := NewBody(BodyConfig{
		Pos:    NewVector2(200, 300),
		Shape:  ShapeSpec{Radius: 10},
		Nature: Nature{Mass: 1, LinearVelocity: NewVector2(-5, 0), Restitution: Float64Ptr(1.0)},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		m.Step(1.0)
	}

	wantA := NewVector2(-5, 0)
	wantB := NewVector2(5, 0)
	if !vecAlmostEqual(a.V, wantA, 0.05) {
		t.Errorf("a.V = %v, want %v within 1%% (spec.md §8 scenario 4)", a.V, wantA)
	}
	if !vecAlmostEqual(b.V, wantB, 0.05) {
		t.Errorf("b.V = %v, want %v within 1%% (spec.md §8 scenario 4)", b.V, wantB)
	}
}

func TestMotion_SleepHeuristic(t *testing.T) {
	m, heap, _, _ := newTestMotion(t)

	b, err := NewBody(BodyConfig{Pos: NewVector2(0, 0), Shape: ShapeSpec{Radius: 1}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// No forces, no velocity: motion stays at zero every step, so the
	// ring buffer should fill and the body should fall asleep.
	for i := 0; i < sleepSampleCount+1; i++ {
		m.Step(1.0)
	}

	if b.State != StateSleep {
		t.Errorf("State = %v, want StateSleep after %d motionless steps", b.State, sleepSampleCount+1)
	}
}

func TestMotion_CallbackFanOut(t *testing.T) {
	m, heap, _, _ := newTestMotion(t)

	a, err := NewBody(BodyConfig{Pos: NewVector2(0, 0), Shape: ShapeSpec{Radius: 5}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	b, err := NewBody(BodyConfig{Pos: NewVector2(8, 0), Shape: ShapeSpec{Radius: 5}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	var aCollided, bCollided int
	a.Collided = func(other *Body) { aCollided++ }
	b.Collided = func(other *Body) { bCollided++ }

	if err := heap.Append(a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	m.Step(1.0)

	if aCollided != 1 || bCollided != 1 {
		t.Errorf("aCollided=%d bCollided=%d, want both 1 after first overlapping step", aCollided, bCollided)
	}
}

func TestMotion_StepFunctionPanicIsolated(t *testing.T) {
	m, _, _, _ := newTestMotion(t)

	var reported error
	m.report = func(err error) { reported = err }

	m.AddWorldStepFn(func() { panic("boom") })
	m.Step(1.0)

	if reported == nil {
		t.Fatal("report was never called after a panicking step function")
	}
	if _, ok := reported.(*UserCallbackError); !ok {
		t.Errorf("reported error type = %T, want *UserCallbackError", reported)
	}
	if m.StepCount() != 1 {
		t.Errorf("StepCount() = %v, want 1 (step completes despite the panic)", m.StepCount())
	}
}

func TestMotion_StartPauseLifecycle(t *testing.T) {
	m, _, _, _ := newTestMotion(t)

	if m.State() != Stopped {
		t.Fatalf("State() = %v, want Stopped initially", m.State())
	}

	m.Start()
	if m.State() != Running {
		t.Errorf("State() = %v, want Running after Start()", m.State())
	}

	m.Pause()
	if m.State() != Stopped {
		t.Errorf("State() = %v, want Stopped after Pause()", m.State())
	}
}
