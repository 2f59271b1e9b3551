package rigid2d

import "testing"

func appendedCircle(t *testing.T, x, y, radius float64) *Body {
	t.Helper()
	h := NewBodyHeap()
	b, err := NewBody(BodyConfig{Pos: NewVector2(x, y), Shape: ShapeSpec{Radius: radius}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := h.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return b
}

func appendedBox(t *testing.T, x, y, w, h float64) *Body {
	t.Helper()
	heap := NewBodyHeap()
	b, err := NewBody(BodyConfig{Pos: NewVector2(x, y), Shape: ShapeSpec{Width: w, Height: h}}, KindRectangle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return b
}

func TestCollideCircleCircle_Overlapping(t *testing.T) {
	a := appendedCircle(t, 0, 0, 5)
	b := appendedCircle(t, 8, 0, 5)

	m := collideCircleCircle(a, b)
	if m == nil {
		t.Fatal("collideCircleCircle() = nil, want a manifold")
	}
	if !almostEqual(m.Penetration, 2, 1e-9) {
		t.Errorf("Penetration = %v, want 2", m.Penetration)
	}
	if !vecAlmostEqual(m.Normal, NewVector2(1, 0), 1e-9) {
		t.Errorf("Normal = %v, want (1, 0)", m.Normal)
	}
}

func TestCollideCircleCircle_NotTouching(t *testing.T) {
	a := appendedCircle(t, 0, 0, 5)
	b := appendedCircle(t, 20, 0, 5)

	if m := collideCircleCircle(a, b); m != nil {
		t.Errorf("collideCircleCircle() = %v, want nil", m)
	}
}

func TestCollideCircleCircle_CoincidentCenters(t *testing.T) {
	a := appendedCircle(t, 5, 5, 3)
	b := appendedCircle(t, 5, 5, 3)

	m := collideCircleCircle(a, b)
	if m == nil {
		t.Fatal("collideCircleCircle() = nil, want a manifold")
	}
	if !vecAlmostEqual(m.Normal, defaultSeparationNormal, 1e-9) {
		t.Errorf("Normal = %v, want defaultSeparationNormal (0,-1)", m.Normal)
	}
}

func TestCollideCirclePolygon_Overlapping(t *testing.T) {
	box := appendedBox(t, 0, 0, 10, 10)
	circle := appendedCircle(t, 0, 7, 3)

	m := collideCirclePolygon(circle, box)
	if m == nil {
		t.Fatal("collideCirclePolygon() = nil, want a manifold")
	}
	if m.Penetration <= 0 {
		t.Errorf("Penetration = %v, want > 0", m.Penetration)
	}
}

func TestCollideCirclePolygon_NotTouching(t *testing.T) {
	box := appendedBox(t, 0, 0, 10, 10)
	circle := appendedCircle(t, 0, 20, 2)

	if m := collideCirclePolygon(circle, box); m != nil {
		t.Errorf("collideCirclePolygon() = %v, want nil", m)
	}
}

func TestCollidePolygonPolygon_Overlapping(t *testing.T) {
	a := appendedBox(t, 0, 0, 10, 10)
	b := appendedBox(t, 8, 0, 10, 10)

	m := collidePolygonPolygon(a, b)
	if m == nil {
		t.Fatal("collidePolygonPolygon() = nil, want a manifold")
	}
	if !almostEqual(m.Penetration, 2, 1e-9) {
		t.Errorf("Penetration = %v, want 2", m.Penetration)
	}
	// Normal must point from A to B: B is to the right of A.
	if m.Normal.X <= 0 {
		t.Errorf("Normal = %v, want positive X component (A to B)", m.Normal)
	}
}

func TestCollidePolygonPolygon_Separated(t *testing.T) {
	a := appendedBox(t, 0, 0, 10, 10)
	b := appendedBox(t, 30, 0, 10, 10)

	if m := collidePolygonPolygon(a, b); m != nil {
		t.Errorf("collidePolygonPolygon() = %v, want nil", m)
	}
}

func TestCollideBodyBoundary_Circle(t *testing.T) {
	circle := appendedCircle(t, 50, 2, 5)
	bd := &Boundary{Side: Top, Normal: NewVector2(0, 1), Offset: 0}

	m := collideBodyBoundary(circle, bd)
	if m == nil {
		t.Fatal("collideBodyBoundary() = nil, want a manifold")
	}
	if m.Penetration <= 0 {
		t.Errorf("Penetration = %v, want > 0", m.Penetration)
	}
}

func TestCollideBodyBoundary_CircleClear(t *testing.T) {
	circle := appendedCircle(t, 50, 100, 5)
	bd := &Boundary{Side: Top, Normal: NewVector2(0, 1), Offset: 0}

	if m := collideBodyBoundary(circle, bd); m != nil {
		t.Errorf("collideBodyBoundary() = %v, want nil", m)
	}
}

func TestNarrowPhase_DispatchesBothOrders(t *testing.T) {
	circle := appendedCircle(t, 0, 7, 3)
	box := appendedBox(t, 0, 0, 10, 10)

	m1 := narrowPhase(circle, box)
	m2 := narrowPhase(box, circle)

	if m1 == nil || m2 == nil {
		t.Fatal("narrowPhase() = nil in one direction, want manifolds in both")
	}
	if !vecAlmostEqual(m1.Normal, m2.Normal.Scale(-1), 1e-9) {
		t.Errorf("normals not opposite between orderings: %v vs %v", m1.Normal, m2.Normal)
	}
}

func TestCollisionManager_Detect_SkipsTotalStaticPairs(t *testing.T) {
	cm := NewCollisionManager()
	a, err := NewBody(BodyConfig{Pos: NewVector2(0, 0), Shape: ShapeSpec{Radius: 5}, Nature: Nature{Static: "total"}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	b, err := NewBody(BodyConfig{Pos: NewVector2(1, 0), Shape: ShapeSpec{Radius: 5}, Nature: Nature{Static: "total"}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	heap := NewBodyHeap()
	if err := heap.Append(a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	manifolds := cm.Detect(heap.Heap(), nil)
	if len(manifolds) != 0 {
		t.Errorf("Detect() = %d manifolds, want 0 for two total-static bodies", len(manifolds))
	}
}

func TestCollisionManager_Detect_BodyBodyPair(t *testing.T) {
	cm := NewCollisionManager()
	heap := NewBodyHeap()

	a, err := NewBody(BodyConfig{Pos: NewVector2(0, 0), Shape: ShapeSpec{Radius: 5}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	b, err := NewBody(BodyConfig{Pos: NewVector2(8, 0), Shape: ShapeSpec{Radius: 5}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	if err := heap.Append(a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := heap.Append(b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	manifolds := cm.Detect(heap.Heap(), nil)
	if len(manifolds) != 1 {
		t.Fatalf("Detect() = %d manifolds, want 1", len(manifolds))
	}
}
