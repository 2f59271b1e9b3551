package rigid2d

import "testing"

func TestForceManager_GravityAccumulatesIntoAcc(t *testing.T) {
	fm := NewForceManager()
	fm.AddLinearForce(&LinearForce{Kind: ForceGravity, Value: NewVector2(0, 9.8)})

	b, err := NewBody(BodyConfig{Shape: ShapeSpec{Radius: 1}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	fm.applyLinearForce(b)
	if !vecAlmostEqual(b.Acc, NewVector2(0, 9.8), 1e-10) {
		t.Errorf("Acc = %v, want (0, 9.8)", b.Acc)
	}
}

func TestForceManager_LinearDragOpposesVelocity(t *testing.T) {
	fm := NewForceManager()
	fm.AddLinearForce(&LinearForce{Kind: ForceLinearDrag, Value: NewVector2(0.5, 0.5)})

	b, err := NewBody(BodyConfig{
		Shape:  ShapeSpec{Radius: 1},
		Nature: Nature{LinearVelocity: NewVector2(4, -2)},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	fm.applyLinearForce(b)
	want := NewVector2(-2, 1)
	if !vecAlmostEqual(b.Acc, want, 1e-10) {
		t.Errorf("Acc = %v, want %v", b.Acc, want)
	}
}

func TestForceManager_AngularDragOpposesOmega(t *testing.T) {
	fm := NewForceManager()
	fm.AddAngularForce(&AngularForce{Kind: ForceAngularDrag, Value: 0.2})

	b, err := NewBody(BodyConfig{
		Shape:  ShapeSpec{Radius: 1},
		Nature: Nature{AngularVelocity: 10},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	fm.applyAngularForce(b)
	if !almostEqual(b.Alpha, -2, 1e-10) {
		t.Errorf("Alpha = %v, want -2", b.Alpha)
	}
}

func TestForceManager_StaticBodySkipped(t *testing.T) {
	fm := NewForceManager()
	fm.AddLinearForce(&LinearForce{Kind: ForceGravity, Value: NewVector2(0, 9.8)})

	b, err := NewBody(BodyConfig{
		Shape:  ShapeSpec{Radius: 1},
		Nature: Nature{Static: "total"},
	}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	fm.applyLinearForce(b)
	if b.Acc != (Vector2{}) {
		t.Errorf("Acc = %v, want zero for a static body", b.Acc)
	}
}

func TestForceManager_Clear(t *testing.T) {
	fm := NewForceManager()
	b, err := NewBody(BodyConfig{Shape: ShapeSpec{Radius: 1}}, KindCircle)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	b.Acc = NewVector2(1, 1)
	b.Alpha = 5

	fm.clear(b)
	if b.Acc != (Vector2{}) || b.Alpha != 0 {
		t.Errorf("clear() left Acc=%v Alpha=%v, want zero", b.Acc, b.Alpha)
	}
}

func TestLinearForce_Set(t *testing.T) {
	g := &LinearForce{Kind: ForceGravity, Value: NewVector2(0, 1)}
	g.Set(NewVector2(2, 3))
	if g.Value != NewVector2(2, 3) {
		t.Errorf("Set() left Value = %v, want (2, 3)", g.Value)
	}
}
