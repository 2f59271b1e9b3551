package rigid2d

import "math"

// initBodyData computes initial world-space vertices, AABB, centroid,
// and rotation inertia. Called once by BodyHeap.Append when the body
// is still in StateInit.
func (b *Body) initBodyData() {
	b.rebuildWorldVertices()
	b.Area = b.calcArea()
	b.Centroid = b.calcCentroid()
	b.createBoundRect()
}

// setMassData derives mass/inverseMass/rotationInertia from Area and
// Density, unless the host supplied an explicit mass (spec.md §3: "if
// user supplies mass, density is derived from it, otherwise mass =
// area x density").
func (b *Body) setMassData() error {
	if b.Area <= 0 || math.IsNaN(b.Area) {
		return newConfigError("area", ErrNonPositiveArea)
	}

	if b.Static == StaticTotal || b.Static == StaticPosition {
		b.Mass = 0
		b.InverseMass = 0
	} else {
		if b.Mass > 0 {
			b.Density = b.Mass / b.Area
		} else {
			b.Mass = b.Area * b.Density
		}
		if b.Mass <= 0 || math.IsNaN(b.Mass) {
			return newConfigError("mass", ErrNonPositiveArea)
		}
		b.InverseMass = 1.0 / b.Mass
	}

	b.RotationInertia = b.calcRotationInertia()
	if b.RotationInertia > 0 && b.InverseMass > 0 {
		b.InverseRotInertia = 1.0 / b.RotationInertia
	} else {
		b.InverseRotInertia = 0
	}
	return nil
}

func (b *Body) calcArea() float64 {
	switch b.Kind {
	case KindCircle:
		return math.Pi * b.Radius * b.Radius
	default:
		return polygonArea(b.WorldVertices)
	}
}

// polygonArea uses the shoelace formula over CCW-wound vertices.
func polygonArea(vs []Vector2) float64 {
	n := len(vs)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return math.Abs(sum) * 0.5
}

func (b *Body) calcCentroid() Vector2 {
	switch b.Kind {
	case KindCircle:
		return b.Pos
	default:
		return polygonCentroid(b.WorldVertices)
	}
}

// polygonCentroid computes the signed-triangle-decomposition centroid
// about the origin of a CCW polygon.
func polygonCentroid(vs []Vector2) Vector2 {
	n := len(vs)
	if n == 0 {
		return Vector2{}
	}
	var cx, cy, areaAcc float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := vs[i].Cross(vs[j])
		cx += (vs[i].X + vs[j].X) * cross
		cy += (vs[i].Y + vs[j].Y) * cross
		areaAcc += cross
	}
	if areaAcc == 0 {
		return vs[0]
	}
	inv := 1.0 / (3.0 * areaAcc)
	return Vector2{X: cx * inv, Y: cy * inv}
}

// calcRotationInertia computes the shape-specific rotational inertia
// about the centroid (spec.md §3: disk is 1/2 m r^2, polygon is the
// standard signed-triangle decomposition).
func (b *Body) calcRotationInertia() float64 {
	if b.Mass <= 0 {
		return 0
	}
	switch b.Kind {
	case KindCircle:
		return 0.5 * b.Mass * b.Radius * b.Radius
	default:
		return polygonInertia(b.WorldVertices, b.Centroid, b.Mass)
	}
}

// polygonInertia sums the moment of inertia of the triangle fan from
// the centroid, scaled to the body's actual mass.
func polygonInertia(vs []Vector2, centroid Vector2, mass float64) float64 {
	n := len(vs)
	if n < 3 {
		return 0
	}
	var numer, denom float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		p1 := vs[i].Sub(centroid)
		p2 := vs[j].Sub(centroid)
		cross := math.Abs(p1.Cross(p2))
		term := p1.Dot(p1) + p1.Dot(p2) + p2.Dot(p2)
		numer += cross * term
		denom += cross
	}
	if denom == 0 {
		return 0
	}
	return (mass / 6.0) * (numer / denom)
}

// rebuildWorldVertices recomputes WorldVertices from LocalVertices,
// Pos and Rot. Circles have no vertex list and are a no-op.
func (b *Body) rebuildWorldVertices() {
	if b.Kind == KindCircle {
		return
	}
	if b.WorldVertices == nil || len(b.WorldVertices) != len(b.LocalVertices) {
		b.WorldVertices = make([]Vector2, len(b.LocalVertices))
	}
	for i, lv := range b.LocalVertices {
		b.WorldVertices[i] = lv.Rotate(b.Rot).Add(b.Pos)
	}
}

// createBoundRect computes the current AABB from scratch.
func (b *Body) createBoundRect() {
	switch b.Kind {
	case KindCircle:
		b.BoundRect = FromCircle(b.Pos, b.Radius)
	default:
		b.BoundRect = FromVertices(b.WorldVertices)
	}
}

// boundRectDeltaKind tags what kind of update triggered a BoundRect
// refresh: a cheap translation, or a rotation that requires rebuilding
// world vertices first.
type boundRectDeltaKind int

const (
	deltaPosition boundRectDeltaKind = iota
	deltaRotation
)

// updateBoundRect incrementally refreshes BoundRect, WorldVertices and
// Centroid. A position delta is a simple translation of all three; a
// rotation delta requires rebuilding world vertices for polygon-family
// shapes (a no-op for circles, per spec.md §4.4).
func (b *Body) updateBoundRect(kind boundRectDeltaKind, delta Vector2) {
	switch kind {
	case deltaPosition:
		b.BoundRect.Min = b.BoundRect.Min.Add(delta)
		b.BoundRect.Max = b.BoundRect.Max.Add(delta)
		for i := range b.WorldVertices {
			b.WorldVertices[i] = b.WorldVertices[i].Add(delta)
		}
		b.Centroid = b.Centroid.Add(delta)
	case deltaRotation:
		if b.Kind == KindCircle {
			return
		}
		b.rebuildWorldVertices()
		b.createBoundRect()
		b.Centroid = b.calcCentroid()
	}
}

// getShape returns the visual proxy descriptor passed to the
// renderer: center/radius for circles, world vertices otherwise. The
// renderer is an external collaborator (spec.md §1); this method only
// hands back geometric primitives, never constructs a draw path.
type ShapeProxy struct {
	Kind     BodyKind
	Center   Vector2
	Radius   float64
	Vertices []Vector2
	Rotation float64
}

func (b *Body) getShape() ShapeProxy {
	return ShapeProxy{
		Kind:     b.Kind,
		Center:   b.Pos,
		Radius:   b.Radius,
		Vertices: b.WorldVertices,
		Rotation: b.Rot,
	}
}
