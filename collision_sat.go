package rigid2d

import "math"

func sqrtf(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// defaultSeparationNormal is the documented tie-break for a zero-length
// separation vector (spec.md §4.5, edge case a): choose (0,-1), upward.
var defaultSeparationNormal = Vector2{X: 0, Y: -1}

// collideCircleCircle implements spec.md §4.5's circle-circle test.
func collideCircleCircle(a, b *Body) *Manifold {
	delta := b.Pos.Sub(a.Pos)
	distSq := delta.MagnitudeSquared()
	totalR := a.Radius + b.Radius

	if distSq >= totalR*totalR {
		return nil
	}

	dist := math.Sqrt(distSq)
	penetration := totalR - dist

	var normal Vector2
	if dist > 1e-9 {
		normal = delta.Scale(1 / dist)
	} else {
		normal = defaultSeparationNormal
	}

	contact := a.Pos.Add(normal.Scale(a.Radius))

	return &Manifold{
		BodyA: a, BodyB: b,
		Normal:        normal,
		Penetration:   penetration,
		ContactPoints: []Vector2{contact},
		Restitution:   sharedRestitution(a, b),
		Friction:      sharedFriction(a, b),
	}
}

// collideCirclePolygon implements spec.md §4.5's circle-polygon test:
// test the circle center against each polygon edge; if the nearest
// feature is a vertex the separation direction points away from that
// vertex, if an edge it is that edge's outward normal. That direction
// runs from the polygon (B) to the circle (A), so the manifold carries
// its negation to keep the A-to-B convention.
func collideCirclePolygon(circle, poly *Body) *Manifold {
	verts := poly.WorldVertices
	n := len(verts)
	if n < 3 {
		return nil
	}

	bestDist := math.Inf(-1)
	bestEdge := -1
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		edge := verts[j].Sub(verts[i])
		normal := edge.Perp().Normalize().Scale(-1) // outward for CCW winding
		d := normal.Dot(circle.Pos.Sub(verts[i]))
		if d > bestDist {
			bestDist = d
			bestEdge = i
		}
	}

	if bestEdge < 0 {
		return nil
	}

	v1 := verts[bestEdge]
	v2 := verts[(bestEdge+1)%n]

	if bestDist > circle.Radius {
		return nil // center is outside by more than the radius along the separating edge
	}

	// Determine whether the circle center projects inside the edge
	// segment or nearer to one of its endpoints.
	edgeVec := v2.Sub(v1)
	edgeLenSq := edgeVec.MagnitudeSquared()
	t := 0.0
	if edgeLenSq > 0 {
		t = circle.Pos.Sub(v1).Dot(edgeVec) / edgeLenSq
	}

	var normal Vector2
	var penetration float64

	if bestDist < 0 {
		// Center is inside the polygon: always an edge-normal contact.
		edgeNormal := edgeVec.Perp().Normalize().Scale(-1)
		normal = edgeNormal
		penetration = circle.Radius - bestDist
	} else if t < 0 {
		toCenter := circle.Pos.Sub(v1)
		dist := toCenter.Magnitude()
		if dist > circle.Radius {
			return nil
		}
		if dist > 1e-9 {
			normal = toCenter.Scale(1 / dist)
		} else {
			normal = defaultSeparationNormal
		}
		penetration = circle.Radius - dist
	} else if t > 1 {
		toCenter := circle.Pos.Sub(v2)
		dist := toCenter.Magnitude()
		if dist > circle.Radius {
			return nil
		}
		if dist > 1e-9 {
			normal = toCenter.Scale(1 / dist)
		} else {
			normal = defaultSeparationNormal
		}
		penetration = circle.Radius - dist
	} else {
		edgeNormal := edgeVec.Perp().Normalize().Scale(-1)
		normal = edgeNormal
		penetration = circle.Radius - bestDist
	}

	contact := circle.Pos.Sub(normal.Scale(circle.Radius))

	return &Manifold{
		BodyA: circle, BodyB: poly,
		Normal:        normal.Scale(-1),
		Penetration:   penetration,
		ContactPoints: []Vector2{contact},
		Restitution:   sharedRestitution(circle, poly),
		Friction:      sharedFriction(circle, poly),
	}
}

// satAxis is a candidate separating axis together with the support
// point used to resolve which polygon it came from.
type satAxis struct {
	normal Vector2
}

func polygonAxes(verts []Vector2) []satAxis {
	n := len(verts)
	axes := make([]satAxis, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		edge := verts[j].Sub(verts[i])
		axes[i] = satAxis{normal: edge.Perp().Normalize().Scale(-1)}
	}
	return axes
}

func projectPolygon(verts []Vector2, axis Vector2) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		p := v.Dot(axis)
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return
}

// collidePolygonPolygon implements the SAT test of spec.md §4.5 for
// polygon-polygon, polygon-rectangle, and polygon-triangle pairs
// (rectangles and triangles are just polygons with 4 and 3 vertices).
func collidePolygonPolygon(a, b *Body) *Manifold {
	if len(a.WorldVertices) < 3 || len(b.WorldVertices) < 3 {
		return nil
	}

	minOverlap := math.Inf(1)
	var minAxis Vector2

	axesA := polygonAxes(a.WorldVertices)
	axesB := polygonAxes(b.WorldVertices)

	for _, axes := range [][]satAxis{axesA, axesB} {
		for _, ax := range axes {
			aMin, aMax := projectPolygon(a.WorldVertices, ax.normal)
			bMin, bMax := projectPolygon(b.WorldVertices, ax.normal)

			overlap := math.Min(aMax, bMax) - math.Max(aMin, bMin)
			if overlap <= 0 {
				return nil // a separating axis exists: no contact
			}
			if overlap < minOverlap {
				minOverlap = overlap
				minAxis = ax.normal
			}
		}
	}

	// Normal must point from A to B.
	centerDelta := b.Centroid.Sub(a.Centroid)
	if minAxis.Dot(centerDelta) < 0 {
		minAxis = minAxis.Scale(-1)
	}

	contacts := clipContactPoints(a.WorldVertices, b.WorldVertices, minAxis)
	if len(contacts) == 0 {
		mid := a.Centroid.Lerp(b.Centroid, 0.5)
		contacts = []Vector2{mid}
	}

	return &Manifold{
		BodyA: a, BodyB: b,
		Normal:        minAxis,
		Penetration:   minOverlap,
		ContactPoints: contacts,
		Restitution:   sharedRestitution(a, b),
		Friction:      sharedFriction(a, b),
	}
}

// clipContactPoints finds the reference edge on A (the one facing B,
// i.e. most parallel to the A-to-B normal) and the incident edge on B
// (most anti-parallel to it), then clips the incident edge against the
// reference edge's side planes to produce 1 or 2 contact points, per
// spec.md §4.5.
func clipContactPoints(vertsA, vertsB []Vector2, normal Vector2) []Vector2 {
	refV1, refV2 := bestEdge(vertsA, normal.Scale(-1))
	incV1, incV2 := bestEdge(vertsB, normal)

	tangent := refV2.Sub(refV1).Normalize()
	if tangent.MagnitudeSquared() == 0 {
		return nil
	}

	points := []Vector2{incV1, incV2}

	points = clipSegment(points, tangent.Scale(-1), -tangent.Dot(refV1))
	if len(points) < 2 {
		return points
	}
	points = clipSegment(points, tangent, tangent.Dot(refV2))
	return points
}

// bestEdge returns the edge of verts whose outward normal is most
// anti-parallel to the given direction.
func bestEdge(verts []Vector2, normal Vector2) (v1, v2 Vector2) {
	n := len(verts)
	best := math.Inf(1)
	bestIdx := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		edge := verts[j].Sub(verts[i])
		edgeNormal := edge.Perp().Normalize().Scale(-1)
		d := edgeNormal.Dot(normal)
		if d < best {
			best = d
			bestIdx = i
		}
	}
	return verts[bestIdx], verts[(bestIdx+1)%n]
}

// clipSegment clips the 2-point segment against the half-plane
// {p : p.Dot(normal) <= offset}, Sutherland-Hodgman style for a single
// plane, returning 1 or 2 surviving points.
func clipSegment(points []Vector2, normal Vector2, offset float64) []Vector2 {
	if len(points) < 2 {
		return points
	}
	out := make([]Vector2, 0, 2)

	d0 := normal.Dot(points[0]) - offset
	d1 := normal.Dot(points[1]) - offset

	if d0 <= 0 {
		out = append(out, points[0])
	}
	if d1 <= 0 {
		out = append(out, points[1])
	}
	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		out = append(out, points[0].Lerp(points[1], t))
	}
	return out
}

// collideBodyBoundary treats the boundary as a half-plane and projects
// the body's extent (vertices, or circle center +/- radius along the
// normal) onto the normal; deepest penetration beyond the plane yields
// the contact (spec.md §4.5).
func collideBodyBoundary(body *Body, bd *Boundary) *Manifold {
	// bd.Normal points from the wall into the playfield, i.e. from B
	// (the boundary) towards A (the body); the manifold convention is
	// the opposite (A to B), so every normal below is negated.
	switch body.Kind {
	case KindCircle:
		dist := bd.signedDistance(body.Pos) - body.Radius
		if dist >= 0 {
			return nil
		}
		contact := body.Pos.Sub(bd.Normal.Scale(body.Radius))
		return &Manifold{
			Normal:        bd.Normal.Scale(-1),
			Penetration:   -dist,
			ContactPoints: []Vector2{contact},
			Restitution:   sharedRestitution(body, bd.asBody()),
			Friction:      sharedFriction(body, bd.asBody()),
		}
	default:
		worstDist := math.Inf(1)
		var worstPoint Vector2
		for _, v := range body.WorldVertices {
			d := bd.signedDistance(v)
			if d < worstDist {
				worstDist = d
				worstPoint = v
			}
		}
		if len(body.WorldVertices) == 0 || worstDist >= 0 {
			return nil
		}
		return &Manifold{
			Normal:        bd.Normal.Scale(-1),
			Penetration:   -worstDist,
			ContactPoints: []Vector2{worstPoint},
			Restitution:   sharedRestitution(body, bd.asBody()),
			Friction:      sharedFriction(body, bd.asBody()),
		}
	}
}
