package rigid2d

import "math"

// AABB (BoundRect in spec terms) is an axis-aligned bounding box.
// Invariant: Min <= Max on both axes.
type AABB struct {
	Min, Max Vector2
}

func NewAABB(min, max Vector2) AABB {
	return AABB{Min: min, Max: max}
}

func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

func (b AABB) Contains(p Vector2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (b AABB) Center() Vector2 {
	return Vector2{X: (b.Min.X + b.Max.X) * 0.5, Y: (b.Min.Y + b.Max.Y) * 0.5}
}

func (b AABB) Expand(margin float64) AABB {
	return AABB{
		Min: Vector2{X: b.Min.X - margin, Y: b.Min.Y - margin},
		Max: Vector2{X: b.Max.X + margin, Y: b.Max.Y + margin},
	}
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vector2{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Vector2{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// FromVertices returns the minimum enclosing AABB of a point set.
func FromVertices(vertices []Vector2) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	min, max := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return AABB{Min: min, Max: max}
}

// FromCircle returns the AABB enclosing a circle at center with radius r.
func FromCircle(center Vector2, r float64) AABB {
	return AABB{
		Min: Vector2{X: center.X - r, Y: center.Y - r},
		Max: Vector2{X: center.X + r, Y: center.Y + r},
	}
}
