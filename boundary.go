package rigid2d

// BoundarySide names the four viewport walls.
type BoundarySide int

const (
	Top BoundarySide = iota
	Right
	Bottom
	Left
)

func (s BoundarySide) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Boundary is a half-plane with a normal pointing into the world. It
// is rigid (InverseMass == 0), cannot be integrated, and participates
// only as the B side of a contact (spec.md §3).
type Boundary struct {
	Side   BoundarySide
	Normal Vector2
	Offset float64 // signed distance of the plane from the origin, along Normal

	Friction    float64
	Restitution float64

	proxy *Body // stable synthetic body identity, built lazily by asBody
}

// asBody returns a stable synthetic Body standing in for the boundary
// in collision manifolds and the contact-event tracking set, so the
// same pointer/ID identifies this boundary across steps.
func (bd *Boundary) asBody() *Body {
	if bd.proxy == nil {
		bd.proxy = &Body{
			ID:          boundaryIDBase + uint64(bd.Side) + 1,
			Kind:        KindRectangle,
			InverseMass: 0,
			Static:      StaticTotal,
			State:       StateSimulate,
			Friction:    bd.Friction,
			Restitution: bd.Restitution,
		}
	}
	return bd.proxy
}

// boundaryIDBase keeps synthetic boundary IDs out of the range
// BodyHeap hands out to real bodies (spec.md §4.2: boundaries are not
// stored in BodyHeap, so no collision with its own counter, but a
// disjoint range keeps contact-event keys unambiguous for hosts that
// inspect IDs directly).
const boundaryIDBase = uint64(1) << 62

// signedDistance returns how far p lies along Normal past the plane;
// negative means p is outside the playfield on that side.
func (bd *Boundary) signedDistance(p Vector2) float64 {
	return p.Dot(bd.Normal) - bd.Offset
}

// BoundaryManager holds up to four named half-planes derived from the
// viewport (width, height) at construction time (spec.md §4.2).
type BoundaryManager struct {
	sides map[BoundarySide]*Boundary
}

func NewBoundaryManager() *BoundaryManager {
	return &BoundaryManager{sides: make(map[BoundarySide]*Boundary)}
}

// BuildViewportBoundaries creates all four walls for a (width, height)
// viewport, with normals pointing inward.
func BuildViewportBoundaries(width, height float64) []*Boundary {
	return []*Boundary{
		{Side: Top, Normal: Vector2{X: 0, Y: 1}, Offset: 0, Friction: 0.3, Restitution: 0.9},
		{Side: Bottom, Normal: Vector2{X: 0, Y: -1}, Offset: -height, Friction: 0.3, Restitution: 0.9},
		{Side: Left, Normal: Vector2{X: 1, Y: 0}, Offset: 0, Friction: 0.3, Restitution: 0.9},
		{Side: Right, Normal: Vector2{X: -1, Y: 0}, Offset: -width, Friction: 0.3, Restitution: 0.9},
	}
}

func (m *BoundaryManager) Append(b *Boundary) {
	m.sides[b.Side] = b
}

func (m *BoundaryManager) Remove(side BoundarySide) {
	delete(m.sides, side)
}

func (m *BoundaryManager) Clear() {
	m.sides = make(map[BoundarySide]*Boundary)
}

// All returns the live boundaries for broad-phase iteration. Order is
// not significant since boundaries never collide with each other.
func (m *BoundaryManager) All() []*Boundary {
	out := make([]*Boundary, 0, len(m.sides))
	for _, b := range m.sides {
		out = append(out, b)
	}
	return out
}

func (m *BoundaryManager) Get(side BoundarySide) (*Boundary, bool) {
	b, ok := m.sides[side]
	return b, ok
}
