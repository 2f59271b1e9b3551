package rigid2d

// BodyKind is the tagged-variant discriminant the spec calls for in
// place of class inheritance: narrow-phase and geometry-query sites
// switch on Kind instead of dynamic dispatch through an interface.
type BodyKind int

const (
	KindCircle BodyKind = iota
	KindPolygon
	KindTriangle
	KindRectangle
)

func (k BodyKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindTriangle:
		return "triangle"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// StaticMode controls how far a body is exempted from integration.
type StaticMode int

const (
	StaticNone StaticMode = iota
	StaticPosition
	StaticTotal
)

// BodyState is the sleep/wake state machine (spec.md §3, §4.7).
type BodyState int

const (
	StateInit BodyState = iota
	StateSimulate
	StateSleep
)

const sleepSampleCount = 20

// Body is a polymorphic rigid body. Shared fields live directly on the
// struct; shape-specific data (Radius, LocalVertices, WorldVertices)
// is only meaningful for the kinds that use it, selected via Kind.
type Body struct {
	ID uint64

	Kind BodyKind

	Pos Vector2
	Rot float64 // degrees, normalized to [0,360)

	Radius        float64
	LocalVertices []Vector2 // local frame, CCW winding
	WorldVertices []Vector2 // rebuilt on rotation/position change

	V     Vector2 // linear velocity
	Omega float64 // angular velocity
	Acc   Vector2 // linear acceleration accumulator
	Alpha float64 // angular acceleration accumulator
	Torque float64

	Mass        float64
	InverseMass float64
	Density     float64
	Friction    float64
	Restitution float64
	Area        float64
	Centroid    Vector2
	RotationInertia    float64
	InverseRotInertia  float64

	Static StaticMode
	State  BodyState

	IsCollide bool
	BoundRect AABB

	motionSamples [sleepSampleCount]float64
	sampleCount   int
	sampleHead    int
	CurMotion     float64

	Collided   func(other *Body)
	Separated  func()

	proxy VisualProxy
}

// Nature carries the material/kinematic options a host supplies at
// construction, mirroring spec.md §6 "Nature options". Restitution is
// a pointer so a host can explicitly request a perfectly inelastic
// body (Restitution: Float64Ptr(0)) instead of silently getting the
// 0.9 default; nil means "unspecified".
type Nature struct {
	Mass             float64
	Static           string // "none" | "position" | "total"
	LinearVelocity   Vector2
	AngularVelocity  float64
	Friction         float64
	Restitution      *float64
}

// ShapeSpec carries the geometric parameters for BodyConfig.shape.
type ShapeSpec struct {
	Radius  float64
	Width   float64
	Height  float64
	Vertices []Vector2 // polygon/triangle local vertices; rectangle derives from Width/Height if empty
}

// BodyConfig is the host-facing construction record (spec.md §6).
// Proxy, if non-nil, is attached and synced immediately (equivalent to
// calling AttachProxy right after NewBody).
type BodyConfig struct {
	Pos       Vector2
	Rot       float64
	Shape     ShapeSpec
	Nature    Nature
	Collided  func(other *Body)
	Separated func()
	Proxy     VisualProxy
}

func parseStatic(s string) StaticMode {
	switch s {
	case "position":
		return StaticPosition
	case "total":
		return StaticTotal
	default:
		return StaticNone
	}
}

// NewBody constructs a Body of the given kind from a BodyConfig. It
// does not yet insert the body into a World; initBodyData/setMassData
// run lazily on first BodyHeap.Append (spec.md §4.1) so standalone
// Bodies can be constructed and mutated before being simulated.
func NewBody(cfg BodyConfig, kind BodyKind) (*Body, error) {
	b := &Body{
		Kind:        kind,
		Pos:         cfg.Pos,
		Rot:         normalizeAngle(cfg.Rot),
		Radius:      cfg.Shape.Radius,
		V:           cfg.Nature.LinearVelocity,
		Omega:       cfg.Nature.AngularVelocity,
		Density:     0.01,
		Friction:    cfg.Nature.Friction,
		Restitution: 0.9,
		Static:      parseStatic(cfg.Nature.Static),
		State:       StateInit,
		Collided:    cfg.Collided,
		Separated:   cfg.Separated,
	}

	if cfg.Nature.Restitution != nil {
		b.Restitution = *cfg.Nature.Restitution
	}

	switch kind {
	case KindCircle:
		if b.Radius <= 0 {
			return nil, newConfigError("shape.radius", ErrMissingShape)
		}
	case KindRectangle:
		if len(cfg.Shape.Vertices) > 0 {
			if len(cfg.Shape.Vertices) != 4 {
				return nil, newConfigError("shape.vertices", ErrMissingShape)
			}
			b.LocalVertices = append([]Vector2(nil), cfg.Shape.Vertices...)
			break
		}
		if cfg.Shape.Width <= 0 || cfg.Shape.Height <= 0 {
			return nil, newConfigError("shape.width/height", ErrMissingShape)
		}
		hw, hh := cfg.Shape.Width/2, cfg.Shape.Height/2
		b.LocalVertices = []Vector2{
			{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
		}
	case KindTriangle, KindPolygon:
		if len(cfg.Shape.Vertices) < 3 {
			return nil, newConfigError("shape.vertices", ErrMissingShape)
		}
		if kind == KindTriangle && len(cfg.Shape.Vertices) != 3 {
			return nil, newConfigError("shape.vertices", ErrMissingShape)
		}
		b.LocalVertices = append([]Vector2(nil), cfg.Shape.Vertices...)
	default:
		return nil, newConfigError("kind", ErrUnknownBodyKind)
	}

	if cfg.Nature.Mass > 0 {
		b.Mass = cfg.Nature.Mass
	}

	if b.Static != StaticNone {
		b.V = Vector2{}
		if b.Static == StaticTotal {
			b.Omega = 0
		}
	}

	if cfg.Proxy != nil {
		b.AttachProxy(cfg.Proxy)
	}

	return b, nil
}

func (b *Body) hasDegenerateVertices() bool {
	for _, v := range b.LocalVertices {
		if !v.IsFinite() {
			return true
		}
	}
	return !b.Pos.IsFinite()
}

// vertexCount returns how many local vertices a polygon-family body has.
func (b *Body) vertexCount() int {
	return len(b.LocalVertices)
}
