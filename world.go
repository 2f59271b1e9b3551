package rigid2d

// WorldConfig carries the options recognized at World construction
// time (spec.md §6). Gravity/LinearDrag/AngularDrag are pointers so a
// host can explicitly configure a zero value (e.g. zero gravity) and
// have it stick instead of being silently replaced by the default;
// nil means "unspecified, use the default" (Float64Ptr/Vector2Ptr
// build these inline).
type WorldConfig struct {
	Gravity     *Vector2 `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	LinearDrag  *Vector2 `json:"linearDrag,omitempty" yaml:"linearDrag,omitempty"`
	AngularDrag *float64 `json:"angularDrag,omitempty" yaml:"angularDrag,omitempty"`

	Renderer Renderer
	OnError  ErrorReporter
}

// DefaultWorldConfig returns the spec.md §6 defaults.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:     Vector2Ptr(Vector2{X: 0, Y: 5}),
		LinearDrag:  Vector2Ptr(Vector2{X: 0.2, Y: 0}),
		AngularDrag: Float64Ptr(0.15),
	}
}

// Float64Ptr returns a pointer to v, for building WorldConfig/Nature
// fields that must distinguish an explicit zero from "unset".
func Float64Ptr(v float64) *float64 { return &v }

// Vector2Ptr is the Vector2 counterpart of Float64Ptr.
func Vector2Ptr(v Vector2) *Vector2 { return &v }

// World owns the five managers, the viewport size, and the current
// step count. Grounded on the teacher's PhysicsEngine, generalized to
// dispatch append/remove between Body and Boundary (spec.md §6).
type World struct {
	width, height float64

	heap       *BodyHeap
	boundaries *BoundaryManager
	forces     *ForceManager
	motion     *Motion

	gravityForce *LinearForce
	dragForce    *LinearForce
	angularDrag  *AngularForce

	renderer Renderer
	onError  ErrorReporter
}

// NewWorld constructs a World over a (width, height) viewport with the
// given configuration (spec.md §6: "World::new(containerSize, WorldConfig)").
func NewWorld(width, height float64, cfg WorldConfig) *World {
	if cfg.Renderer == nil {
		cfg.Renderer = NullRenderer{}
	}
	if cfg.OnError == nil {
		cfg.OnError = defaultErrorReporter
	}
	cfg = applyConfigDefaults(cfg)

	w := &World{
		width:      width,
		height:     height,
		heap:       NewBodyHeap(),
		boundaries: NewBoundaryManager(),
		forces:     NewForceManager(),
		renderer:   cfg.Renderer,
		onError:    cfg.OnError,
	}

	w.gravityForce = &LinearForce{Kind: ForceGravity, Value: *cfg.Gravity}
	w.dragForce = &LinearForce{Kind: ForceLinearDrag, Value: *cfg.LinearDrag}
	w.angularDrag = &AngularForce{Kind: ForceAngularDrag, Value: *cfg.AngularDrag}

	w.forces.AddLinearForce(w.gravityForce)
	w.forces.AddLinearForce(w.dragForce)
	w.forces.AddAngularForce(w.angularDrag)

	w.motion = NewMotion(w.heap, w.boundaries, w.forces, w.renderer, w.onError)

	return w
}

// applyConfigDefaults fills in any option left nil (unspecified) with
// the spec.md §6 default. A host that explicitly sets Gravity=(0,0),
// LinearDrag=(0,0), or AngularDrag=0 keeps that value: only a nil
// pointer counts as "not configured".
func applyConfigDefaults(cfg WorldConfig) WorldConfig {
	d := DefaultWorldConfig()
	if cfg.Gravity == nil {
		cfg.Gravity = d.Gravity
	}
	if cfg.LinearDrag == nil {
		cfg.LinearDrag = d.LinearDrag
	}
	if cfg.AngularDrag == nil {
		cfg.AngularDrag = d.AngularDrag
	}
	return cfg
}

// AppendBody inserts a dynamic body (spec.md §6 "append(body_or_list)").
func (w *World) AppendBody(b *Body) error {
	return w.heap.Append(b)
}

// AppendBoundary inserts or replaces a boundary wall.
func (w *World) AppendBoundary(b *Boundary) {
	w.boundaries.Append(b)
}

// AppendViewportBoundaries builds and inserts all four walls for this
// World's current viewport size.
func (w *World) AppendViewportBoundaries() {
	for _, b := range BuildViewportBoundaries(w.width, w.height) {
		w.boundaries.Append(b)
	}
}

func (w *World) RemoveBody(id uint64) {
	w.heap.Remove(id)
}

func (w *World) RemoveBoundary(side BoundarySide) {
	w.boundaries.Remove(side)
}

// Clear drops all bodies; boundaries persist (spec.md §6).
func (w *World) Clear() {
	w.heap.Clear()
}

// Bind forwards to the renderer (spec.md §6).
func (w *World) Bind(event string, fn func(...any)) {
	if w.renderer != nil {
		w.renderer.Bind(event, fn)
	}
}

func (w *World) Pause() { w.motion.Pause() }
func (w *World) Start() { w.motion.Start() }

// Step advances the simulation by exactly one tick, for hosts driving
// their own loop instead of Motion's internal ticker.
func (w *World) Step(dt float64) { w.motion.Step(dt) }

// GlobalForceUpdate carries a partial update for setGlobalForce
// (spec.md §6): a nil field leaves that parameter untouched.
type GlobalForceUpdate struct {
	Gravity     *Vector2
	LinearDrag  *Vector2
	AngularDrag *float64
}

// SetGlobalForce mutates gravity/linearDrag/angularDrag in place
// (spec.md §4.3, §6).
func (w *World) SetGlobalForce(update GlobalForceUpdate) {
	if update.Gravity != nil {
		w.gravityForce.Set(*update.Gravity)
	}
	if update.LinearDrag != nil {
		w.dragForce.Set(*update.LinearDrag)
	}
	if update.AngularDrag != nil {
		w.angularDrag.Set(*update.AngularDrag)
	}
}

func (w *World) AddWorldStepFn(fn StepFunc) {
	w.motion.AddWorldStepFn(fn)
}

func (w *World) GetWidth() float64  { return w.width }
func (w *World) GetHeight() float64 { return w.height }
func (w *World) GetBodyCount() int  { return w.heap.Len() }
func (w *World) GetBody(id uint64) (*Body, bool) { return w.heap.Get(id) }
func (w *World) StepCount() uint64  { return w.motion.StepCount() }

// Bodies returns a snapshot of the current body list: a fresh slice
// copy taken under BodyHeap's read lock, so the caller may retain and
// iterate it even while a concurrent Step()/AppendBody()/RemoveBody()
// mutates the live heap afterwards (spec.md §6).
func (w *World) Bodies() []*Body { return w.heap.Heap() }

// SetBodyPos, SetBodyRotation, SetBodyLinearVelocity, and
// SetBodyAngularVelocity are World-level wrappers over the
// corresponding Body setters (spec.md §5: "user code moves a body by
// calling setPos/setLinearVel, not by mutating pos directly"), for
// hosts that only hold a body id rather than a *Body.
func (w *World) SetBodyPos(id uint64, p Vector2) bool {
	b, ok := w.heap.Get(id)
	if !ok {
		return false
	}
	b.SetPos(p)
	return true
}

func (w *World) SetBodyRotation(id uint64, deg float64) bool {
	b, ok := w.heap.Get(id)
	if !ok {
		return false
	}
	b.SetRotation(deg)
	return true
}

func (w *World) SetBodyLinearVelocity(id uint64, v Vector2) bool {
	b, ok := w.heap.Get(id)
	if !ok {
		return false
	}
	b.SetLinearVelocity(v)
	return true
}

func (w *World) SetBodyAngularVelocity(id uint64, omega float64) bool {
	b, ok := w.heap.Get(id)
	if !ok {
		return false
	}
	b.SetAngularVelocity(omega)
	return true
}

// AttachBodyProxy binds a VisualProxy to the given body id, returning
// false if no such body exists.
func (w *World) AttachBodyProxy(id uint64, proxy VisualProxy) bool {
	b, ok := w.heap.Get(id)
	if !ok {
		return false
	}
	b.AttachProxy(proxy)
	return true
}
