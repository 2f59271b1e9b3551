package rigid2d

import "sync"

// BodyHeap stores the live dynamic (non-boundary) bodies. Ordering is
// insertion-stable within a step (spec.md §9 "deterministic ordering"),
// matching the teacher's plain append-only PhysicsWorld.bodies slice,
// generalized with an id index for O(1) lookup (Remove finds its
// target in O(1) but then shifts the tail, which is O(n)).
//
// mu guards the slice/index bookkeeping only, not the bodies it holds:
// a concurrent GetBodyCount()/GetBody()/Heap() is then safe to run
// alongside Motion.Step() (which only appends/removes via user step
// functions, never field mutation on this structure itself), matching
// spec.md §5's single-writer stepping contract. Heap() hands back a
// copy rather than the live backing array, so a caller that retains
// the returned slice across a later Append/Remove never races on it.
type BodyHeap struct {
	mu     sync.RWMutex
	bodies []*Body
	index  map[uint64]int
	nextID uint64
}

func NewBodyHeap() *BodyHeap {
	return &BodyHeap{
		index: make(map[uint64]int),
	}
}

// Append inserts a body, assigning it an id if it does not already
// have one, and runs initBodyData/setMassData exactly once (on first
// insertion, i.e. while still StateInit) before transitioning it to
// StateSimulate.
func (h *BodyHeap) Append(b *Body) error {
	if b.hasDegenerateVertices() {
		return newConfigError("vertices", ErrDegenerateShape)
	}

	if b.State == StateInit {
		h.mu.Lock()
		if b.ID == 0 {
			h.nextID++
			b.ID = h.nextID
		}
		h.mu.Unlock()

		b.initBodyData()
		if b.Area <= 0 {
			return newConfigError("area", ErrNonPositiveArea)
		}
		if err := b.setMassData(); err != nil {
			return err
		}
		b.State = StateSimulate
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.index[b.ID] = len(h.bodies)
	h.bodies = append(h.bodies, b)
	return nil
}

// Remove deletes the body with the given id, if present. Any in-flight
// contact manifold referencing it is simply omitted from next step's
// broad phase since manifolds are transient per step (spec.md §4.1).
// O(n) acceptable (spec.md §4.1); a shift-preserving removal keeps
// BodyHeap insertion-ordered (spec.md §9), unlike a swap-with-last.
func (h *BodyHeap) Remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx, ok := h.index[id]
	if !ok {
		return
	}
	h.bodies = append(h.bodies[:idx], h.bodies[idx+1:]...)
	delete(h.index, id)
	for i := idx; i < len(h.bodies); i++ {
		h.index[h.bodies[i].ID] = i
	}
}

// Heap returns a snapshot copy of the current sequence: safe to keep
// and iterate even if Append/Remove runs concurrently afterwards,
// since it shares no backing array with h.bodies.
func (h *BodyHeap) Heap() []*Body {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Body, len(h.bodies))
	copy(out, h.bodies)
	return out
}

func (h *BodyHeap) Get(id uint64) (*Body, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	idx, ok := h.index[id]
	if !ok {
		return nil, false
	}
	return h.bodies[idx], true
}

func (h *BodyHeap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.bodies)
}

func (h *BodyHeap) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bodies = h.bodies[:0]
	h.index = make(map[uint64]int)
}
