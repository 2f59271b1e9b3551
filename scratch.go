package rigid2d

import (
	"math"
	"sync"
	"sync/atomic"
)

// SpatialGrid and WorkerPool are adapted from the teacher's
// PhysicsWorld internals. spec.md §5 mandates a single-threaded,
// synchronous Motion.Step, so neither type sits on that hot path
// anymore; they are kept as opt-in helpers for bulk scene construction
// (BuildSceneConcurrently) and for benchmarking the broad phase outside
// of a live World, per DESIGN.md's "adapt rather than delete" note.

// SpatialGrid is a uniform grid broad-phase index, useful for offline
// benchmarking CollisionManager against thousands of bodies without
// paying the teacher's original O(n^2) sweep.
type SpatialGrid struct {
	cells    map[gridCell][]*Body
	cellSize float64
	mu       sync.RWMutex
}

type gridCell struct{ x, y int }

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{cells: make(map[gridCell][]*Body), cellSize: cellSize}
}

func (g *SpatialGrid) Clear() {
	g.mu.Lock()
	g.cells = make(map[gridCell][]*Body)
	g.mu.Unlock()
}

func (g *SpatialGrid) Insert(b *Body) {
	minCell := g.cellOf(b.BoundRect.Min)
	maxCell := g.cellOf(b.BoundRect.Max)

	g.mu.Lock()
	for x := minCell.x; x <= maxCell.x; x++ {
		for y := minCell.y; y <= maxCell.y; y++ {
			c := gridCell{x, y}
			g.cells[c] = append(g.cells[c], b)
		}
	}
	g.mu.Unlock()
}

func (g *SpatialGrid) cellOf(p Vector2) gridCell {
	return gridCell{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// CandidatePairs returns every pair of bodies that share at least one
// grid cell, deduplicated, as a cheaper pre-filter than the naive
// all-pairs sweep CollisionManager.Detect runs by default.
func (g *SpatialGrid) CandidatePairs() [][2]*Body {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[[2]uint64]bool)
	var pairs [][2]*Body

	for _, bodies := range g.cells {
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				a, b := bodies[i], bodies[j]
				if isStaticPair(a, b) {
					continue
				}
				key := [2]uint64{a.ID, b.ID}
				if a.ID > b.ID {
					key = [2]uint64{b.ID, a.ID}
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				pairs = append(pairs, [2]*Body{a, b})
			}
		}
	}
	return pairs
}

// WorkerPool is the teacher's fixed-size goroutine pool, repurposed
// here for parallel bulk body construction (BuildSceneConcurrently)
// rather than the per-step physics path.
type WorkerPool struct {
	taskQueue  chan sceneTask
	wg         sync.WaitGroup
	quit       chan struct{}
	once       sync.Once
	activeJobs int64
	totalJobs  int64
}

type sceneTask struct {
	index   int
	execute func() (*Body, error)
	result  chan<- sceneResult
}

type sceneResult struct {
	index int
	body  *Body
	err   error
}

func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	wp := &WorkerPool{
		taskQueue: make(chan sceneTask, workers*8),
		quit:      make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case task := <-wp.taskQueue:
			atomic.AddInt64(&wp.activeJobs, 1)
			body, err := task.execute()
			atomic.AddInt64(&wp.activeJobs, -1)
			atomic.AddInt64(&wp.totalJobs, 1)
			select {
			case task.result <- sceneResult{index: task.index, body: body, err: err}:
			case <-wp.quit:
				return
			}
		case <-wp.quit:
			return
		}
	}
}

func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.quit)
		wp.wg.Wait()
	})
}

// BuildSceneConcurrently constructs len(specs) bodies in parallel
// across a WorkerPool, then appends them to the World in the
// deterministic order they were requested (never the order they
// finished), preserving BodyHeap's insertion-order guarantee.
func BuildSceneConcurrently(w *World, specs []BodyConfig, kinds []BodyKind, workers int) ([]*Body, error) {
	if len(specs) != len(kinds) {
		return nil, newConfigError("specs/kinds", ErrMissingShape)
	}

	pool := NewWorkerPool(workers)
	defer pool.Close()

	results := make(chan sceneResult, len(specs))
	for i := range specs {
		spec, kind := specs[i], kinds[i]
		pool.taskQueue <- sceneTask{
			index:   i,
			execute: func() (*Body, error) { return NewBody(spec, kind) },
			result:  results,
		}
	}

	// Results arrive in completion order, not request order; place each
	// one back at its requested index so BodyHeap.Append sees the
	// deterministic, insertion-stable order the caller asked for.
	ordered := make([]*Body, len(specs))
	for range specs {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		ordered[res.index] = res.body
	}

	for _, b := range ordered {
		if err := w.AppendBody(b); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
