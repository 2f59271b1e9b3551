package rigid2d

// VisualProxy is the per-body handle the core pushes integration
// results into (spec.md §6: "the core holds a visual proxy per body
// and calls proxy.setAttr(...) after each integration"). The renderer
// that implements it is an external collaborator out of scope for
// this module (spec.md §1).
type VisualProxy interface {
	SetAttr(name string, value float64)
}

// Renderer is the single handle the World calls into at the end of
// every step, replacing the source's process-wide broadcast bus with a
// directly-held reference (REDESIGN, spec.md §9).
type Renderer interface {
	Repaint()
	Bind(event string, fn func(...any))
}

// NullRenderer is a no-op Renderer for hosts or tests that only care
// about simulation state and never attach a real display.
type NullRenderer struct{}

func (NullRenderer) Repaint() {}
func (NullRenderer) Bind(string, func(...any)) {}
