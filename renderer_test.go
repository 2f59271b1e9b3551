package rigid2d

import "testing"

func TestNullRenderer_IsANoop(t *testing.T) {
	var r Renderer = NullRenderer{}
	r.Repaint()
	r.Bind("collide", func(...any) {})
}
