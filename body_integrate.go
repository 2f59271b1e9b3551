package rigid2d

import "math"

// integratePosition performs semi-implicit Euler: v += a*dt; pos += v*dt.
func (b *Body) integratePosition(dt float64) {
	if b.Static == StaticTotal || b.Static == StaticPosition {
		return
	}
	b.V = b.V.Add(b.Acc.Scale(dt))
	delta := b.V.Scale(dt)
	b.Pos = b.Pos.Add(delta)
	b.updateBoundRect(deltaPosition, delta)
}

// integrateRotation advances angular velocity and orientation, then
// normalizes into [0,360) after the update (REDESIGN FLAG, spec.md
// §9: the source normalized before adding omega, letting Rot briefly
// exceed 360; this rewrite normalizes only after).
func (b *Body) integrateRotation(dt float64) {
	if b.Static == StaticTotal {
		return
	}
	b.Omega += b.Alpha * dt
	prevRot := b.Rot
	b.Rot = normalizeAngle(b.Rot + b.Omega*dt)
	if b.Rot != prevRot {
		b.updateBoundRect(deltaRotation, Vector2{})
	}
}

// update applies the force manager's registered generators, integrates
// both position and rotation, clears the accumulators, and pushes the
// integrated x/y/rotate into the visual proxy (spec.md §4.4).
func (b *Body) update(fm *ForceManager, dt float64) error {
	if b.State != StateSimulate {
		return nil
	}

	fm.applyLinearForce(b)
	fm.applyAngularForce(b)

	b.integratePosition(dt)
	b.integrateRotation(dt)

	fm.clear(b)

	if b.proxy != nil {
		b.proxy.SetAttr("x", b.Pos.X)
		b.proxy.SetAttr("y", b.Pos.Y)
		b.proxy.SetAttr("rotate", b.Rot)
	}

	if !b.V.IsFinite() || !b.Pos.IsFinite() || math.IsNaN(b.Omega) || math.IsInf(b.Omega, 0) {
		b.State = StateSleep
		b.V = Vector2{}
		b.Omega = 0
		return newDomainError(b.ID, ErrDegenerateShape)
	}
	return nil
}

// SetPos updates Pos, refreshes BoundRect by translation, and pushes
// the new position into the visual proxy (spec.md §4.4, §5: user code
// moves a body by calling this rather than mutating Pos directly, so
// BoundRect and the proxy never drift out of sync with it).
func (b *Body) SetPos(p Vector2) {
	delta := p.Sub(b.Pos)
	b.Pos = p
	b.updateBoundRect(deltaPosition, delta)
	if b.proxy != nil {
		b.proxy.SetAttr("x", p.X)
		b.proxy.SetAttr("y", p.Y)
	}
}

// SetRotation updates Rot (normalized to [0,360)), refreshes BoundRect,
// and pushes the new rotation into the visual proxy.
func (b *Body) SetRotation(deg float64) {
	b.Rot = normalizeAngle(deg)
	b.updateBoundRect(deltaRotation, Vector2{})
	if b.proxy != nil {
		b.proxy.SetAttr("rotate", b.Rot)
	}
}

// SetLinearVelocity assigns V directly, ignored for position-locked or
// fully static bodies.
func (b *Body) SetLinearVelocity(v Vector2) {
	if b.Static == StaticTotal || b.Static == StaticPosition {
		return
	}
	b.V = v
}

// SetAngularVelocity assigns Omega directly, ignored for fully static
// bodies.
func (b *Body) SetAngularVelocity(w float64) {
	if b.Static == StaticTotal {
		return
	}
	b.Omega = w
}

// AttachProxy binds a VisualProxy to the body and immediately syncs it
// with the body's current x/y/rotate (spec.md §6: "the core holds a
// visual proxy per body"). Passing nil detaches it.
func (b *Body) AttachProxy(p VisualProxy) {
	b.proxy = p
	if p == nil {
		return
	}
	p.SetAttr("x", b.Pos.X)
	p.SetAttr("y", b.Pos.Y)
	p.SetAttr("rotate", b.Rot)
}

// Shape returns the visual proxy descriptor a renderer needs to draw
// this body: center/radius for circles, world vertices otherwise.
func (b *Body) Shape() ShapeProxy {
	return b.getShape()
}

// pushMotionSample records |v|^2 + omega^2 into the fixed-size ring
// buffer used by the sleep heuristic (spec.md §3, §4.7). Sleeping
// bodies are never sampled (Open Question, decided in DESIGN.md).
func (b *Body) pushMotionSample() {
	if b.State == StateSleep {
		return
	}
	motion := b.V.MagnitudeSquared() + b.Omega*b.Omega
	b.CurMotion = motion
	b.motionSamples[b.sampleHead] = motion
	b.sampleHead = (b.sampleHead + 1) % sleepSampleCount
	if b.sampleCount < sleepSampleCount {
		b.sampleCount++
	}
}

// isTimeToSleep reports whether the ring buffer is full and the
// standard deviation of its samples falls below the sleep threshold.
func (b *Body) isTimeToSleep() bool {
	if b.sampleCount < sleepSampleCount {
		return false
	}
	mean := 0.0
	for _, s := range b.motionSamples {
		mean += s
	}
	mean /= float64(sleepSampleCount)

	variance := 0.0
	for _, s := range b.motionSamples {
		d := s - mean
		variance += d * d
	}
	variance /= float64(sleepSampleCount)

	return math.Sqrt(variance) < 500
}

func (b *Body) resetSleepSamples() {
	b.sampleCount = 0
	b.sampleHead = 0
	for i := range b.motionSamples {
		b.motionSamples[i] = 0
	}
}

func (b *Body) wake() {
	if b.Static == StaticTotal {
		return
	}
	if b.State == StateSleep {
		b.State = StateSimulate
		b.resetSleepSamples()
	}
}
