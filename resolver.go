package rigid2d

import "math"

type contactKey struct {
	a, b uint64
}

func pairKey(a, b *Body) contactKey {
	if a.ID < b.ID {
		return contactKey{a.ID, b.ID}
	}
	return contactKey{b.ID, a.ID}
}

// ContactResolver converts manifolds into positional correction plus
// linear/angular impulses, and tracks contact-transition events
// (collided/separated) across steps (spec.md §4.6).
type ContactResolver struct {
	activePairs map[contactKey]struct{}
	bodies      map[contactKey][2]*Body // pair -> its two bodies for pairs currently in contact, so separated() can fire once a manifold stops being produced
	report      ErrorReporter
}

func NewContactResolver(report ErrorReporter) *ContactResolver {
	if report == nil {
		report = defaultErrorReporter
	}
	return &ContactResolver{
		activePairs: make(map[contactKey]struct{}),
		bodies:      make(map[contactKey][2]*Body),
		report:      report,
	}
}

// Resolve runs positional correction and impulse resolution over every
// manifold, then emits collided/separated callbacks for pairs that
// entered or left contact this step. Contact points within a manifold
// are processed in insertion order with no iterative solver
// (spec.md §4.6 tie-break).
func (r *ContactResolver) Resolve(manifolds []*Manifold) {
	seenThisStep := make(map[contactKey]struct{}, len(manifolds))

	for _, m := range manifolds {
		a, b := m.BodyA, m.BodyB
		key := pairKey(a, b)
		seenThisStep[key] = struct{}{}
		r.bodies[key] = [2]*Body{a, b}

		a.wake()
		b.wake()

		r.positionalCorrection(m)
		r.applyImpulses(m)

		if _, existed := r.activePairs[key]; !existed {
			r.emitCollided(a, b)
		}
		r.activePairs[key] = struct{}{}
	}

	for key := range r.activePairs {
		if _, stillActive := seenThisStep[key]; !stillActive {
			delete(r.activePairs, key)
			r.emitSeparatedByKey(key)
		}
	}
}

func (r *ContactResolver) emitCollided(a, b *Body) {
	safeCall(r.report, "collided", func() {
		if a.Collided != nil {
			a.Collided(b)
		}
	})
	safeCall(r.report, "collided", func() {
		if b.Collided != nil {
			b.Collided(a)
		}
	})
}

func (r *ContactResolver) emitSeparated(a, b *Body) {
	safeCall(r.report, "separated", func() {
		if a.Separated != nil {
			a.Separated()
		}
	})
	safeCall(r.report, "separated", func() {
		if b.Separated != nil {
			b.Separated()
		}
	})
}

// emitSeparatedByKey looks up the two bodies of a pair that stopped
// producing a manifold this step, using the pair->bodies map populated
// the last time that pair was resolved, and fires separated() on each.
func (r *ContactResolver) emitSeparatedByKey(key contactKey) {
	if pair, ok := r.bodies[key]; ok {
		r.emitSeparated(pair[0], pair[1])
	}
	delete(r.bodies, key)
}

// positionalCorrection shifts A and B apart along the contact normal,
// proportional to inverse mass (spec.md §4.6 step 1).
func (r *ContactResolver) positionalCorrection(m *Manifold) {
	a, b := m.BodyA, m.BodyB
	totalInvMass := a.InverseMass + b.InverseMass
	if totalInvMass == 0 {
		return
	}

	shiftA := m.Normal.Scale(m.Penetration * (a.InverseMass / totalInvMass))
	shiftB := m.Normal.Scale(m.Penetration * (b.InverseMass / totalInvMass))

	if a.InverseMass > 0 {
		a.SetPos(a.Pos.Sub(shiftA))
	}
	if b.InverseMass > 0 {
		b.SetPos(b.Pos.Add(shiftB))
	}
}

// applyImpulses runs the per-contact-point normal + friction impulse
// pass of spec.md §4.6 step 2.
func (r *ContactResolver) applyImpulses(m *Manifold) {
	a, b := m.BodyA, m.BodyB
	n := m.Normal
	contactCount := float64(len(m.ContactPoints))
	if contactCount == 0 {
		return
	}

	for _, point := range m.ContactPoints {
		rA := point.Sub(a.Centroid)
		rB := point.Sub(b.Centroid)

		velA := a.V.Add(CrossScalar(a.Omega, rA))
		velB := b.V.Add(CrossScalar(b.Omega, rB))
		vRel := velB.Sub(velA)

		vN := vRel.Dot(n)
		if vN > 0 {
			continue // separating
		}

		rACrossN := rA.Cross(n)
		rBCrossN := rB.Cross(n)
		k := a.InverseMass + b.InverseMass +
			rACrossN*rACrossN*a.InverseRotInertia +
			rBCrossN*rBCrossN*b.InverseRotInertia
		if k <= 0 {
			continue
		}

		j := -(1 + m.Restitution) * vN / k / contactCount
		impulse := n.Scale(j)

		applyLinearAngularImpulse(a, impulse.Scale(-1), rA)
		applyLinearAngularImpulse(b, impulse, rB)

		r.applyFriction(m, a, b, rA, rB, n, j, contactCount)
	}
}

func applyLinearAngularImpulse(b *Body, impulse Vector2, r Vector2) {
	if b.InverseMass == 0 && b.InverseRotInertia == 0 {
		return
	}
	b.V = b.V.Add(impulse.Scale(b.InverseMass))
	b.Omega += r.Cross(impulse) * b.InverseRotInertia
}

// applyFriction implements the Coulomb-friction pass of spec.md §4.6,
// clamped to |jT| <= mu*|j| with mu = sqrt(muA*muB).
func (r *ContactResolver) applyFriction(m *Manifold, a, b *Body, rA, rB, n Vector2, j, contactCount float64) {
	velA := a.V.Add(CrossScalar(a.Omega, rA))
	velB := b.V.Add(CrossScalar(b.Omega, rB))
	vRel := velB.Sub(velA)

	vN := vRel.Dot(n)
	tangentVec := vRel.Sub(n.Scale(vN))
	tangentMag := tangentVec.Magnitude()
	if tangentMag < 1e-9 {
		return
	}
	t := tangentVec.Scale(1 / tangentMag)

	rACrossT := rA.Cross(t)
	rBCrossT := rB.Cross(t)
	k := a.InverseMass + b.InverseMass +
		rACrossT*rACrossT*a.InverseRotInertia +
		rBCrossT*rBCrossT*b.InverseRotInertia
	if k <= 0 {
		return
	}

	jT := -vRel.Dot(t) / k / contactCount

	maxFriction := m.Friction * math.Abs(j)
	if jT > maxFriction {
		jT = maxFriction
	} else if jT < -maxFriction {
		jT = -maxFriction
	}

	frictionImpulse := t.Scale(jT)
	applyLinearAngularImpulse(a, frictionImpulse.Scale(-1), rA)
	applyLinearAngularImpulse(b, frictionImpulse, rB)
}
