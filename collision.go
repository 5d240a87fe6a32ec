package gravity

import "github.com/go-gl/mathgl/mgl64"

/*

collision section

*/

// below this separation the collision normal is unreliable and a fixed
// fallback axis is used instead
const normalEpsilon = 1e-3

// colliding reports sphere-sphere overlap between a and b.
func colliding(a, b *Body) bool {
	return b.Pos.Sub(a.Pos).Len() <= a.Radius+b.Radius
}

// resolve de-penetrates an overlapping pair and applies a restitution
// impulse to their velocities. Each pair is handled independently; no
// iterative contact solving happens across simultaneous collisions.
// Reports whether the pair actually overlapped.
func resolve(a, b *Body, restitution, damping float64) bool {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Len()
	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return false
	}

	normal := mgl64.Vec3{1, 0, 0}
	if dist > normalEpsilon {
		normal = delta.Mul(1 / dist)
	}

	// split the overlap inversely by mass: the heavier body moves less.
	// a fixed partner takes none of it.
	sep := normal.Mul(overlap)
	switch {
	case !a.Fixed && !b.Fixed:
		total := a.Mass + b.Mass
		a.Pos = a.Pos.Sub(sep.Mul(b.Mass / total))
		b.Pos = b.Pos.Add(sep.Mul(a.Mass / total))
	case a.Fixed && !b.Fixed:
		b.Pos = b.Pos.Add(sep)
	case !a.Fixed && b.Fixed:
		a.Pos = a.Pos.Sub(sep)
	}

	relative := b.Vel.Sub(a.Vel)
	along := relative.Dot(normal)
	if along > 0 {
		return true // already separating
	}

	var invA, invB float64
	if !a.Fixed {
		invA = 1 / a.Mass
	}
	if !b.Fixed {
		invB = 1 / b.Mass
	}
	if invA+invB == 0 {
		return true
	}

	j := -(1 + restitution) * along / (invA + invB)
	impulse := normal.Mul(j)

	// damping suppresses the energy gained from resolving the same
	// overlap across several substeps
	if !a.Fixed {
		a.Vel = a.Vel.Sub(impulse.Mul(invA)).Mul(damping)
	}
	if !b.Fixed {
		b.Vel = b.Vel.Add(impulse.Mul(invB)).Mul(damping)
	}
	return true
}
