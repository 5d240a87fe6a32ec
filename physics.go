package gravity

/*

gravity section

*/

// accumulate adds the pairwise gravitational accelerations for every
// unordered pair of bodies. The distance used for both magnitude and
// direction is floored at (r_i+r_j)*minDistScale so near-contact pairs
// produce finite, stable forces. Fixed bodies accumulate like any
// other; they simply never consume what they accumulate.
func accumulate(bodies []*Body, g, minDistScale float64) {
	for i := 0; i < len(bodies)-1; i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]

			delta := b.Pos.Sub(a.Pos)
			d := delta.Len()
			if floor := (a.Radius + b.Radius) * minDistScale; d < floor {
				d = floor
			}

			f := g * (a.Mass * b.Mass) / (d * d) // magnitude of force
			force := delta.Mul(f / d)

			a.Acc = a.Acc.Add(force.Mul(1 / a.Mass))
			b.Acc = b.Acc.Sub(force.Mul(1 / b.Mass))
		}
	}
}
