// Package gravity implements a small gravitational n-body simulation
// with impulse-based collision handling.
package gravity

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// A Body is one simulated mass.
type Body struct {
	ID     uint64
	Mass   float64 // in whatever unit system the scene uses
	Radius float64 // collision and rendering size
	Fixed  bool    // immovable, but still exerts gravity

	Pos mgl64.Vec3
	Vel mgl64.Vec3
	Acc mgl64.Vec3 // accumulated each substep, cleared by step

	// visual only, the physics never reads it
	Color color.RGBA

	trail     []mgl64.Vec3
	trailTick int
}

// NewBody validates b and returns a heap copy of it with a clean
// acceleration and trail. Non-positive or non-finite mass and radius
// are configuration errors.
func NewBody(b Body) (*Body, error) {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return nil, fmt.Errorf("body %d: mass must be positive and finite, got %v", b.ID, b.Mass)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return nil, fmt.Errorf("body %d: radius must be positive and finite, got %v", b.ID, b.Radius)
	}
	b.Acc = mgl64.Vec3{}
	b.trail = nil
	b.trailTick = 0
	return &b, nil
}

// step advances velocity then position (semi-implicit Euler) over dt
// and clears the accumulated acceleration. Fixed bodies only clear.
// Every trailEvery'th call appends the new position to the trail,
// evicting the oldest entry beyond maxTrail.
func (b *Body) step(dt float64, trailEvery, maxTrail int) {
	if b.Fixed {
		b.Acc = mgl64.Vec3{}
		return
	}

	b.Vel = b.Vel.Add(b.Acc.Mul(dt))
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))

	b.trailTick++
	if trailEvery > 0 && b.trailTick%trailEvery == 0 {
		b.trail = append(b.trail, b.Pos)
		if maxTrail > 0 && len(b.trail) > maxTrail {
			n := copy(b.trail, b.trail[len(b.trail)-maxTrail:])
			b.trail = b.trail[:n]
		}
	}

	b.Acc = mgl64.Vec3{}
}

// Speed is the magnitude of the body's velocity.
func (b *Body) Speed() float64 { return b.Vel.Len() }

// OriginDistance is the body's distance from the world origin.
func (b *Body) OriginDistance() float64 { return b.Pos.Len() }

func (b Body) String() string {
	return fmt.Sprintf("m: %.4f r: %.2f\np: [%.2f, %.2f, %.2f]\nv: [%.2f, %.2f, %.2f]\n",
		b.Mass, b.Radius,
		b.Pos.X(), b.Pos.Y(), b.Pos.Z(),
		b.Vel.X(), b.Vel.Y(), b.Vel.Z())
}
