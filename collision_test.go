package gravity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCollidingDetection(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want bool
	}{
		{"separated", 3, false},
		{"touching", 2, true},
		{"overlapping", 1.5, true},
		{"coincident", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Body{Mass: 1, Radius: 1}
			b := &Body{Mass: 1, Radius: 1, Pos: mgl64.Vec3{tt.dist, 0, 0}}
			if got := colliding(a, b); got != tt.want {
				t.Errorf("colliding at distance %v = %v, want %v", tt.dist, got, tt.want)
			}
		})
	}
}

func TestResolveSeparatesOverlap(t *testing.T) {
	tests := []struct {
		name           string
		aFixed, bFixed bool
	}{
		{"both free", false, false},
		{"a fixed", true, false},
		{"b fixed", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Body{Mass: 4, Radius: 1, Fixed: tt.aFixed}
			b := &Body{Mass: 1, Radius: 1, Fixed: tt.bFixed, Pos: mgl64.Vec3{1.2, 0, 0}}

			if !resolve(a, b, 0.8, 0.98) {
				t.Fatal("resolve reported no overlap")
			}
			dist := b.Pos.Sub(a.Pos).Len()
			if dist < a.Radius+b.Radius-1e-9 {
				t.Errorf("still overlapping after resolve: dist=%v", dist)
			}
			if tt.aFixed && (a.Pos != mgl64.Vec3{}) {
				t.Errorf("fixed body displaced to %v", a.Pos)
			}
			if tt.bFixed && (b.Pos != mgl64.Vec3{1.2, 0, 0}) {
				t.Errorf("fixed body displaced to %v", b.Pos)
			}
		})
	}
}

func TestResolveCorrectionSplitByMass(t *testing.T) {
	// the heavier body moves less: 4:1 mass ratio splits the overlap 1:4
	a := &Body{Mass: 4, Radius: 1}
	b := &Body{Mass: 1, Radius: 1, Pos: mgl64.Vec3{1, 0, 0}}
	resolve(a, b, 0.8, 1)

	if got, want := a.Pos.X(), -0.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("heavy body moved to x=%v, want %v", got, want)
	}
	if got, want := b.Pos.X(), 1.8; math.Abs(got-want) > 1e-12 {
		t.Errorf("light body moved to x=%v, want %v", got, want)
	}
}

func TestResolveSeparatingContactSkipsImpulse(t *testing.T) {
	a := &Body{Mass: 1, Radius: 1, Vel: mgl64.Vec3{-1, 0, 0}}
	b := &Body{Mass: 1, Radius: 1, Pos: mgl64.Vec3{1.5, 0, 0}, Vel: mgl64.Vec3{1, 0, 0}}

	if !resolve(a, b, 0.8, 0.98) {
		t.Fatal("resolve reported no overlap")
	}
	if a.Vel != (mgl64.Vec3{-1, 0, 0}) || b.Vel != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("separating contact changed velocities: %v, %v", a.Vel, b.Vel)
	}
}

func TestResolveElasticHeadOn(t *testing.T) {
	// equal masses, e=1, no damping: velocities swap
	a := &Body{Mass: 1, Radius: 1, Vel: mgl64.Vec3{1, 0, 0}}
	b := &Body{Mass: 1, Radius: 1, Pos: mgl64.Vec3{1.5, 0, 0}, Vel: mgl64.Vec3{-1, 0, 0}}
	resolve(a, b, 1, 1)

	if diff := a.Vel.Sub(mgl64.Vec3{-1, 0, 0}).Len(); diff > 1e-12 {
		t.Errorf("a velocity = %v, want [-1 0 0]", a.Vel)
	}
	if diff := b.Vel.Sub(mgl64.Vec3{1, 0, 0}).Len(); diff > 1e-12 {
		t.Errorf("b velocity = %v, want [1 0 0]", b.Vel)
	}
}

func TestResolveFixedPartnerBounce(t *testing.T) {
	// bouncing off a fixed body returns e times the closing speed
	a := &Body{Mass: 5000, Radius: 1, Fixed: true}
	b := &Body{Mass: 2, Radius: 1, Pos: mgl64.Vec3{1.5, 0, 0}, Vel: mgl64.Vec3{-3, 0, 0}}
	resolve(a, b, 0.8, 1)

	if a.Pos != (mgl64.Vec3{}) || a.Vel != (mgl64.Vec3{}) {
		t.Errorf("fixed body mutated: pos=%v vel=%v", a.Pos, a.Vel)
	}
	if got, want := b.Vel.X(), 2.4; math.Abs(got-want) > 1e-12 {
		t.Errorf("bounce velocity = %v, want %v", got, want)
	}
}

func TestResolveBothFixed(t *testing.T) {
	a := &Body{Mass: 1, Radius: 1, Fixed: true}
	b := &Body{Mass: 1, Radius: 1, Fixed: true, Pos: mgl64.Vec3{1, 0, 0}}
	resolve(a, b, 0.8, 0.98)

	if a.Pos != (mgl64.Vec3{}) || b.Pos != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("fixed pair displaced: %v, %v", a.Pos, b.Pos)
	}
	if a.Vel != (mgl64.Vec3{}) || b.Vel != (mgl64.Vec3{}) {
		t.Errorf("fixed pair velocities changed: %v, %v", a.Vel, b.Vel)
	}
}

func TestResolveCoincidentCentersFallback(t *testing.T) {
	a := &Body{Mass: 1, Radius: 1}
	b := &Body{Mass: 1, Radius: 1}
	resolve(a, b, 0.8, 0.98)

	// fallback normal is +x: bodies separate along that axis
	if a.Pos.X() >= 0 || b.Pos.X() <= 0 {
		t.Errorf("expected separation along x, got %v and %v", a.Pos, b.Pos)
	}
	for _, body := range []*Body{a, b} {
		for i := 0; i < 3; i++ {
			if math.IsNaN(body.Pos[i]) || math.IsNaN(body.Vel[i]) {
				t.Fatalf("NaN state after coincident resolve: %+v", body)
			}
		}
	}
}

func TestResolveDampingApplied(t *testing.T) {
	// perfectly inelastic head-on with e=0 kills the closing velocity;
	// damping then scales what remains
	a := &Body{Mass: 1, Radius: 1, Vel: mgl64.Vec3{1, 1, 0}}
	b := &Body{Mass: 1, Radius: 1, Pos: mgl64.Vec3{1.5, 0, 0}, Vel: mgl64.Vec3{-1, 0, 0}}
	resolve(a, b, 0, 0.5)

	// normal component of a was 1, impulse removes 1 (e=0, equal mass
	// halves the closing speed each), tangential 1 survives, then x0.5
	if got, want := a.Vel.Y(), 0.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("tangential velocity after damping = %v, want %v", got, want)
	}
}
