package gravity

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSaveLoadState(t *testing.T) {
	sim := NewSim(DefaultConfig(), func() []*Body {
		return []*Body{
			{ID: 0, Mass: 5000, Radius: 1.5, Fixed: true},
			{ID: 1, Mass: 10, Radius: 0.3, Pos: mgl64.Vec3{5, 0, 0}, Vel: mgl64.Vec3{0, 0, 81}},
		}
	})
	for i := 0; i < 25; i++ {
		sim.Step(1.0 / 60)
	}

	path := filepath.Join(t.TempDir(), "sim.state")
	if err := SaveState(path, sim.Frame()); err != nil {
		t.Fatal(err)
	}

	frame, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Tick != 25 {
		t.Errorf("tick = %d, want 25", frame.Tick)
	}
	if len(frame.Bodies) != 2 {
		t.Fatalf("loaded %d bodies, want 2", len(frame.Bodies))
	}

	orig := sim.Bodies()[1]
	got := frame.Bodies[1]
	if got.Pos != orig.Pos || got.Vel != orig.Vel {
		t.Errorf("body state mismatch:\ngot  %v %v\nwant %v %v", got.Pos, got.Vel, orig.Pos, orig.Vel)
	}
	if got.Mass != orig.Mass || got.Radius != orig.Radius {
		t.Errorf("mass/radius mismatch: %v/%v vs %v/%v", got.Mass, got.Radius, orig.Mass, orig.Radius)
	}
	if !frame.Bodies[0].Fixed {
		t.Error("fixed flag lost in round trip")
	}
}

func TestLoadStateErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadState(filepath.Join(dir, "missing.state")); err == nil {
		t.Error("expected error for missing file")
	}
}
