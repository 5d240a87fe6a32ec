package gravity

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

/*

scene / initial condition section

*/

// OrbitalVelocity is the circular-orbit speed around mass m at range r.
func OrbitalVelocity(g, m, r float64) float64 {
	return math.Sqrt(g * m / r)
}

// DefaultScene builds the demo solar system: a fixed sun, four planets
// on (mostly) circular orbits, a moon around the second planet, and a
// small randomized asteroid belt. Orbits lie in the XZ plane.
func DefaultScene(g float64) []*Body {
	const sunMass = 5000.0

	bodies := []*Body{{
		Mass:   sunMass,
		Radius: 1.5,
		Fixed:  true,
		Color:  color.RGBA{255, 230, 77, 255},
	}}

	planets := []struct {
		r, scale, mass, radius, vy float64
		col                        color.RGBA
	}{
		{r: 5, scale: 0.95, mass: 10, radius: 0.3, col: color.RGBA{204, 102, 51, 255}},
		{r: 8, scale: 1, mass: 15, radius: 0.4, col: color.RGBA{51, 128, 255, 255}},
		{r: 12, scale: 1, mass: 20, radius: 0.5, col: color.RGBA{255, 77, 77, 255}},
		// slight y component gives the outer orbit a 3D tilt
		{r: 16, scale: 0.92, mass: 18, radius: 0.45, vy: 0.1, col: color.RGBA{128, 77, 204, 255}},
	}
	for _, p := range planets {
		v := OrbitalVelocity(g, sunMass, p.r) * p.scale
		bodies = append(bodies, &Body{
			Mass:   p.mass,
			Radius: p.radius,
			Pos:    mgl64.Vec3{p.r, 0, 0},
			Vel:    mgl64.Vec3{0, p.vy, v},
			Color:  p.col,
		})
	}

	// moon around planet 2: planet velocity plus its own orbital speed
	const moonOrbit = 1.2
	planet2 := bodies[2]
	bodies = append(bodies, &Body{
		Mass:   2,
		Radius: 0.15,
		Pos:    planet2.Pos.Add(mgl64.Vec3{moonOrbit, 0, 0}),
		Vel:    planet2.Vel.Add(mgl64.Vec3{0, 0, OrbitalVelocity(g, planet2.Mass, moonOrbit)}),
		Color:  color.RGBA{204, 204, 204, 255},
	})

	const asteroids = 8
	for i := 0; i < asteroids; i++ {
		angle := float64(i) * 2 * math.Pi / asteroids
		r := 9.5 + 0.3*(rand.Float64()-0.5)
		v := OrbitalVelocity(g, sunMass, r) * (0.98 + 0.04*rand.Float64())
		sin, cos := math.Sincos(angle)
		bodies = append(bodies, &Body{
			Mass:   0.5 + rand.Float64(),
			Radius: 0.05 + 0.05*rand.Float64(),
			Pos:    mgl64.Vec3{r * cos, 0, r * sin},
			Vel:    mgl64.Vec3{-v * sin, 0, v * cos},
			Color: color.RGBA{
				uint8(255 * (0.5 + 0.3*rand.Float64())),
				uint8(255 * (0.4 + 0.3*rand.Float64())),
				uint8(255 * (0.3 + 0.3*rand.Float64())),
				255,
			},
		})
	}

	for i := range bodies {
		bodies[i].ID = uint64(i)
	}
	return bodies
}

// SceneConfig mirrors the on-disk JSON scene format.
type SceneConfig struct {
	Name      string       `json:"name"`
	AutoOrbit bool         `json:"auto_orbit,omitempty"`
	Bodies    []BodyConfig `json:"bodies"`
}

// BodyConfig is one body in a scene file.
type BodyConfig struct {
	Mass   float64    `json:"mass"`
	Radius float64    `json:"radius"`
	Pos    [3]float64 `json:"pos"`
	Vel    [3]float64 `json:"vel"`
	Color  string     `json:"color,omitempty"`
	Fixed  bool       `json:"fixed,omitempty"`
}

// LoadScene reads a JSON scene file and builds its body set.
func LoadScene(path string, g float64) ([]*Body, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	var cfg SceneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return BuildScene(cfg, g)
}

// BuildScene validates and instantiates the configured bodies. With
// auto_orbit set, non-fixed bodies with zero velocity are given a
// circular orbit in the XZ plane around the first (central) body.
func BuildScene(cfg SceneConfig, g float64) ([]*Body, error) {
	if len(cfg.Bodies) == 0 {
		return nil, fmt.Errorf("scene %q has no bodies", cfg.Name)
	}

	bodies := make([]*Body, 0, len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		b, err := NewBody(Body{
			ID:     uint64(i),
			Mass:   bc.Mass,
			Radius: bc.Radius,
			Pos:    mgl64.Vec3{bc.Pos[0], bc.Pos[1], bc.Pos[2]},
			Vel:    mgl64.Vec3{bc.Vel[0], bc.Vel[1], bc.Vel[2]},
			Fixed:  bc.Fixed,
			Color:  parseColor(bc.Color),
		})
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", cfg.Name, err)
		}
		bodies = append(bodies, b)
	}

	if cfg.AutoOrbit {
		setOrbitalVelocities(bodies, g)
	}
	return bodies, nil
}

func setOrbitalVelocities(bodies []*Body, g float64) {
	central := bodies[0]
	for _, b := range bodies[1:] {
		if b.Fixed || b.Vel.Len() > 0 {
			continue
		}
		delta := b.Pos.Sub(central.Pos)
		r := delta.Len()
		if r == 0 {
			continue
		}
		v := OrbitalVelocity(g, central.Mass, r)
		// perpendicular to the radial direction, within the XZ plane
		b.Vel = central.Vel.Add(mgl64.Vec3{-delta.Z(), 0, delta.X()}.Mul(v / r))
	}
}

// parseColor accepts "#rrggbb". Anything else gets a default pale blue.
func parseColor(hex string) color.RGBA {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err == nil && n == 3 {
			return color.RGBA{r, g, b, 255}
		}
	}
	return color.RGBA{200, 200, 255, 255}
}
