package gravity

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds every tunable simulation parameter.
type Config struct {
	G            float64 // gravitational constant in scene units
	MaxStep      float64 // upper bound on one integration step, seconds
	Speed        float64 // multiplier applied to each tick's dt
	Restitution  float64 // 1 = elastic, 0 = perfectly inelastic
	Damping      float64 // post-impulse velocity multiplier, < 1
	MinDistScale float64 // gravity distance floor = (r_i+r_j)*MinDistScale
	TrailEvery   int     // append to trail every Nth integration step
	MaxTrail     int     // trail length cap
}

// DefaultConfig returns the parameters the demo scenes are tuned for.
func DefaultConfig() Config {
	return Config{
		G:            6.674,
		MaxStep:      0.001,
		Speed:        1,
		Restitution:  0.8,
		Damping:      0.98,
		MinDistScale: 2,
		TrailEvery:   3,
		MaxTrail:     1000,
	}
}

type command uint8

const (
	cmdTogglePause command = iota
	cmdReset
)

// A Factory produces the initial body set. It is called once at
// construction and again on every reset.
type Factory func() []*Body

// Sim owns the body collection and advances it tick by tick. All
// methods except TogglePause and Reset must be called from the single
// goroutine driving Step.
type Sim struct {
	cfg     Config
	factory Factory
	bodies  []*Body
	paused  bool
	ticks   uint64

	commands chan command
	events   [][2]int
}

// NewSim builds a simulation from cfg and the factory's initial bodies.
func NewSim(cfg Config, factory Factory) *Sim {
	if cfg.MaxStep <= 0 {
		cfg.MaxStep = DefaultConfig().MaxStep
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	return &Sim{
		cfg:      cfg,
		factory:  factory,
		bodies:   factory(),
		commands: make(chan command, 16),
	}
}

// TogglePause requests a pause/resume flip. Safe to call from another
// goroutine; it takes effect at the top of the next tick.
func (s *Sim) TogglePause() { s.post(cmdTogglePause) }

// Reset requests replacement of the body set with a fresh one from the
// factory. The pause state is unaffected. Safe to call from another
// goroutine; it takes effect at the top of the next tick.
func (s *Sim) Reset() { s.post(cmdReset) }

func (s *Sim) post(c command) {
	select {
	case s.commands <- c:
	default: // queue full, drop the repeat
	}
}

func (s *Sim) drain() {
	for {
		select {
		case c := <-s.commands:
			switch c {
			case cmdTogglePause:
				s.paused = !s.paused
			case cmdReset:
				s.bodies = s.factory()
				s.ticks = 0
			}
		default:
			return
		}
	}
}

// Step advances the simulation by dt seconds of wall-clock time.
// Pending commands are applied first. A paused simulation or a
// non-positive dt makes the tick a no-op. The (speed-scaled) dt is
// subdivided into equal substeps no longer than Config.MaxStep, and
// each substep runs forces, integration, then collision resolution.
func (s *Sim) Step(dt float64) {
	s.drain()
	s.events = s.events[:0]
	if s.paused || dt <= 0 {
		return
	}

	dt *= s.cfg.Speed
	n := int(math.Ceil(dt / s.cfg.MaxStep))
	if n < 1 {
		n = 1
	}
	h := dt / float64(n)

	for sub := 0; sub < n; sub++ {
		accumulate(s.bodies, s.cfg.G, s.cfg.MinDistScale)

		for _, b := range s.bodies {
			b.step(h, s.cfg.TrailEvery, s.cfg.MaxTrail)
		}

		for i := 0; i < len(s.bodies)-1; i++ {
			for j := i + 1; j < len(s.bodies); j++ {
				if colliding(s.bodies[i], s.bodies[j]) &&
					resolve(s.bodies[i], s.bodies[j], s.cfg.Restitution, s.cfg.Damping) {
					s.events = append(s.events, [2]int{i, j})
				}
			}
		}
	}

	s.ticks++
}

// Paused reports whether the simulation is paused.
func (s *Sim) Paused() bool { return s.paused }

// Ticks is the number of non-paused ticks since construction or the
// last reset or restore.
func (s *Sim) Ticks() uint64 { return s.ticks }

// Bodies returns the live body slice, owned by the simulation. Callers
// may only touch it between ticks.
func (s *Sim) Bodies() []*Body { return s.bodies }

// Collisions returns the pairs (by index) that collided during the
// last tick. Valid until the next call to Step.
func (s *Sim) Collisions() [][2]int { return s.events }

// A BodyState is the renderer-facing view of one body.
type BodyState struct {
	ID     uint64
	Pos    mgl64.Vec3
	Radius float64
	Color  color.RGBA
	Trail  []mgl64.Vec3
}

// Snapshot copies the renderable state of every body, including its
// trail, oldest position first.
func (s *Sim) Snapshot() []BodyState {
	out := make([]BodyState, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = BodyState{
			ID:     b.ID,
			Pos:    b.Pos,
			Radius: b.Radius,
			Color:  b.Color,
			Trail:  append([]mgl64.Vec3(nil), b.trail...),
		}
	}
	return out
}

// A Frame is a full copy of the simulation state at one tick, suitable
// for recording or persistence.
type Frame struct {
	Tick   uint64
	Bodies []Body
}

// Frame copies the full body set. Trails are not included.
func (s *Sim) Frame() *Frame {
	bodies := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		bodies[i] = *b
		bodies[i].trail = nil
	}
	return &Frame{Tick: s.ticks, Bodies: bodies}
}

// Restore replaces the simulation state with a previously captured
// frame. The factory is untouched, so a later reset still rebuilds the
// original scene.
func (s *Sim) Restore(frame *Frame) {
	bodies := make([]*Body, len(frame.Bodies))
	for i := range frame.Bodies {
		b := frame.Bodies[i]
		bodies[i] = &b
	}
	s.bodies = bodies
	s.ticks = frame.Tick
}

// Report writes per-body speed and distance from origin to w.
func (s *Sim) Report(w io.Writer) {
	fmt.Fprintf(w, "bodies: %d\n", len(s.bodies))
	for i, b := range s.bodies {
		fmt.Fprintf(w, "body %d: speed=%.3f origin=%.3f\n", i, b.Speed(), b.OriginDistance())
	}
}
