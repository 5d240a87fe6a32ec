package gravity

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

/*

image output section

*/

// A RenderJob pairs a frame number with the snapshot to draw.
type RenderJob struct {
	Frame  int
	Bodies []BodyState
}

// A Renderer draws snapshots to numbered PNG files in Dir.
type Renderer struct {
	Width, Height int
	CamDist       float64 // camera distance from the origin
	FOV           float64 // vertical field of view, degrees
	SpinDeg       float64 // per-frame scene rotation about Y, degrees
	AxisLength    float64
	Dir           string
}

// NewRenderer returns a renderer with defaults sized for the demo
// scenes, writing frames into dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{
		Width:      1024,
		Height:     768,
		CamDist:    40,
		FOV:        45,
		SpinDeg:    0.25,
		AxisLength: 20,
		Dir:        dir,
	}
}

// RenderFrames drains ch, writing one PNG per job.
func (r *Renderer) RenderFrames(wg *sync.WaitGroup, ch <-chan *RenderJob) {
	defer wg.Done()

	campos := mgl64.Vec3{1, 0.5, 1}.
		Normalize().
		Mul(r.CamDist)
	view := mgl64.LookAtV(
		campos,
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(mgl64.DegToRad(r.FOV), float64(r.Width)/float64(r.Height), 0.1, 1000)
	vp := proj.Mul4(view)

	blackbg := image.NewUniform(color.Black)
	zero := mgl64.Vec3{}

	for job := range ch {
		rot := mgl64.HomogRotate3DY(mgl64.DegToRad(float64(job.Frame) * r.SpinDeg))
		rvp := vp.Mul4(rot) // rotated view-projection matrix for this frame

		film := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
		draw.Draw(film, film.Bounds(), blackbg, image.Point{}, draw.Src)

		plotline3d(film, red, rvp, zero, mgl64.Vec3{r.AxisLength, 0, 0})
		plotline3d(film, green, rvp, zero, mgl64.Vec3{0, r.AxisLength, 0})
		plotline3d(film, blue, rvp, zero, mgl64.Vec3{0, 0, r.AxisLength})

		// trails first so the bodies draw on top of them
		for i := range job.Bodies {
			b := &job.Bodies[i]
			faded := fade(b.Color)
			for t := 1; t < len(b.Trail); t++ {
				plotline3d(film, faded, rvp, b.Trail[t-1], b.Trail[t])
			}
		}

		for i := range job.Bodies {
			b := &job.Bodies[i]
			x, y, pr, ok := project(rvp, b.Pos, b.Radius, film.Bounds())
			if !ok {
				continue
			}
			plotcirclefilled(film, b.Color, x, y, pr)
		}

		file, err := os.Create(filepath.Join(r.Dir, fmt.Sprintf("%010d.png", job.Frame)))
		if err != nil {
			panic(err)
		}
		png.Encode(file, film)
		file.Close()
	}
}

// project maps a world position to screen coordinates plus the
// perspective-scaled pixel radius. ok is false behind the camera.
func project(vp mgl64.Mat4, p mgl64.Vec3, radius float64, bounds image.Rectangle) (x, y, pr int, ok bool) {
	t := vp.Mul4x1(p.Vec4(1))
	if t[3] < 0.1 {
		return 0, 0, 0, false
	}
	t = t.Mul(1 / t[3]) // t in NDC space
	x, y = mgl64.GLToScreenCoords(t.X(), t.Y(), bounds.Dx(), bounds.Dy())

	// perceived size: distance between the projected center and a point
	// on the surface
	pr = 1
	e := vp.Mul4x1(p.Add(mgl64.Vec3{radius, 0, 0}).Vec4(1))
	if e[3] >= 0.1 {
		e = e.Mul(1 / e[3])
		ex, ey := mgl64.GLToScreenCoords(e.X(), e.Y(), bounds.Dx(), bounds.Dy())
		if d := abs(ex - x); d > pr {
			pr = d
		}
		if d := abs(ey - y); d > pr {
			pr = d
		}
	}
	return x, y, pr, true
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

// fade dims a color for trail rendering.
func fade(c color.RGBA) color.RGBA {
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, 255}
}

// plotline draws a simple line on img from (x0,y0) to (x1,y1).
//
// This is basically a copy of a version of Bresenham's line algorithm
// from https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func plotline(img draw.Image, c color.Color, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// abs cuz no integer abs function in the Go standard library.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// plotcirclefilled draws a filled circle at (x0,y0) of radius r.
func plotcirclefilled(img draw.Image, c color.Color, x0, y0, r int) {
	rsqr := float64(r * r)
	for y := r; y >= 0; y-- {
		xright := int(math.Sqrt(rsqr - float64(y*y)))
		for x := -xright; x <= xright; x++ {
			img.Set(x0+x, y0+y, c)
			img.Set(x0+x, y0-y, c)
		}
	}
}

// plotline3d draws a line from p1 to p2.
func plotline3d(img draw.Image, c color.Color, vp mgl64.Mat4, p1, p2 mgl64.Vec3) {
	t1 := vp.Mul4x1(p1.Vec4(1))
	t2 := vp.Mul4x1(p2.Vec4(1))

	// fix lines going behind the camera by clipping them to the 3D
	// point on the W=0.1 plane
	fix2 := false
	switch {
	case t1[3] <= 0 && t2[3] <= 0:
		return

	case t1[3] < 0: // t1 low, t2 high
		lerpwto0(&t1, &t2)
		t2, t1 = t1, t2 // swap so only x2,y2 need be checked later
		fix2 = true

	case t2[3] < 0: // t2 low, t1 high
		lerpwto0(&t2, &t1)
		fix2 = true
	}

	t1 = t1.Mul(1 / t1[3]) // t in NDC space
	t2 = t2.Mul(1 / t2[3])

	x1, y1 := mgl64.GLToScreenCoords(t1.X(), t1.Y(), img.Bounds().Dx(), img.Bounds().Dy())
	x2, y2 := mgl64.GLToScreenCoords(t2.X(), t2.Y(), img.Bounds().Dx(), img.Bounds().Dy())

	// correct x2,y2 by clipping to the image bounds
	if fix2 {
		dx := float64(x1 - x2)
		dy := float64(y1 - y2)
		var tx, ty float64
		switch {
		case dx == 0:
			tx = -1
		case dx < 0: // x2 beyond image right
			tx = unlerp(float64(img.Bounds().Dx()), float64(x2), float64(x1))
		case dx > 0: // x2 beyond image left
			tx = unlerp(0, float64(x2), float64(x1))
		}
		switch {
		case dy == 0:
			ty = -1
		case dy < 0: // y2 beyond image bottom
			ty = unlerp(float64(img.Bounds().Dy()), float64(y2), float64(y1))
		case dy > 0: // y2 beyond image top
			ty = unlerp(0, float64(y2), float64(y1))
		}
		t := tx
		if ty > t {
			t = ty
		}
		x2 += int(t * dx)
		y2 += int(t * dy)
	}
	plotline(img, c, x1, y1, x2, y2)
}

func lerpwto0(low, high *mgl64.Vec4) {
	t := (0.1 - low[3]) / (high[3] - low[3])
	low[0] += t * (high[0] - low[0])
	low[1] += t * (high[1] - low[1])
	low[2] += t * (high[2] - low[2])
	low[3] = 0.1
}

func unlerp(x, low, high float64) float64 {
	return (x - low) / (high - low)
}
