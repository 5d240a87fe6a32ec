// Package view renders a running simulation in the terminal and feeds
// pause and reset commands back to it.
//
// Controls: Space pauses/resumes, R resets, C toggles the telemetry
// overlay, Esc or Q quits.
package view

import (
	"bufio"
	"bytes"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/quillaja/gravity"
)

const fps = 60

// Run drives sim inside a tcell screen until the user quits. Step is
// called from this goroutine only; the input goroutine communicates
// through the simulation's command queue and the local key channel.
func Run(sim *gravity.Sim) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	quit := make(chan struct{})
	keys := make(chan rune, 8)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					ev.Rune() == 'q' || ev.Rune() == 'Q':
					close(quit)
					return
				case ev.Rune() == ' ':
					sim.TogglePause()
				case ev.Rune() == 'r' || ev.Rune() == 'R':
					sim.Reset()
				case ev.Rune() == 'c' || ev.Rune() == 'C':
					select {
					case keys <- 'c':
					default:
					}
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / fps)
	defer ticker.Stop()

	showStats := false
	last := time.Now()
	for {
		select {
		case <-quit:
			return nil
		case r := <-keys:
			if r == 'c' {
				showStats = !showStats
			}
		case now := <-ticker.C:
			sim.Step(now.Sub(last).Seconds())
			last = now
			drawFrame(screen, sim, showStats)
		}
	}
}

// drawFrame projects the XZ orbital plane onto the terminal grid.
// Terminal cells are roughly twice as tall as wide, so the vertical
// scale is halved.
func drawFrame(screen tcell.Screen, sim *gravity.Sim, showStats bool) {
	screen.Clear()
	w, h := screen.Size()
	snap := sim.Snapshot()

	// fit the whole scene in the window
	extent := 1.0
	for i := range snap {
		if d := snap[i].Pos.Len() + snap[i].Radius; d > extent {
			extent = d
		}
	}
	scale := math.Min(float64(w-2)/(2*extent), float64(h-3)/extent)
	cx, cy := w/2, (h-1)/2

	cell := func(p [3]float64) (int, int) {
		return cx + int(p[0]*scale), cy + int(p[2]*scale/2)
	}

	for i := range snap {
		b := &snap[i]
		style := tcell.StyleDefault.Foreground(
			tcell.NewRGBColor(int32(b.Color.R), int32(b.Color.G), int32(b.Color.B)))

		for _, p := range b.Trail {
			x, y := cell(p)
			if x >= 0 && x < w && y >= 0 && y < h-1 {
				screen.SetContent(x, y, '·', nil, style.Dim(true))
			}
		}

		x, y := cell(b.Pos)
		if x < 0 || x >= w || y < 0 || y >= h-1 {
			continue
		}
		r := glyph(b.Radius)
		screen.SetContent(x, y, r, nil, style)
	}

	status := " space pause | r reset | c stats | q quit "
	if sim.Paused() {
		status += "| PAUSED "
	}
	drawText(screen, 0, h-1, status, tcell.StyleDefault.Reverse(true))

	if showStats {
		var buf bytes.Buffer
		sim.Report(&buf)
		y := 0
		sc := bufio.NewScanner(&buf)
		for sc.Scan() && y < h-1 {
			drawText(screen, 0, y, sc.Text(), tcell.StyleDefault)
			y++
		}
	}

	screen.Show()
}

func glyph(radius float64) rune {
	switch {
	case radius >= 1:
		return '●'
	case radius >= 0.25:
		return 'o'
	default:
		return '.'
	}
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
