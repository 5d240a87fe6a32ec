// Command gravity runs a small gravitational n-body simulation, either
// headless (recording body states to sqlite, PNG frames, or a state
// file) or interactively in the terminal.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/quillaja/gravity"
	"github.com/quillaja/gravity/view"
)

func main() {
	scenePath := flag.String("scene", "", "JSON scene file (default: built-in solar system)")
	statePath := flag.String("state", "", "simulation state to load")
	stateSave := flag.Bool("save", false, "set to save the final simulation state")
	seconds := flag.Float64("seconds", 60, "wall-clock seconds to simulate (headless)")
	tick := flag.Float64("tick", 1.0/60, "seconds per tick")
	speed := flag.Float64("speed", 1, "simulation speed multiplier")
	dbPath := flag.String("db", "", "record body states to this sqlite database")
	frameDir := flag.String("frames", "", "render PNG frames into this directory")
	live := flag.Bool("live", false, "interactive terminal viewer")
	flag.Parse()

	cfg := gravity.DefaultConfig()
	cfg.Speed = *speed

	factory := gravity.Factory(func() []*gravity.Body { return gravity.DefaultScene(cfg.G) })
	if *scenePath != "" {
		path := *scenePath
		factory = func() []*gravity.Body {
			bodies, err := gravity.LoadScene(path, cfg.G)
			if err != nil {
				fatal(err)
			}
			return bodies
		}
	}

	sim := gravity.NewSim(cfg, factory)

	if *statePath != "" {
		frame, err := gravity.LoadState(*statePath)
		if err != nil {
			fatal(err)
		}
		sim.Restore(frame)
	}

	if *live {
		if err := view.Run(sim); err != nil {
			fatal(err)
		}
		sim.Report(os.Stdout)
		return
	}

	ticks := int(*seconds / *tick)

	// output workers
	var (
		wg      sync.WaitGroup
		frames  chan *gravity.Frame
		renders chan *gravity.RenderJob
		db      *sql.DB
	)
	if *dbPath != "" {
		var err error
		db, err = gravity.OpenDB(*dbPath)
		if err != nil {
			fatal(err)
		}
		defer db.Close()
		frames = make(chan *gravity.Frame, 32)
		wg.Add(1)
		go gravity.RecordFrames(db, &wg, frames)
	}
	if *frameDir != "" {
		if err := os.MkdirAll(*frameDir, 0755); err != nil {
			fatal(err)
		}
		renders = make(chan *gravity.RenderJob, 32)
		renderer := gravity.NewRenderer(*frameDir)
		const workers = 2
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go renderer.RenderFrames(&wg, renders)
		}
	}

	fmt.Printf("bodies: %d\nticks: %d\nstep: %.4fs\nspeed: %.1fx\nsimulated time: %.1fs\n",
		len(sim.Bodies()), ticks, *tick, *speed, *seconds * *speed)

	collisions := 0
	start := time.Now()
	for t := 0; t < ticks; t++ {
		sim.Step(*tick)
		collisions += len(sim.Collisions())

		if frames != nil {
			frames <- sim.Frame()
		}
		if renders != nil {
			renders <- &gravity.RenderJob{Frame: t, Bodies: sim.Snapshot()}
		}

		if t%30 == 0 || t == ticks-1 {
			fmt.Printf("%.1f%%, %d collisions, %s elapsed                    \r",
				100*float64(t+1)/float64(ticks),
				collisions,
				time.Since(start).Truncate(time.Second))
		}
	}

	if frames != nil {
		close(frames)
	}
	if renders != nil {
		close(renders)
	}
	wg.Wait()
	if db != nil {
		if err := gravity.CreateIndices(db); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("\nDone. Took %s\n", time.Since(start).Truncate(time.Millisecond))
	sim.Report(os.Stdout)

	if *stateSave {
		fname := fmt.Sprintf("%010d.state", sim.Ticks())
		if err := gravity.SaveState(fname, sim.Frame()); err != nil {
			fatal(err)
		}
		fmt.Printf("state saved to %s\n", fname)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
