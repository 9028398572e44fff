package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gravfield/internal/sim"
)

// Game adapts the frame scheduler to ebiten. Update turns input into
// commands, Draw runs one scheduler tick into the screen.
type Game struct {
	sched *sim.Scheduler
	queue *sim.Queue
	start time.Time

	field  *fieldRenderer
	points *pointRenderer
	frame  screenFrame

	input   inputState
	overlay overlay

	width, height int
	err           error
}

// newGame compiles the field shader and prepares the point batches.
func newGame(sched *sim.Scheduler, queue *sim.Queue, particleCount int, deviceName string) (*Game, error) {
	field, err := newFieldRenderer()
	if err != nil {
		return nil, err
	}
	w, h := sched.Context().Viewport()
	g := &Game{
		sched:  sched,
		queue:  queue,
		start:  time.Now(),
		field:  field,
		points: newPointRenderer(),
		width:  w,
		height: h,
		overlay: overlay{
			particles: particleCount,
			device:    deviceName,
		},
	}
	g.input.focused = true
	return g, nil
}

// Update queues this tick's input. It returns the error that stopped the
// frame loop so RunGame exits.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.input.poll(g.queue)
	return nil
}

// Draw runs one frame: drain commands, field pass, simulation, points, swap.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	g.frame.screen = screen
	g.frame.field = g.field
	g.frame.points = g.points
	now := time.Since(g.start).Seconds()
	if err := g.sched.Tick(now, &g.frame); err != nil {
		g.err = err
		return
	}
	if *debugFlag {
		g.overlay.draw(screen, g.sched, now)
	}
}

// Layout uses the window size as the logical screen size and reports
// changes to the simulation.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.queue.Push(sim.Resize(outsideWidth, outsideHeight))
	}
	return g.width, g.height
}
