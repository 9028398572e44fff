package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"gravfield/internal/sim"
)

var clearColor = color.RGBA{0, 0, 0, 255}

// screenFrame is the scheduler's view of the ebiten screen for one Draw.
type screenFrame struct {
	screen *ebiten.Image
	field  *fieldRenderer
	points *pointRenderer
}

func (f *screenFrame) Clear() { f.screen.Fill(clearColor) }

func (f *screenFrame) DrawField(snap *sim.Snapshot) { f.field.draw(f.screen, snap) }

func (f *screenFrame) DrawPoints(snap *sim.Snapshot, positions []float32) {
	f.points.draw(f.screen, snap, positions)
}

// overlay prints frame statistics and the live parameters. The text is
// rebuilt at most every overlayRefreshSeconds.
type overlay struct {
	particles int
	device    string
	text      string
	built     float64
}

func (o *overlay) draw(screen *ebiten.Image, sched *sim.Scheduler, now float64) {
	if o.text == "" || now-o.built >= overlayRefreshSeconds {
		o.text = o.format(sched)
		o.built = now
	}
	ebitenutil.DebugPrint(screen, o.text)
}

func (o *overlay) format(sched *sim.Scheduler) string {
	ctx := sched.Context()
	stats := sched.Stats()
	u := ctx.Uniforms
	return fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\n"+
			"Frames: %d (%s)\n"+
			"Step: %.2f ms on %s\n"+
			"Particles: %d  Planets: %d/%d\n"+
			"Life: %.0f..%.0f s (q/a w/s)\n"+
			"Speed: %.2f..%.2f (PgUp/PgDn, Shift)\n"+
			"Alpha: %.2f  Beta: %.2f (arrows)\n"+
			"Field: %t (0)  Points: %t (9)",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		stats.Frames, sched.State(),
		stats.StepTime.Seconds()*1000, o.device,
		o.particles, ctx.Planets.Len(), ctx.Planets.Cap(),
		u.Tvmin, u.Tvmax,
		u.Vmin, u.Vmax,
		u.Alpha, u.Beta,
		ctx.Flags.DrawField, ctx.Flags.DrawPoints,
	)
}
