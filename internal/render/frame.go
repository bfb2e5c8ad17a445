package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samcarey/aetherweave/internal/orbit"
	"github.com/samcarey/aetherweave/internal/view"
)

const (
	HighlightWidth = 2.0
	HairlineWidth  = 0.5
	RingWidth      = 0.5
	LabelGap       = 3.0

	SelectedLabelSize = 16.0
	LabelSize         = 12.0

	// RingStepDeg is the angular spacing of orbit ring points.
	RingStepDeg = 2
)

var (
	White     = colorful.Color{R: 1, G: 1, B: 1}
	LightGray = colorful.Color{R: 0xdc / 255.0, G: 0xdc / 255.0, B: 0xdc / 255.0}
)

type Options struct {
	BodyRadius float64
	ShowOrbits bool
}

func DefaultOptions() Options {
	return Options{BodyRadius: 10, ShowOrbits: true}
}

// BuildFrame emits the draw commands for every live body in sys.
func BuildFrame(sys *orbit.System, v view.View, viewportCenter r2.Vec, sel view.Selection, opts Options) []Command {
	if sys == nil {
		return nil
	}
	cmds := make([]Command, 0, sys.Len()*4)

	sys.Each(func(h orbit.Handle, b *orbit.Body) bool {
		if opts.ShowOrbits {
			if r := b.OrbitRadius(); r > 0 {
				cmds = append(cmds, Polyline{
					Points: OrbitRing(v, viewportCenter, r),
					Color:  b.Color,
					Width:  RingWidth,
					Dotted: true,
				})
			}
		}

		center := view.Project(v, viewportCenter, b.Position)
		cmds = append(cmds, Circle{Center: center, Radius: opts.BodyRadius, Color: b.Color, Filled: true})

		highlighted := sel.Is(h)
		stroke, width, size := LightGray, HairlineWidth, LabelSize
		if highlighted {
			stroke, width, size = White, HighlightWidth, SelectedLabelSize
		}
		cmds = append(cmds,
			Circle{Center: center, Radius: opts.BodyRadius, Color: stroke, Width: width},
			Text{
				Pos:   r2.Add(center, r2.Vec{X: opts.BodyRadius + HighlightWidth + LabelGap, Y: -1}),
				Text:  b.Name,
				Size:  size,
				Color: stroke,
			},
		)
		return true
	})
	return cmds
}

// OrbitRing returns the projected circle of the given world radius around
// the origin, one point every RingStepDeg degrees with both ends at 0°.
func OrbitRing(v view.View, viewportCenter r2.Vec, radius float64) []r2.Vec {
	center := view.Project(v, viewportCenter, r2.Vec{})
	r := view.ScreenRadius(v, radius)
	pts := make([]r2.Vec, 0, 360/RingStepDeg+1)
	for deg := 0; deg <= 360; deg += RingStepDeg {
		s, c := math.Sincos(float64(deg) * math.Pi / 180)
		pts = append(pts, r2.Vec{X: center.X + r*c, Y: center.Y - r*s})
	}
	return pts
}

// StatRow is one label/value line of the info panel.
type StatRow struct {
	Label string
	Value string
}

// Stats formats the info panel for b. The fixed central body has no
// velocity row.
func Stats(b *orbit.Body, showVelocity bool) []StatRow {
	if b == nil {
		return nil
	}
	rows := []StatRow{{Label: "Mass", Value: fmt.Sprintf("%.1f x Earth", b.EarthMasses())}}
	if showVelocity && !b.Fixed {
		rows = append(rows, StatRow{Label: "Velocity", Value: fmt.Sprintf("%.1f km/s", b.SpeedKmPerSec())})
	}
	return rows
}
