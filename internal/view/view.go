package view

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

var ErrEmptyViewport = errors.New("view: viewport has no usable area")

// View is the pan/zoom state of the map.
type View struct {
	Center r2.Vec  `json:"center"`
	Scale  float64 `json:"scale"`
}

// Identity maps world meters to pixels one to one around the origin.
var Identity = View{Scale: 1}

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	Min  r2.Vec
	Size r2.Vec
}

func (r Rect) Center() r2.Vec {
	return r2.Add(r.Min, r2.Scale(0.5, r.Size))
}

func (r Rect) Empty() bool {
	return !(r.Size.X > 0) || !(r.Size.Y > 0)
}

func (r Rect) Validate() error {
	if r.Empty() {
		return ErrEmptyViewport
	}
	return nil
}

// Fit returns the view that frames every position inside viewport, leaving
// bodyRadius+margin pixels free on each side. With no positions, or when all
// positions coincide, the scale is 1. A viewport with no usable area also
// falls back to scale 1.
func Fit(positions []r2.Vec, viewport Rect, bodyRadius, margin float64) View {
	if len(positions) == 0 {
		return Identity
	}

	minP := positions[0]
	maxP := positions[0]
	for _, p := range positions[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	mid := r2.Scale(0.5, r2.Add(minP, maxP))
	span := r2.Sub(maxP, minP)

	pad := 2 * (bodyRadius + margin)
	usable := r2.Vec{X: viewport.Size.X - pad, Y: viewport.Size.Y - pad}

	scale := math.Inf(1)
	if span.X > 0 {
		scale = math.Min(scale, usable.X/span.X)
	}
	if span.Y > 0 {
		scale = math.Min(scale, usable.Y/span.Y)
	}
	if math.IsInf(scale, 1) || !(scale > 0) {
		scale = 1
	}

	return View{Center: r2.Scale(scale, mid), Scale: scale}
}

// Project maps a world position to screen pixels.
func Project(v View, viewportCenter, p r2.Vec) r2.Vec {
	d := r2.Sub(r2.Scale(v.Scale, p), v.Center)
	return r2.Vec{X: viewportCenter.X + d.X, Y: viewportCenter.Y - d.Y}
}

// Unproject is the inverse of Project. A view with zero scale maps every
// screen point to the origin.
func Unproject(v View, viewportCenter, s r2.Vec) r2.Vec {
	if v.Scale == 0 {
		return r2.Vec{}
	}
	d := r2.Vec{X: s.X - viewportCenter.X, Y: viewportCenter.Y - s.Y}
	return r2.Scale(1/v.Scale, r2.Add(d, v.Center))
}

// ScreenRadius converts a world distance to pixels.
func ScreenRadius(v View, meters float64) float64 {
	return meters * v.Scale
}
