package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Command is one primitive in a frame. Coordinates are screen pixels.
type Command interface {
	command()
}

type Circle struct {
	Center r2.Vec
	Radius float64
	Color  colorful.Color
	Filled bool
	// Width is the stroke width for unfilled circles.
	Width float64
}

// Text is anchored at its left edge, vertically centered on Pos.
type Text struct {
	Pos   r2.Vec
	Text  string
	Size  float64
	Color colorful.Color
}

type Polyline struct {
	Points []r2.Vec
	Color  colorful.Color
	Width  float64
	Dotted bool
}

func (Circle) command()   {}
func (Text) command()     {}
func (Polyline) command() {}
