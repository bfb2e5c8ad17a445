// Package render turns a system and a view into backend-neutral draw
// commands, and rasterizes those commands for the terminal (braille
// canvas) or for files (SVG).
//
// BuildFrame emits, per body in roster order: an optional dotted orbit
// ring, the filled body disc, a highlight stroke and a name label.
// Stats formats the info panel for the selected body.
package render
