// Package view maps simulation coordinates to screen coordinates and back.
//
// A View is a pan/zoom pair: Scale converts meters to pixels and Center is
// the scaled world point that sits at the middle of the viewport. Screen Y
// grows downward, so Project inverts the Y axis.
//
// Fit computes a View that frames every body inside a viewport. HitTest and
// Selection turn pointer presses into a selected body.
package view
