// Package mouse turns terminal mouse reports into viewer gestures.
//
// Terminals report the button state at every motion event rather than
// separate press and release events, so a drag is recognized by seeing
// the left button held on consecutive reports. Positions are converted
// from cells to image-space pixels: one per column and two per row.
package mouse
