// Package renderer draws the viewer's scene into terminal cells.
//
// The window is treated as a pixel surface twice as tall as the terminal
// has rows: every cell shows two vertically stacked pixels using the
// upper half block, with the top pixel as foreground and the bottom pixel
// as background. A frame is composed in three layers:
//
//	┌─────────────────────────────────────────┐
//	│  Prompt (":" command entry, last row)   │
//	│  Overlay text (first row)               │
//	├─────────────────────────────────────────┤
//	│  Image, scaled and offset by Viewport   │
//	├─────────────────────────────────────────┤
//	│  Background (solid color or checks)     │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term)
//	r.Draw(renderer.Scene{Image: img, Scale: 1})
package renderer
