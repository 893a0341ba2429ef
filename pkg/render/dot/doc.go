// Package dot renders network snapshots as Graphviz node-link previews.
//
// # Overview
//
// The TikZ exporter produces the publication output, but compiling LaTeX
// just to check that a snapshot looks right is slow. This package is the
// quick look: topology only, rendered in-process to SVG, using the same
// positions and the same internal/external styling cues as the typeset
// figure.
//
// # Usage
//
// Convert a snapshot to DOT, then render to SVG:
//
//	src := dot.ToDOT(net, dot.Options{Weights: true})
//	svg, err := dot.RenderSVG(src)
//
// The DOT source pins every router at its model position (neato "!"
// suffix), so the preview's geometry matches the TikZ canvas instead of
// whatever a layout engine would invent.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no graphviz installation is required.
package dot
