// Package render groups the renderers that turn network snapshots into
// visual outputs.
//
// # Overview
//
// Both renderers consume the read-only snapshot from
// [github.com/bgpfig/bgpfig/pkg/network] and share its guarantees: stable
// iteration order, no mutation, deterministic output.
//
// # TikZ Documents
//
// The [tikz] subpackage is the primary output: a standalone LaTeX/TikZ
// document with gated overlay layers (next hops, link weights, BGP
// sessions, route propagation), meant for papers and slides and for
// hand-editing after export.
//
//	doc, err := tikz.Export(net)
//
// # DOT Previews
//
// The [dot] subpackage renders a quick topology preview via Graphviz,
// in-process, without a LaTeX toolchain:
//
//	svg, err := dot.RenderSVG(dot.ToDOT(net, dot.Options{}))
//
// [tikz]: github.com/bgpfig/bgpfig/pkg/render/tikz
// [dot]: github.com/bgpfig/bgpfig/pkg/render/dot
package render
