// Package tikz exports network snapshots as standalone LaTeX/TikZ
// documents.
//
// # Overview
//
// This is bgpfig's primary output: a .tex file that compiles on its own
// and that people keep editing by hand afterwards - for papers, slides and
// lecture notes. The exporter therefore aims for stable, readable output
// rather than clever markup: a fixed preamble, one line per drawn element,
// and all variable content produced by substituting named sections into
// one skeleton.
//
// # Document Anatomy
//
// The skeleton declares colors, node and edge styles, and a block of
// parameters meant to be edited (canvas scale, label distance, overlay
// switches). The graph itself is drawn in three always-visible parts
// (internal nodes, external nodes, connections) followed by four overlay
// layers, each wrapped in an \ifdefined guard:
//
//   - next hops, per prefix (one straight arrow per forwarding choice)
//   - link weights (one label per link direction)
//   - BGP sessions (one bent arrow per session, styled by kind)
//   - BGP propagation, per prefix (one bent arrow per recorded step)
//
// Per-prefix layers are additionally guarded by a prefix switch whose
// valid values are documented in the file itself ("% choices: ...").
//
// # Activation
//
// [Export] emits every switch inactive; deciding what to show is the
// reader's job, not the exporter's. Hosts that want to pre-activate layers
// for their users do so after the fact with [EnableOverlay] and
// [SelectPrefix], which perform the same edits a reader would make by
// hand.
//
// # Determinism
//
// The document is a pure function of the snapshot. All iteration follows
// the model order of [github.com/bgpfig/bgpfig/pkg/network], so repeated
// exports of an unchanged snapshot are byte-identical - which keeps
// exported files diffable under version control.
package tikz
