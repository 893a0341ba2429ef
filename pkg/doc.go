// Package pkg provides the core libraries for Bgpfig figure export.
//
// # Overview
//
// Bgpfig turns BGP network snapshots into publication-ready figures. A
// snapshot captures a routing scenario (routers, links, BGP sessions,
// per-prefix forwarding and propagation state); the exporters turn it into
// a standalone LaTeX/TikZ document or a quick Graphviz preview. The pkg
// directory is organized into four main areas:
//
//  1. [network] - Domain model (the immutable snapshot)
//  2. [io] - Snapshot serialization (JSON import/export)
//  3. [render] - Exporters (TikZ documents, DOT/SVG previews)
//  4. [pipeline] - Orchestration (load → render → toggle) shared by CLI and server
//
// # Architecture
//
// The typical data flow through Bgpfig:
//
//	JSON snapshot file
//	         ↓
//	    [io] package (decode + cross-reference checks)
//	         ↓
//	    [network] package (read-only model)
//	         ↓
//	    [render/tikz] / [render/dot] packages
//	         ↓
//	    TeX/DOT/SVG/JSON output
//
// # Quick Start
//
// Load a snapshot and export the TikZ document with one overlay active:
//
//	import (
//	    pkgio "github.com/bgpfig/bgpfig/pkg/io"
//	    "github.com/bgpfig/bgpfig/pkg/render/tikz"
//	)
//
//	// 1. Load the snapshot
//	net, _ := pkgio.ImportJSON("network.json")
//
//	// 2. Export the document (every overlay ships commented out)
//	doc, _ := tikz.Export(net)
//
//	// 3. Activate the layers this figure should show
//	doc, _ = tikz.EnableOverlay(doc, tikz.OverlayBGPSessions)
//	doc, _ = tikz.SelectPrefix(doc, "10.0.0.0/8")
//
// # Main Packages
//
// ## Domain Model
//
// [network] - The snapshot model: routers (internal and external), weighted
// links, BGP sessions, announced prefixes, per-prefix next hops and route
// propagations. Construction validates every cross-reference; render code
// reads the finished snapshot and never mutates it.
//
// [io] - JSON snapshot codec. The import side rejects dangling router ids,
// out-of-order ids, and unknown session kinds before any renderer runs.
//
// ## Rendering
//
// [render/tikz] - The primary exporter. Produces a standalone LaTeX document
// whose overlay layers (next hops, link weights, BGP sessions, propagation)
// are guarded by commented-out switches, so one export serves many figures.
// [tikz.EnableOverlay] and [tikz.SelectPrefix] edit an exported document the
// same way a user would in a text editor.
//
// [render/dot] - Graphviz preview rendering. Emits DOT and renders SVG
// in-process, without a LaTeX toolchain, for quick topology checks.
//
// ## Infrastructure
//
// [pipeline] - Complete export pipeline (load → render → toggles) used by
// CLI and server. Ensures consistent behavior across all entry points and
// handles render caching.
//
// [cache] - Rendered document cache keyed by snapshot hash and render
// options. FileCache for the CLI (sharded filesystem), RedisCache for the
// server, NullCache for tests and --no-cache.
//
// [share] - Named snapshot shares with TTL expiry. MemoryStore for tests
// and single-process servers, MongoStore for durable deployments.
//
// [errors] - Coded errors shared by pipeline and server. Codes map onto
// HTTP status in the API and onto exit messages in the CLI.
//
// [observability] - Process-wide counters behind swappable hooks; the
// server installs Prometheus collectors, everything else keeps no-ops.
//
// [buildinfo] - Version, commit, and build date injected via ldflags.
//
// # Common Workflows
//
// Render a preview without LaTeX:
//
//	svg, _ := dot.RenderSVG(dot.ToDOT(net, dot.Options{Weights: true}))
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Source:  "network.json",
//	    Formats: []string{"tex", "svg"},
//	})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/render/...    # Specific package
//	go test -run Example        # Examples only
//
// [network]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/network
// [io]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/io
// [render]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/render
// [render/tikz]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/render/tikz
// [render/dot]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/cache
// [share]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/share
// [errors]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/errors
// [observability]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/buildinfo
// [tikz.EnableOverlay]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/render/tikz#EnableOverlay
// [tikz.SelectPrefix]: https://pkg.go.dev/github.com/bgpfig/bgpfig/pkg/render/tikz#SelectPrefix
package pkg
