// Package io provides JSON import and export for network snapshots.
//
// # Overview
//
// This package is how snapshots enter and leave the process. Simulators and
// other tools hand bgpfig a snapshot file, bgpfig renders it, and the same
// format serves as the canonical form for caching and sharing. The format
// is designed for:
//
//   - Hand-editing: ids are explicit and everything is plain JSON
//   - Integration with tools that produce or consume network data
//   - Round-trip preservation: import then export reproduces the file
//
// # JSON Format
//
// One top-level object; only "routers" is required:
//
//	{
//	  "routers": [
//	    {"id": 0, "name": "atlanta", "position": {"x": 0.25, "y": 0.75}},
//	    {"id": 1, "name": "boston", "position": {"x": 0.75, "y": 0.25}},
//	    {"id": 2, "name": "upstream", "external": true}
//	  ],
//	  "links": [
//	    {"a": 0, "b": 1, "weight": 100},
//	    {"a": 1, "b": 2, "weight": 1, "reverse_weight": 5}
//	  ],
//	  "sessions": [{"from": 1, "to": 2, "kind": "ebgp"}],
//	  "prefixes": ["10.0.0.0/8"],
//	  "next_hops": [{"prefix": "10.0.0.0/8", "router": 0, "via": [1]}],
//	  "propagations": [{"prefix": "10.0.0.0/8", "from": 2, "to": 1}]
//	}
//
// Routers are listed in creation order and each declares the id it expects
// to receive, which lets every other array reference routers by plain
// integers while still catching hand-editing mistakes on import. Session
// kinds are "ebgp", "ibgp-peer" and "ibgp-client". A link's
// "reverse_weight" appears only when its two directions carry different
// weights.
//
// # Import and Export
//
// Use [ImportJSON] / [ReadJSON] to decode and [ExportJSON] / [WriteJSON]
// to encode:
//
//	net, err := io.ImportJSON("network.json")
//	...
//	err = io.ExportJSON(net, "canonical.json")
//
// Import validates what the model validates (unknown routers, duplicate
// links, forwarding state on external routers) and wraps each failure with
// the offending entry. Export writes in model order, so exporting an
// imported snapshot reproduces a canonical file byte for byte.
package io
