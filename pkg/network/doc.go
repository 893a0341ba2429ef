// Package network models a routed network snapshot: routers, weighted
// links, BGP sessions, and per-prefix forwarding and propagation state.
//
// # Overview
//
// bgpfig turns network snapshots into diagram documents. This package is
// the snapshot itself - a plain in-memory model that a simulator, an
// importer, or test code builds up front and that renderers afterwards only
// read. It deliberately computes nothing: no shortest paths, no BGP
// decision process, no layout. Whatever produced the snapshot already did
// that work; the model just holds the result in a stable order.
//
// # Basic Usage
//
// Create a network with [New], add routers, then wire them up:
//
//	net := network.New()
//	a := net.AddRouter("atlanta")
//	b := net.AddRouter("boston")
//	e := net.AddExternalRouter("upstream")
//	net.AddLink(a, b, 100)
//	net.AddLink(b, e, 1)
//	net.AddSession(b, e, network.SessionKindEBGP)
//	net.SetNextHops("10.0.0.0/8", a, []network.RouterID{b})
//
// Renderers consume the snapshot through its query methods ([Network.Routers],
// [Network.Links], [Network.Prefixes], ...), all of which iterate in model
// order so that rendering the same snapshot twice produces identical bytes.
//
// # Directed Link Entries
//
// The topology is undirected, but every connection is stored as two
// reciprocal directed [Link] entries. This representation lets the two
// directions carry distinct weights (set with [Network.SetLinkWeight]) and
// gives consumers a cheap dedup rule: keeping entries with From < To visits
// each connection exactly once, while visiting all entries yields one
// weight per direction.
//
// # Integrity
//
// Mutators validate their arguments (unknown routers, duplicate links,
// forwarding state on external routers) and return sentinel errors, so a
// snapshot that built without error is internally consistent. Renderers
// rely on that and perform no validation of their own.
//
// # Concurrency
//
// Network is not safe for concurrent mutation. A finished snapshot is
// effectively immutable and may be read from any number of goroutines.
package network
