package network

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownRouter is returned when an operation references a router
	// index that was never added to the network.
	ErrUnknownRouter = errors.New("unknown router")

	// ErrSelfLink is returned by [Network.AddLink] when both endpoints are
	// the same router. Links connect two distinct routers.
	ErrSelfLink = errors.New("link endpoints must differ")

	// ErrDuplicateLink is returned by [Network.AddLink] when the two routers
	// are already connected. Each router pair carries at most one link.
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrUnknownLink is returned by [Network.SetLinkWeight] when no link
	// entry exists for the given direction.
	ErrUnknownLink = errors.New("unknown link")

	// ErrExternalRouter is returned by [Network.SetNextHops] when the router
	// holding the forwarding state is external. Next-hop records exist for
	// internal routers only.
	ErrExternalRouter = errors.New("router is external")
)

type router struct {
	name     string
	external bool
}

// Network is an immutable-once-built snapshot of a routed network: routers
// with optional names and positions, a weighted topology, BGP sessions, and
// per-prefix forwarding and propagation records. It is the single input to
// every renderer in this module.
//
// All query methods iterate in a stable model order (creation order for
// routers, links and sessions, first-registration order for prefixes), so
// anything derived from a snapshot is deterministic.
//
// The zero value is not usable - use New. Network is not safe for concurrent
// mutation; renderers only read, so concurrent reads of a finished snapshot
// are fine.
type Network struct {
	routers   []router
	positions map[RouterID]Position
	links     []Link
	linkIndex map[[2]RouterID]int
	sessions  []BGPSession
	prefixes  []Prefix
	prefixSet map[Prefix]bool
	nextHops  map[Prefix]map[RouterID][]RouterID
	props     map[Prefix][]Propagation
}

// New creates an empty network snapshot.
func New() *Network {
	return &Network{
		positions: make(map[RouterID]Position),
		linkIndex: make(map[[2]RouterID]int),
		prefixSet: make(map[Prefix]bool),
		nextHops:  make(map[Prefix]map[RouterID][]RouterID),
		props:     make(map[Prefix][]Propagation),
	}
}

// AddRouter adds an internal router and returns its index. The display name
// may be empty. Indices are assigned sequentially across internal and
// external routers.
func (n *Network) AddRouter(name string) RouterID {
	n.routers = append(n.routers, router{name: name})
	return RouterID(len(n.routers) - 1)
}

// AddExternalRouter adds an external router and returns its index.
func (n *Network) AddExternalRouter(name string) RouterID {
	n.routers = append(n.routers, router{name: name, external: true})
	return RouterID(len(n.routers) - 1)
}

// SetPosition assigns a layout coordinate to a router. Routers without an
// assigned position resolve to the origin.
func (n *Network) SetPosition(id RouterID, p Position) error {
	if !n.valid(id) {
		return ErrUnknownRouter
	}
	n.positions[id] = p
	return nil
}

// AddLink connects two distinct routers with a symmetric weight. The
// connection is stored as two reciprocal directed entries, one per
// direction; use [Network.SetLinkWeight] afterwards to make the weights
// asymmetric. Returns ErrUnknownRouter, ErrSelfLink or ErrDuplicateLink.
func (n *Network) AddLink(a, b RouterID, weight float64) error {
	if !n.valid(a) || !n.valid(b) {
		return ErrUnknownRouter
	}
	if a == b {
		return ErrSelfLink
	}
	if _, ok := n.linkIndex[[2]RouterID{a, b}]; ok {
		return ErrDuplicateLink
	}
	n.linkIndex[[2]RouterID{a, b}] = len(n.links)
	n.links = append(n.links, Link{From: a, To: b, Weight: weight})
	n.linkIndex[[2]RouterID{b, a}] = len(n.links)
	n.links = append(n.links, Link{From: b, To: a, Weight: weight})
	return nil
}

// SetLinkWeight updates the weight of one direction of an existing link.
// Returns ErrUnknownLink if the two routers are not connected.
func (n *Network) SetLinkWeight(from, to RouterID, weight float64) error {
	i, ok := n.linkIndex[[2]RouterID{from, to}]
	if !ok {
		return ErrUnknownLink
	}
	n.links[i].Weight = weight
	return nil
}

// AddSession records a BGP session between two routers. Sessions keep their
// insertion order; renderers draw them in exactly this order.
func (n *Network) AddSession(from, to RouterID, kind SessionKind) error {
	if !n.valid(from) || !n.valid(to) {
		return ErrUnknownRouter
	}
	n.sessions = append(n.sessions, BGPSession{From: from, To: to, Kind: kind})
	return nil
}

// AddPrefix registers a prefix as known. Registration is idempotent; the
// first registration fixes the prefix's place in the model order. Recording
// a forwarding or propagation fact registers its prefix implicitly.
func (n *Network) AddPrefix(p Prefix) {
	if n.prefixSet[p] {
		return
	}
	n.prefixSet[p] = true
	n.prefixes = append(n.prefixes, p)
}

// SetNextHops replaces the resolved next hops of an internal router for a
// prefix. Multiple hops represent multipath forwarding; an empty slice
// clears the record. Returns ErrUnknownRouter if the router or any hop does
// not exist, ErrExternalRouter if the router is external.
func (n *Network) SetNextHops(p Prefix, id RouterID, hops []RouterID) error {
	if !n.valid(id) {
		return ErrUnknownRouter
	}
	if n.routers[id].external {
		return ErrExternalRouter
	}
	for _, h := range hops {
		if !n.valid(h) {
			return ErrUnknownRouter
		}
	}
	n.AddPrefix(p)
	m, ok := n.nextHops[p]
	if !ok {
		m = make(map[RouterID][]RouterID)
		n.nextHops[p] = m
	}
	m[id] = slices.Clone(hops)
	return nil
}

// AddPropagation appends a propagation record for a prefix. Records keep
// their insertion order per prefix.
func (n *Network) AddPropagation(p Prefix, from, to RouterID, detail string) error {
	if !n.valid(from) || !n.valid(to) {
		return ErrUnknownRouter
	}
	n.AddPrefix(p)
	n.props[p] = append(n.props[p], Propagation{From: from, To: to, Detail: detail})
	return nil
}

// Routers returns the internal router indices in ascending order.
func (n *Network) Routers() []RouterID {
	var ids []RouterID
	for i, r := range n.routers {
		if !r.external {
			ids = append(ids, RouterID(i))
		}
	}
	return ids
}

// ExternalRouters returns the external router indices in ascending order.
func (n *Network) ExternalRouters() []RouterID {
	var ids []RouterID
	for i, r := range n.routers {
		if r.external {
			ids = append(ids, RouterID(i))
		}
	}
	return ids
}

// RouterCount returns the total number of routers, internal and external.
func (n *Network) RouterCount() int { return len(n.routers) }

// IsExternal reports whether the router exists and is external.
func (n *Network) IsExternal(id RouterID) bool {
	return n.valid(id) && n.routers[id].external
}

// Name returns the router's display name, or "" if unset or unknown.
func (n *Network) Name(id RouterID) string {
	if !n.valid(id) {
		return ""
	}
	return n.routers[id].name
}

// Position returns the router's layout coordinate, resolving unplaced
// routers to the origin.
func (n *Network) Position(id RouterID) Position { return n.positions[id] }

// Links returns a copy of all directed link entries in insertion order.
// Each undirected connection contributes two entries; filter From < To to
// see each connection once.
func (n *Network) Links() []Link { return slices.Clone(n.links) }

// LinkCount returns the number of undirected connections.
func (n *Network) LinkCount() int { return len(n.links) / 2 }

// HasLink reports whether a directed link entry exists.
func (n *Network) HasLink(from, to RouterID) bool {
	_, ok := n.linkIndex[[2]RouterID{from, to}]
	return ok
}

// Sessions returns a copy of all BGP sessions in insertion order.
func (n *Network) Sessions() []BGPSession { return slices.Clone(n.sessions) }

// Prefixes returns a copy of the known prefixes in first-registration order.
func (n *Network) Prefixes() []Prefix { return slices.Clone(n.prefixes) }

// NextHops returns the resolved next hops of a router for a prefix, or nil
// if no record exists. The returned slice is a read-only view.
func (n *Network) NextHops(p Prefix, id RouterID) []RouterID {
	return n.nextHops[p][id]
}

// Propagations returns a copy of the propagation records for a prefix in
// recorded order, or nil if none exist.
func (n *Network) Propagations(p Prefix) []Propagation {
	return slices.Clone(n.props[p])
}

func (n *Network) valid(id RouterID) bool {
	return id >= 0 && int(id) < len(n.routers)
}
