package network

import (
	"fmt"
	"strings"
)

// RouterID identifies a router by its creation index. Indices are assigned
// sequentially across internal and external routers and are the sole
// cross-reference key between the model and anything derived from it:
// exporters name TikZ coordinates after them, snapshots store them verbatim.
type RouterID int

// Position is a 2D layout coordinate in the unit square. The model never
// computes positions - it only stores what the caller assigned. The zero
// value is the origin, which doubles as the default for routers that were
// never placed.
type Position struct {
	X float64
	Y float64
}

// Prefix is an opaque routing destination with a canonical string form,
// e.g. "10.0.0.0/8". The model does not interpret it beyond identity.
type Prefix string

// String returns the canonical string form.
func (p Prefix) String() string { return string(p) }

// Sanitized returns the prefix in identifier-safe form: every '.' and '/'
// replaced with '_'. "10.0.0.0/8" becomes "10_0_0_0_8". Exporters use this
// single definition wherever a prefix has to appear inside an identifier,
// so the toggle list and the guarded blocks always agree.
func (p Prefix) Sanitized() string {
	return strings.NewReplacer(".", "_", "/", "_").Replace(string(p))
}

// SessionKind classifies a BGP session. The set is closed: renderers map
// each kind to a style and treat any other value as an internal fault.
type SessionKind int

const (
	// SessionKindEBGP is an external peering session between an internal
	// and an external router.
	SessionKindEBGP SessionKind = iota
	// SessionKindIBGPPeer is an internal session between equals.
	SessionKindIBGPPeer
	// SessionKindIBGPClient is an internal session from a route reflector
	// to one of its clients.
	SessionKindIBGPClient
)

// String returns the wire form used in snapshots: "ebgp", "ibgp-peer" or
// "ibgp-client".
func (k SessionKind) String() string {
	switch k {
	case SessionKindEBGP:
		return "ebgp"
	case SessionKindIBGPPeer:
		return "ibgp-peer"
	case SessionKindIBGPClient:
		return "ibgp-client"
	default:
		return fmt.Sprintf("SessionKind(%d)", int(k))
	}
}

// ParseSessionKind converts the wire form back into a SessionKind.
func ParseSessionKind(s string) (SessionKind, error) {
	switch s {
	case "ebgp":
		return SessionKindEBGP, nil
	case "ibgp-peer":
		return SessionKindIBGPPeer, nil
	case "ibgp-client":
		return SessionKindIBGPClient, nil
	default:
		return 0, fmt.Errorf("unknown session kind %q", s)
	}
}

// Link is one directed entry of the topology. An undirected connection is
// stored as two reciprocal entries so each direction can carry its own
// weight; consumers that want each connection once keep the entries with
// From < To.
type Link struct {
	From   RouterID
	To     RouterID
	Weight float64
}

// BGPSession is an established session between two routers. The pair is
// ordered: From is the session initiator (for client sessions, the route
// reflector).
type BGPSession struct {
	From RouterID
	To   RouterID
	Kind SessionKind
}

// Propagation records that a route for some prefix travelled From -> To.
// Detail carries free-form context (AS path, community set) that the model
// stores but renderers ignore.
type Propagation struct {
	From   RouterID
	To     RouterID
	Detail string
}
