package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bgpfig/bgpfig/pkg/network"
)

// ReadJSON decodes a JSON snapshot from r into a Network.
//
// The input must be a JSON object with a "routers" array; all other arrays
// are optional:
//
//	{
//	  "routers": [
//	    {"id": 0, "name": "atlanta", "position": {"x": 0.25, "y": 0.75}},
//	    {"id": 1, "name": "upstream", "external": true}
//	  ],
//	  "links": [{"a": 0, "b": 1, "weight": 100}],
//	  "sessions": [{"from": 0, "to": 1, "kind": "ebgp"}],
//	  "prefixes": ["10.0.0.0/8"],
//	  "next_hops": [{"prefix": "10.0.0.0/8", "router": 0, "via": [1]}],
//	  "propagations": [{"prefix": "10.0.0.0/8", "from": 1, "to": 0}]
//	}
//
// Router ids are assigned by creation order, so each declared "id" must
// equal the router's array position; the redundancy catches hand-editing
// mistakes before they scramble every cross-reference in the file. A link
// may carry "reverse_weight" when its two directions differ.
//
// ReadJSON returns an error if the JSON is malformed, an id is out of
// order, a referenced router does not exist, or a session kind is unknown.
// Errors are wrapped with context naming the offending entry; use errors.Is
// to check for specific [network] errors. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	net := network.New()
	for i, rt := range data.Routers {
		var id network.RouterID
		if rt.External {
			id = net.AddExternalRouter(rt.Name)
		} else {
			id = net.AddRouter(rt.Name)
		}
		if rt.ID != id {
			return nil, fmt.Errorf("router %d: declared id %d, want %d", i, rt.ID, id)
		}
		if rt.Position != nil {
			if err := net.SetPosition(id, network.Position{X: rt.Position.X, Y: rt.Position.Y}); err != nil {
				return nil, fmt.Errorf("router %d: %w", i, err)
			}
		}
	}

	for _, l := range data.Links {
		if err := net.AddLink(l.A, l.B, l.Weight); err != nil {
			return nil, fmt.Errorf("link %d-%d: %w", l.A, l.B, err)
		}
		if l.ReverseWeight != nil {
			if err := net.SetLinkWeight(l.B, l.A, *l.ReverseWeight); err != nil {
				return nil, fmt.Errorf("link %d-%d: %w", l.A, l.B, err)
			}
		}
	}

	for _, s := range data.Sessions {
		kind, err := network.ParseSessionKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("session %d->%d: %w", s.From, s.To, err)
		}
		if err := net.AddSession(s.From, s.To, kind); err != nil {
			return nil, fmt.Errorf("session %d->%d: %w", s.From, s.To, err)
		}
	}

	for _, p := range data.Prefixes {
		net.AddPrefix(p)
	}

	for _, nh := range data.NextHops {
		if err := net.SetNextHops(nh.Prefix, nh.Router, nh.Via); err != nil {
			return nil, fmt.Errorf("next hops of router %d for %s: %w", nh.Router, nh.Prefix, err)
		}
	}

	for _, pr := range data.Propagations {
		if err := net.AddPropagation(pr.Prefix, pr.From, pr.To, pr.Detail); err != nil {
			return nil, fmt.Errorf("propagation %d->%d for %s: %w", pr.From, pr.To, pr.Prefix, err)
		}
	}

	return net, nil
}

// ImportJSON reads a JSON snapshot file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
