package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bgpfig/bgpfig/pkg/network"
)

type snapshot struct {
	Routers      []router         `json:"routers"`
	Links        []link           `json:"links,omitempty"`
	Sessions     []session        `json:"sessions,omitempty"`
	Prefixes     []network.Prefix `json:"prefixes,omitempty"`
	NextHops     []nextHops       `json:"next_hops,omitempty"`
	Propagations []propagation    `json:"propagations,omitempty"`
}

type router struct {
	ID       network.RouterID `json:"id"`
	Name     string           `json:"name,omitempty"`
	External bool             `json:"external,omitempty"`
	Position *position        `json:"position,omitempty"`
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type link struct {
	A      network.RouterID `json:"a"`
	B      network.RouterID `json:"b"`
	Weight float64          `json:"weight"`

	// ReverseWeight is set only when the B->A direction differs.
	ReverseWeight *float64 `json:"reverse_weight,omitempty"`
}

type session struct {
	From network.RouterID `json:"from"`
	To   network.RouterID `json:"to"`
	Kind string           `json:"kind"`
}

type nextHops struct {
	Prefix network.Prefix     `json:"prefix"`
	Router network.RouterID   `json:"router"`
	Via    []network.RouterID `json:"via"`
}

type propagation struct {
	Prefix network.Prefix   `json:"prefix"`
	From   network.RouterID `json:"from"`
	To     network.RouterID `json:"to"`
	Detail string           `json:"detail,omitempty"`
}

// WriteJSON encodes a snapshot as JSON and writes it to w.
// The output lists everything in model order and can be re-imported with
// [ReadJSON]; a round trip reproduces the file byte for byte.
func WriteJSON(net *network.Network, w io.Writer) error {
	out := snapshot{
		Routers:  make([]router, net.RouterCount()),
		Prefixes: net.Prefixes(),
	}

	for i := range out.Routers {
		id := network.RouterID(i)
		rt := router{ID: id, Name: net.Name(id), External: net.IsExternal(id)}
		if pos := net.Position(id); pos != (network.Position{}) {
			rt.Position = &position{X: pos.X, Y: pos.Y}
		}
		out.Routers[i] = rt
	}

	weights := make(map[[2]network.RouterID]float64)
	for _, l := range net.Links() {
		weights[[2]network.RouterID{l.From, l.To}] = l.Weight
	}
	for _, l := range net.Links() {
		if l.From > l.To {
			continue
		}
		entry := link{A: l.From, B: l.To, Weight: l.Weight}
		if rev := weights[[2]network.RouterID{l.To, l.From}]; rev != l.Weight {
			entry.ReverseWeight = &rev
		}
		out.Links = append(out.Links, entry)
	}

	for _, s := range net.Sessions() {
		out.Sessions = append(out.Sessions, session{From: s.From, To: s.To, Kind: s.Kind.String()})
	}

	for _, p := range net.Prefixes() {
		for _, r := range net.Routers() {
			if via := net.NextHops(p, r); len(via) > 0 {
				out.NextHops = append(out.NextHops, nextHops{Prefix: p, Router: r, Via: via})
			}
		}
		for _, pr := range net.Propagations(p) {
			out.Propagations = append(out.Propagations, propagation{
				Prefix: p, From: pr.From, To: pr.To, Detail: pr.Detail,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(net, f)
}
