package tikz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bgpfig/bgpfig/pkg/network"
)

// ErrPrefixCollision is returned by [Export] when two distinct prefixes
// sanitize to the same identifier (e.g. "10.0.0.0/8" and "10.0.0.0_8").
// Their overlay blocks would end up gated behind one switch, so the
// snapshot is rejected instead.
var ErrPrefixCollision = errors.New("prefix identifiers collide")

// Export renders the snapshot into a standalone LaTeX/TikZ document.
//
// The document is a pure function of the snapshot: routers become named
// \node commands, each undirected connection one \draw, and the four
// overlay layers (next hops, link weights, BGP sessions, route propagation)
// are emitted in full but gated behind \ifdefined switches that ship
// inactive. Which layers a reader turns on is their call, made by editing
// the exported file or via [EnableOverlay] and [SelectPrefix].
//
// Export never mutates the snapshot and holds no reference to it after
// returning. Exporting an unchanged snapshot twice yields identical bytes.
func Export(net *network.Network) (string, error) {
	if err := checkPrefixCollisions(net); err != nil {
		return "", err
	}
	return render(map[string]string{
		sectionPrefixes:        prefixChoices(net),
		sectionInternalNodes:   nodeSection(net, net.Routers(), "router"),
		sectionExternalNodes:   nodeSection(net, net.ExternalRouters(), "external"),
		sectionEdges:           edgeSection(net),
		sectionNextHops:        nextHopSection(net),
		sectionLinkWeights:     linkWeightSection(net),
		sectionBGPSessions:     sessionSection(net),
		sectionBGPPropagations: propagationSection(net),
	})
}

func checkPrefixCollisions(net *network.Network) error {
	seen := make(map[string]network.Prefix)
	for _, p := range net.Prefixes() {
		san := p.Sanitized()
		if prev, ok := seen[san]; ok && prev != p {
			return fmt.Errorf("tikz: %w: %q and %q both sanitize to %q", ErrPrefixCollision, prev, p, san)
		}
		seen[san] = p
	}
	return nil
}

// prefixChoices builds the comma-separated toggle list documented next to
// the prefix switch: one "prefix<identifier>" entry per known prefix, in
// model order.
func prefixChoices(net *network.Network) string {
	prefixes := net.Prefixes()
	names := make([]string, len(prefixes))
	for i, p := range prefixes {
		names[i] = "prefix" + p.Sanitized()
	}
	return strings.Join(names, ", ")
}

// nodeSection emits one \node per router in model order, annotated with the
// display name as a trailing comment. Unplaced routers sit at the origin.
func nodeSection(net *network.Network, ids []network.RouterID, style string) string {
	lines := make([]string, len(ids))
	for i, id := range ids {
		pos := net.Position(id)
		lines[i] = fmt.Sprintf(`  \node[%s] at (%s, %s) (r%d) {}; %% %s`,
			style, coord(pos.X), coord(pos.Y), id, net.Name(id))
	}
	return strings.Join(lines, "\n")
}

// edgeSection emits one \draw per undirected connection. The topology
// stores two directed entries per connection; keeping From < To visits
// each exactly once.
func edgeSection(net *network.Network) string {
	var lines []string
	for _, l := range net.Links() {
		if l.From < l.To {
			lines = append(lines, fmt.Sprintf(`  \draw[link] (r%d) -- (r%d);`, l.From, l.To))
		}
	}
	return strings.Join(lines, "\n")
}

// nextHopSection emits, per known prefix, a guarded block with one arrow
// per (router, next hop) pair. Multipath routers contribute one arrow per
// hop. Prefixes without any forwarding record still get their guard so the
// switch list and the blocks stay in lockstep.
func nextHopSection(net *network.Network) string {
	routers := net.Routers()
	prefixes := net.Prefixes()
	blocks := make([]string, len(prefixes))
	for i, p := range prefixes {
		var lines []string
		for _, r := range routers {
			for _, hop := range net.NextHops(p, r) {
				lines = append(lines, fmt.Sprintf(`      \draw[next hop] (r%d) -- (r%d);`, r, hop))
			}
		}
		blocks[i] = guarded(p, lines)
	}
	return strings.Join(blocks, "\n")
}

// linkWeightSection emits one weight label per directed link entry - two
// per connection, each placed \linkweightdist of the way from its own
// endpoint, which is what makes asymmetric weights readable.
func linkWeightSection(net *network.Network) string {
	links := net.Links()
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = fmt.Sprintf(`    \draw ($(r%d)!\linkweightdist!(r%d)$) node[link weight] { %.0f };`,
			l.From, l.To, l.Weight)
	}
	return strings.Join(lines, "\n")
}

// sessionSection emits one bent arrow per BGP session, in session order.
func sessionSection(net *network.Network) string {
	sessions := net.Sessions()
	lines := make([]string, len(sessions))
	for i, s := range sessions {
		lines[i] = fmt.Sprintf(`    \draw[%s] (r%d) to[bend left=20] (r%d);`,
			sessionStyle(s.Kind), s.From, s.To)
	}
	return strings.Join(lines, "\n")
}

// sessionStyle maps a session kind to its tikzset style. The mapping is
// total over the closed kind set; any other value means the snapshot is
// corrupt, which is an internal fault, not an input error.
func sessionStyle(k network.SessionKind) string {
	switch k {
	case network.SessionKindEBGP:
		return "ebgp session"
	case network.SessionKindIBGPPeer:
		return "ibgp peer session"
	case network.SessionKindIBGPClient:
		return "ibgp client session"
	default:
		panic(fmt.Sprintf("tikz: invalid session kind %d", int(k)))
	}
}

// propagationSection emits, per known prefix, a guarded block with one bent
// arrow per propagation record, in recorded order.
func propagationSection(net *network.Network) string {
	prefixes := net.Prefixes()
	blocks := make([]string, len(prefixes))
	for i, p := range prefixes {
		props := net.Propagations(p)
		lines := make([]string, len(props))
		for j, pr := range props {
			lines[j] = fmt.Sprintf(`      \draw[bgp propagation] (r%d) to[bend left=20] (r%d);`,
				pr.From, pr.To)
		}
		blocks[i] = guarded(p, lines)
	}
	return strings.Join(blocks, "\n")
}

// guarded wraps one prefix's overlay lines in its \ifdefined switch. An
// empty block still gets the guard.
func guarded(p network.Prefix, lines []string) string {
	return fmt.Sprintf("    \\ifdefined\\prefix%s\n%s\n  \\fi", p.Sanitized(), strings.Join(lines, "\n"))
}

// coord formats a coordinate in plain decimal notation, shortest form that
// round-trips. TikZ does not read exponent notation.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
