package tikz

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bgpfig/bgpfig/pkg/network"
)

// Overlay identifies one of the gated drawing layers an exported document
// carries.
type Overlay int

const (
	// OverlayNextHops shows the per-prefix forwarding arrows.
	OverlayNextHops Overlay = iota
	// OverlayLinkWeights shows the per-direction weight labels.
	OverlayLinkWeights
	// OverlayBGPSessions shows the BGP session arrows.
	OverlayBGPSessions
	// OverlayBGPPropagation shows the per-prefix route propagation arrows.
	OverlayBGPPropagation
	// OverlayRouterNames shows router name labels. The skeleton documents
	// the switch for hand-added labels; no generated section reads it.
	OverlayRouterNames
)

// Overlays lists every overlay in skeleton order.
var Overlays = []Overlay{
	OverlayNextHops,
	OverlayLinkWeights,
	OverlayBGPSessions,
	OverlayBGPPropagation,
	OverlayRouterNames,
}

// String returns the flag form: "next-hops", "link-weights", ...
func (o Overlay) String() string {
	switch o {
	case OverlayNextHops:
		return "next-hops"
	case OverlayLinkWeights:
		return "link-weights"
	case OverlayBGPSessions:
		return "bgp-sessions"
	case OverlayBGPPropagation:
		return "bgp-propagation"
	case OverlayRouterNames:
		return "router-names"
	default:
		return fmt.Sprintf("Overlay(%d)", int(o))
	}
}

// ParseOverlay converts the flag form back into an Overlay.
func ParseOverlay(s string) (Overlay, error) {
	for _, o := range Overlays {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown overlay %q", s)
}

// defLine returns the switch definition as it appears in the skeleton,
// without the comment marker.
func (o Overlay) defLine() string {
	switch o {
	case OverlayNextHops:
		return `\def\showNextHop{1}`
	case OverlayLinkWeights:
		return `\def\showLinkWeights{1}`
	case OverlayBGPSessions:
		return `\def\showBgpSessions{1}`
	case OverlayBGPPropagation:
		return `\def\showBgpPropagation{1}`
	case OverlayRouterNames:
		return `\def\showRouterName{1}`
	default:
		panic(fmt.Sprintf("tikz: invalid overlay %d", int(o)))
	}
}

// EnableOverlay activates an overlay switch in an exported document by
// uncommenting its definition. Enabling an already active switch is a
// no-op. Which overlays to activate is entirely the caller's decision;
// [Export] itself always ships every switch inactive.
func EnableOverlay(doc string, o Overlay) (string, error) {
	line := o.defLine()
	commented := "% " + line
	if strings.Contains(doc, commented) {
		return strings.Replace(doc, commented, line, 1), nil
	}
	if strings.Contains(doc, line) {
		return doc, nil
	}
	return "", fmt.Errorf("tikz: document has no %s switch", o)
}

// prefixSwitch matches the editable prefix selector line, whatever prefix
// it currently selects.
var prefixSwitch = regexp.MustCompile(`(?m)^\\def\\prefix\S*\{1\} % choices: `)

// SelectPrefix rewrites the document's prefix selector to the given prefix.
// The prefix must be one of the document's known prefixes, i.e. it must
// have a guarded overlay block.
func SelectPrefix(doc string, p network.Prefix) (string, error) {
	san := p.Sanitized()
	if !strings.Contains(doc, `\ifdefined\prefix`+san+"\n") {
		return "", fmt.Errorf("tikz: document has no prefix %q", p)
	}
	loc := prefixSwitch.FindStringIndex(doc)
	if loc == nil {
		return "", errors.New("tikz: document has no prefix selector")
	}
	return doc[:loc[0]] + `\def\prefix` + san + `{1} % choices: ` + doc[loc[1]:], nil
}
