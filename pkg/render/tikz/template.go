package tikz

import (
	"fmt"
	"strings"
)

// Section names. Each corresponds to exactly one {{NAME}} insertion point
// in the skeleton; downstream tooling greps for these tokens, so their
// spelling is load-bearing.
const (
	sectionPrefixes        = "PREFIXES"
	sectionInternalNodes   = "INTERNAL_NODES"
	sectionExternalNodes   = "EXTERNAL_NODES"
	sectionEdges           = "EDGES"
	sectionNextHops        = "NEXT_HOPS"
	sectionLinkWeights     = "LINK_WEIGHTS"
	sectionBGPSessions     = "BGP_SESSIONS"
	sectionBGPPropagations = "BGP_PROPAGATIONS"
)

// sectionNames lists every placeholder in substitution order.
var sectionNames = []string{
	sectionPrefixes,
	sectionInternalNodes,
	sectionExternalNodes,
	sectionEdges,
	sectionNextHops,
	sectionLinkWeights,
	sectionBGPSessions,
	sectionBGPPropagations,
}

// skeleton is the fixed document everything is substituted into. The
// preamble (colors, styles, parameters) is part of the output contract:
// people hand-edit exported files, so the text outside the insertion
// points stays stable across releases.
const skeleton = `
% This file was automatically generated by bgpfig
\documentclass{standalone}

% latex packages
\usepackage{tikz}
\usetikzlibrary{positioning, arrows, shapes, calc}

% color definitions
\usepackage{xcolor}
\definecolor{gray-50}{HTML}{F9FAFB}
\definecolor{gray-300}{HTML}{D1D5DB}
\definecolor{gray-700}{HTML}{374151}
\definecolor{red-500}{HTML}{EF4444}
\definecolor{yellow-500}{HTML}{EAB308}
\definecolor{green-500}{HTML}{22C55E}
\definecolor{blue-500}{HTML}{3B82F6}
\definecolor{purple-500}{HTML}{A855F7}

% Parameters to edit
\def\width{8}%cm
\def\height{-6}%cm (negative)
\def\linkweightdist{0.3}

% tikzset styles
\tikzset{
  router/.style = {circle, fill=gray-50, draw=gray-700, minimum size=0.4cm},
  external/.style = {circle, fill=gray-300, draw=gray-700, minimum size=0.4cm},
  link/.style = {gray-700},
  next hop/.style = {very thick, -latex, blue-500},
  ebgp session/.style = {very thick, -latex, red-500},
  ibgp peer session/.style = {very thick, latex-latex, blue-500},
  ibgp client session/.style = {very thick, -latex, purple-500},
  bgp propagation/.style = {very thick, -latex, yellow-500},
  link weight/.style = {fill=white},
}

% things to draw
% \def\showNextHop{1}
% \def\showLinkWeights{1}
% \def\showBgpSessions{1}
% \def\showBgpPropagation{1}
% \def\showRouterName{1}
\def\prefix1{1} % choices: {{PREFIXES}}

\begin{document}
\begin{tikzpicture}[xscale=\width, yscale=\height]
{{INTERNAL_NODES}}
{{EXTERNAL_NODES}}

{{EDGES}}

  \ifdefined\showNextHop
{{NEXT_HOPS}}
  \fi

  \ifdefined\showLinkWeights
{{LINK_WEIGHTS}}
  \fi

  \ifdefined\showBgpSessions
{{BGP_SESSIONS}}
  \fi

  \ifdefined\showBgpPropagation
{{BGP_PROPAGATIONS}}
  \fi
\end{tikzpicture}
\end{document}
`

// render substitutes every section into the skeleton. Section text is
// inserted verbatim - builders already produce final TikZ. The section set
// must match sectionNames exactly and every insertion point must be
// present; a violation is a bug in this package and is reported loudly
// rather than papered over.
func render(sections map[string]string) (string, error) {
	if len(sections) != len(sectionNames) {
		return "", fmt.Errorf("template: got %d sections, want %d", len(sections), len(sectionNames))
	}
	doc := skeleton
	for _, name := range sectionNames {
		text, ok := sections[name]
		if !ok {
			return "", fmt.Errorf("template: missing section %s", name)
		}
		token := "{{" + name + "}}"
		if !strings.Contains(doc, token) {
			return "", fmt.Errorf("template: no insertion point for %s", name)
		}
		doc = strings.ReplaceAll(doc, token, text)
	}
	return doc, nil
}
