package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/bgpfig/bgpfig/pkg/network"
)

// Canvas scale applied to model positions, matching the TikZ canvas
// defaults so the preview and the typeset figure agree on geometry.
const (
	scaleX = 8
	scaleY = -6
)

// Options configures preview generation.
type Options struct {
	// Weights labels each connection with its weight, "w" when symmetric
	// and "w/w'" when the two directions differ.
	Weights bool
}

// ToDOT converts a snapshot's topology to Graphviz DOT for a quick-look
// preview. The graph is undirected and laid out with neato using the
// model's own positions, pinned; external routers are filled grey like in
// the TikZ output. The resulting DOT string can be rendered with
// [RenderSVG] or saved for external Graphviz tooling.
func ToDOT(net *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for id := network.RouterID(0); int(id) < net.RouterCount(); id++ {
		pos := net.Position(id)
		attrs := fmt.Sprintf("label=%q, pos=\"%s,%s!\"",
			label(net, id), coord(pos.X*scaleX), coord(pos.Y*scaleY))
		if net.IsExternal(id) {
			attrs += ", fillcolor=lightgrey"
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", id, attrs)
	}

	buf.WriteString("\n")
	weights := make(map[[2]network.RouterID]float64)
	for _, l := range net.Links() {
		weights[[2]network.RouterID{l.From, l.To}] = l.Weight
	}
	for _, l := range net.Links() {
		if l.From > l.To {
			continue
		}
		if opts.Weights {
			fmt.Fprintf(&buf, "  %d -- %d [label=%q];\n",
				l.From, l.To, weightLabel(l.Weight, weights[[2]network.RouterID{l.To, l.From}]))
		} else {
			fmt.Fprintf(&buf, "  %d -- %d;\n", l.From, l.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(net *network.Network, id network.RouterID) string {
	if name := net.Name(id); name != "" {
		return name
	}
	return fmt.Sprintf("r%d", id)
}

func weightLabel(forward, reverse float64) string {
	if forward == reverse {
		return fmt.Sprintf("%.0f", forward)
	}
	return fmt.Sprintf("%.0f/%.0f", forward, reverse)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root <svg> tag so the image has an origin
// viewBox and explicit pixel dimensions. Browsers scale such SVGs
// predictably when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
