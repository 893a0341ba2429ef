package dot

import (
	"strings"
	"testing"

	"github.com/bgpfig/bgpfig/pkg/network"
)

func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	net := network.New()
	a := net.AddRouter("atlanta")
	b := net.AddRouter("")
	e := net.AddExternalRouter("upstream")
	if err := net.SetPosition(a, network.Position{X: 0.25, Y: 0.5}); err != nil {
		t.Fatalf("SetPosition() error: %v", err)
	}
	if err := net.AddLink(a, b, 100); err != nil {
		t.Fatalf("AddLink() error: %v", err)
	}
	if err := net.AddLink(b, e, 10); err != nil {
		t.Fatalf("AddLink() error: %v", err)
	}
	if err := net.SetLinkWeight(e, b, 20); err != nil {
		t.Fatalf("SetLinkWeight() error: %v", err)
	}
	return net
}

func TestToDOT_Basic(t *testing.T) {
	src := ToDOT(testNetwork(t), Options{})

	if !strings.Contains(src, "graph G") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if !strings.Contains(src, "layout=neato") {
		t.Error("ToDOT() output missing neato layout")
	}
	if !strings.Contains(src, `0 [label="atlanta", pos="2,-3!"]`) {
		t.Error("ToDOT() output missing pinned node 0")
	}
	if !strings.Contains(src, `1 [label="r1", pos="0,0!"]`) {
		t.Error("ToDOT() unnamed router should fall back to its index label")
	}
	if !strings.Contains(src, "fillcolor=lightgrey") {
		t.Error("ToDOT() external router missing grey fill")
	}
	if !strings.Contains(src, "0 -- 1;") {
		t.Error("ToDOT() output missing edge 0 -- 1")
	}

	// Two directed entries per connection, one DOT edge.
	if got := strings.Count(src, "--"); got != 2 {
		t.Errorf("ToDOT() edges = %d, want 2", got)
	}
}

func TestToDOT_Weights(t *testing.T) {
	src := ToDOT(testNetwork(t), Options{Weights: true})

	if !strings.Contains(src, `0 -- 1 [label="100"];`) {
		t.Error("ToDOT() missing symmetric weight label")
	}
	if !strings.Contains(src, `1 -- 2 [label="10/20"];`) {
		t.Error("ToDOT() missing asymmetric weight label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "negative origin",
			svg:  `<svg viewBox="-4 -36 72 40">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 72.00 40.00" width="72" height="40">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	src := ToDOT(testNetwork(t), Options{})
	svg, err := RenderSVG(src)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG("not valid DOT {{{"); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
