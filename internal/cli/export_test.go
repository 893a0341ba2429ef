package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const sampleSnapshot = `{
  "routers": [
    {"id": 0, "name": "atlanta", "position": {"x": 1, "y": 2}},
    {"id": 1, "name": "boston", "position": {"x": 3, "y": 4}},
    {"id": 2, "name": "upstream", "external": true, "position": {"x": 5, "y": 6}}
  ],
  "links": [
    {"a": 0, "b": 1, "weight": 100},
    {"a": 1, "b": 2, "weight": 10}
  ],
  "sessions": [
    {"from": 0, "to": 1, "kind": "ibgp-peer"},
    {"from": 1, "to": 2, "kind": "ebgp"}
  ],
  "prefixes": ["10.0.0.0/8"],
  "next_hops": [{"prefix": "10.0.0.0/8", "router": 0, "via": [1]}],
  "propagations": [{"prefix": "10.0.0.0/8", "from": 2, "to": 1}]
}`

func testCLI() *CLI {
	return New(io.Discard, log.FatalLevel)
}

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.json")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"tex"}},
		{"tex", []string{"tex"}},
		{"tex,svg", []string{"tex", "svg"}},
		{"dot,json", []string{"dot", "json"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "network.json", "network"},
		{"", "dir/network.json", "dir/network"},
		{"out/figure.tex", "network.json", "out/figure"},
		{"out/figure.svg", "network.json", "out/figure"},
		{"out/figure", "network.json", "out/figure"},
		{"figure.pdf", "network.json", "figure.pdf"}, // unknown extension kept
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOverlayNames(t *testing.T) {
	want := []string{"next-hops", "link-weights", "bgp-sessions", "bgp-propagation", "router-names"}
	if got := overlayNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("overlayNames() = %v, want %v", got, want)
	}
}

func TestRunExport(t *testing.T) {
	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)
	input := writeTestSnapshot(t)
	base := filepath.Join(t.TempDir(), "fig")

	opts := exportOpts{output: base, noCache: true}
	if err := c.runExport(ctx, input, []string{"tex", "json"}, &opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	tex := readOutput(t, base+".tex")
	if !strings.Contains(tex, `\documentclass`) {
		t.Error("tex output missing preamble")
	}
	if !strings.Contains(tex, `(r0) {}; % atlanta`) {
		t.Error("tex output missing router node")
	}
	if !strings.Contains(tex, `% \def\showBgpSessions{1}`) {
		t.Error("tex output should keep overlay switches commented out")
	}

	if got := readOutput(t, base+".json"); !strings.Contains(got, "atlanta") {
		t.Error("json output missing router name")
	}
}

func TestRunExport_SingleFormatOutput(t *testing.T) {
	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)
	input := writeTestSnapshot(t)
	out := filepath.Join(t.TempDir(), "custom.tex")

	opts := exportOpts{
		output:   out,
		overlays: []string{"bgp-sessions", "next-hops"},
		prefix:   "10.0.0.0/8",
		noCache:  true,
	}
	if err := c.runExport(ctx, input, []string{"tex"}, &opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	tex := readOutput(t, out)
	if !strings.Contains(tex, "\n\\def\\showBgpSessions{1}\n") {
		t.Error("bgp-sessions switch should be uncommented")
	}
	if !strings.Contains(tex, "\n\\def\\showNextHop{1}\n") {
		t.Error("next-hops switch should be uncommented")
	}
	if !strings.Contains(tex, "\n% \\def\\showLinkWeights{1}\n") {
		t.Error("unselected switches should stay commented out")
	}
	if !strings.Contains(tex, `\def\prefix10_0_0_0_8{1}`) {
		t.Error("prefix switch should be selected")
	}
}

func TestRunExport_DefaultOutputPath(t *testing.T) {
	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)
	input := writeTestSnapshot(t)

	opts := exportOpts{noCache: true}
	if err := c.runExport(ctx, input, []string{"tex"}, &opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	want := strings.TrimSuffix(input, ".json") + ".tex"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected output at %s: %v", want, err)
	}
}

func TestRunExport_Cached(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)
	input := writeTestSnapshot(t)
	out := filepath.Join(t.TempDir(), "fig.tex")

	opts := exportOpts{output: out}
	if err := c.runExport(ctx, input, []string{"tex"}, &opts); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	first := readOutput(t, out)

	if err := c.runExport(ctx, input, []string{"tex"}, &opts); err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if second := readOutput(t, out); second != first {
		t.Error("cached export should produce identical output")
	}
}

func TestRunExport_Errors(t *testing.T) {
	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)

	t.Run("missing snapshot", func(t *testing.T) {
		opts := exportOpts{noCache: true}
		err := c.runExport(ctx, filepath.Join(t.TempDir(), "missing.json"), []string{"tex"}, &opts)
		if err == nil {
			t.Fatal("expected error for missing snapshot")
		}
	})

	t.Run("unknown overlay", func(t *testing.T) {
		opts := exportOpts{overlays: []string{"ospf"}, noCache: true}
		err := c.runExport(ctx, writeTestSnapshot(t), []string{"tex"}, &opts)
		if err == nil {
			t.Fatal("expected error for unknown overlay")
		}
		if !strings.Contains(err.Error(), "ospf") {
			t.Errorf("error should name the overlay, got %v", err)
		}
	})

	t.Run("unknown prefix", func(t *testing.T) {
		opts := exportOpts{prefix: "192.168.0.0/16", noCache: true}
		err := c.runExport(ctx, writeTestSnapshot(t), []string{"tex"}, &opts)
		if err == nil {
			t.Fatal("expected error for unknown prefix")
		}
	})

	t.Run("bad output path", func(t *testing.T) {
		opts := exportOpts{output: "fig\x00.tex", noCache: true}
		err := c.runExport(ctx, writeTestSnapshot(t), []string{"tex"}, &opts)
		if err == nil {
			t.Fatal("expected error for output path with control characters")
		}
	})
}

func TestRunPreviewDot(t *testing.T) {
	c := testCLI()
	ctx := withLogger(context.Background(), c.Logger)
	input := writeTestSnapshot(t)
	out := filepath.Join(t.TempDir(), "preview.dot")

	if err := c.runPreview(ctx, input, []string{"dot"}, out, true, true); err != nil {
		t.Fatalf("runPreview failed: %v", err)
	}

	dot := readOutput(t, out)
	if !strings.Contains(dot, "graph G {") {
		t.Error("dot output missing graph header")
	}
	if !strings.Contains(dot, "atlanta") {
		t.Error("dot output missing router label")
	}
	if !strings.Contains(dot, "100") {
		t.Error("dot output missing weight label")
	}
}
