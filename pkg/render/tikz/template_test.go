package tikz

import (
	"strings"
	"testing"
)

func TestSkeleton_InsertionPoints(t *testing.T) {
	// Every named section has exactly one insertion point, and the
	// skeleton carries no stray tokens.
	for _, name := range sectionNames {
		token := "{{" + name + "}}"
		if got := strings.Count(skeleton, token); got != 1 {
			t.Errorf("skeleton occurrences of %s = %d, want 1", token, got)
		}
	}
	if got, want := strings.Count(skeleton, "{{"), len(sectionNames); got != want {
		t.Errorf("skeleton insertion points = %d, want %d", got, want)
	}
}

func TestSkeleton_SwitchesInactive(t *testing.T) {
	switches := []string{
		`% \def\showNextHop{1}`,
		`% \def\showLinkWeights{1}`,
		`% \def\showBgpSessions{1}`,
		`% \def\showBgpPropagation{1}`,
		`% \def\showRouterName{1}`,
	}
	for _, line := range switches {
		if !strings.Contains(skeleton, line) {
			t.Errorf("skeleton missing inactive switch %q", line)
		}
	}
}

func TestRender(t *testing.T) {
	sections := make(map[string]string, len(sectionNames))
	for i, name := range sectionNames {
		sections[name] = strings.Repeat("x", i+1)
	}

	doc, err := render(sections)
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}
	if strings.Contains(doc, "{{") {
		t.Error("render() left an unsubstituted placeholder")
	}
	for i := range sectionNames {
		if !strings.Contains(doc, strings.Repeat("x", i+1)) {
			t.Errorf("render() dropped section %s", sectionNames[i])
		}
	}
}

func TestRender_MissingSection(t *testing.T) {
	sections := make(map[string]string, len(sectionNames))
	for _, name := range sectionNames {
		sections[name] = ""
	}
	delete(sections, sectionEdges)
	sections["BOGUS"] = ""

	if _, err := render(sections); err == nil {
		t.Error("render() should fail when a section is missing")
	}
}

func TestRender_SectionCount(t *testing.T) {
	if _, err := render(map[string]string{sectionEdges: ""}); err == nil {
		t.Error("render() should fail on an incomplete section set")
	}
}
