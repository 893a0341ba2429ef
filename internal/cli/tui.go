package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bgpfig/bgpfig/pkg/network"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// overlayHints maps overlay flag forms to the hint shown in the picker.
var overlayHints = map[string]string{
	"next-hops":       "per-prefix forwarding arrows",
	"link-weights":    "per-direction weight labels",
	"bgp-sessions":    "BGP session arrows",
	"bgp-propagation": "route propagation arrows",
	"router-names":    "router name labels",
}

// toggleSelection holds the result of the interactive picker.
type toggleSelection struct {
	overlays []string
	prefix   string
}

// pickToggles runs the interactive overlay and prefix picker. The selected
// and prefix arguments preseed the picker from command-line flags. The
// second return value is false when the user cancelled.
func pickToggles(prefixes []network.Prefix, selected []string, prefix string) (toggleSelection, bool, error) {
	final, err := tea.NewProgram(newTogglePicker(prefixes, selected, prefix)).Run()
	if err != nil {
		return toggleSelection{}, false, err
	}
	m, ok := final.(togglePickerModel)
	if !ok || !m.confirmed {
		return toggleSelection{}, false, nil
	}
	return m.selection(), true, nil
}

// =============================================================================
// TogglePickerModel - Interactive overlay and prefix selection
// =============================================================================

// togglePickerModel is the bubbletea model for overlay and prefix selection.
// Overlay rows are independent checkboxes; prefix rows form a radio group
// with "all prefixes" first.
type togglePickerModel struct {
	overlays  []string // flag forms in skeleton order
	enabled   map[int]bool
	prefixes  []network.Prefix
	prefixIdx int // 0 selects all prefixes, i>0 selects prefixes[i-1]
	cursor    int
	confirmed bool
}

// newTogglePicker builds the picker model, preseeding overlay checkboxes
// and the prefix radio from the given flag values.
func newTogglePicker(prefixes []network.Prefix, selected []string, prefix string) togglePickerModel {
	m := togglePickerModel{
		overlays: overlayNames(),
		enabled:  make(map[int]bool),
		prefixes: prefixes,
	}
	for i, name := range m.overlays {
		for _, s := range selected {
			if s == name {
				m.enabled[i] = true
			}
		}
	}
	for i, p := range prefixes {
		if string(p) == prefix {
			m.prefixIdx = i + 1
		}
	}
	return m
}

// rows returns the total number of selectable rows.
func (m togglePickerModel) rows() int {
	n := len(m.overlays)
	if len(m.prefixes) > 0 {
		n += len(m.prefixes) + 1 // "all prefixes" row plus one per prefix
	}
	return n
}

// selection converts the picker state into the chosen overlays and prefix.
func (m togglePickerModel) selection() toggleSelection {
	var sel toggleSelection
	for i, name := range m.overlays {
		if m.enabled[i] {
			sel.overlays = append(sel.overlays, name)
		}
	}
	if m.prefixIdx > 0 {
		sel.prefix = string(m.prefixes[m.prefixIdx-1])
	}
	return sel
}

func (m togglePickerModel) Init() tea.Cmd {
	return nil
}

func (m togglePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.rows()-1 {
				m.cursor++
			}
		case " ":
			if m.cursor < len(m.overlays) {
				m.enabled[m.cursor] = !m.enabled[m.cursor]
			} else {
				m.prefixIdx = m.cursor - len(m.overlays)
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m togglePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Overlays"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space toggle  ↑/↓ navigate  ⏎ confirm  q cancel"))
	b.WriteString("\n\n")

	for i, name := range m.overlays {
		mark := "[ ]"
		if m.enabled[i] {
			mark = StyleSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %-16s %s", m.cursorFor(i), mark, name, listDimStyle.Render(overlayHints[name]))
		b.WriteString(m.styleFor(i).Render(line))
		b.WriteString("\n")
	}

	if len(m.prefixes) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleTitle.Render("Prefix"))
		b.WriteString("\n\n")

		for i := 0; i <= len(m.prefixes); i++ {
			row := len(m.overlays) + i
			mark := "( )"
			if m.prefixIdx == i {
				mark = StyleSuccess.Render("(*)")
			}
			label := "all prefixes"
			if i > 0 {
				label = string(m.prefixes[i-1])
			}
			line := fmt.Sprintf("%s%s %s", m.cursorFor(row), mark, label)
			b.WriteString(m.styleFor(row).Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("Switches stay commented in the document; selections are uncommented."))
	b.WriteString("\n")

	return b.String()
}

// cursorFor renders the cursor marker for row i.
func (m togglePickerModel) cursorFor(i int) string {
	if i == m.cursor {
		return "> "
	}
	return "  "
}

// styleFor picks the row style for row i.
func (m togglePickerModel) styleFor(i int) lipgloss.Style {
	if i == m.cursor {
		return listSelectedStyle
	}
	return listNormalStyle
}
