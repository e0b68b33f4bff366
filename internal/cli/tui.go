package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/beanchain/pkg/graph"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RootListModel - Interactive root selection
// =============================================================================

// RootItem is one row of the root list.
type RootItem struct {
	Root   string
	Nodes  int
	Leaves int
	Unused bool
}

// rootItems lists the roots of g with their chain statistics.
func rootItems(g *graph.Graph) []RootItem {
	roots := g.Roots()
	items := make([]RootItem, len(roots))
	for i, r := range roots {
		leaves, _ := g.LeafCount(r)
		items[i] = RootItem{
			Root:   r,
			Nodes:  len(g.Chain(r)),
			Leaves: leaves,
			Unused: g.IsUnused(r),
		}
	}
	return items
}

// RootListModel is the bubbletea model for interactive root selection.
type RootListModel struct {
	Items      []RootItem
	Visible    []int // indexes into Items after the unused filter
	Cursor     int
	Selected   *RootItem
	Height     int
	Offset     int
	UnusedOnly bool
}

// NewRootListModel creates a new root list model.
func NewRootListModel(items []RootItem) RootListModel {
	m := RootListModel{Items: items, Height: 15}
	m.refilter()
	return m
}

func (m *RootListModel) refilter() {
	m.Visible = make([]int, 0, len(m.Items))
	for i, it := range m.Items {
		if !m.UnusedOnly || it.Unused {
			m.Visible = append(m.Visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m RootListModel) Init() tea.Cmd {
	return nil
}

func (m RootListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "u":
			m.UnusedOnly = !m.UnusedOnly
			m.refilter()
		case "enter":
			if len(m.Visible) == 0 {
				return m, nil
			}
			item := m.Items[m.Visible[m.Cursor]]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RootListModel) View() string {
	var b strings.Builder

	title := "Select Root"
	if m.UnusedOnly {
		title = "Select Unused Chain"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  u unused only  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Visible) {
		end = len(m.Visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[m.Visible[i]]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		unused := ""
		if it.Unused {
			unused = "✓"
		}
		rows = append(rows, []string{cursor, it.Root, strconv.Itoa(it.Nodes), strconv.Itoa(it.Leaves), unused})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Root", "Nodes", "Leaves", "Unused").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Visible) {
				return lipgloss.NewStyle()
			}
			it := m.Items[m.Visible[idx]]
			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if it.Unused {
				return base.Foreground(colorYellow)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.Visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.Visible))))

	return b.String()
}
