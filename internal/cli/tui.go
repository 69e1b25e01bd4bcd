package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treekit/treekit/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeSummary is one selectable row in the tree picker.
type treeSummary struct {
	index int
	tips  int
	nodes int
	names string // preview of the first few tip names
}

// TreeListModel is the bubbletea model for interactive tree selection in
// multi-tree collection files.
type TreeListModel struct {
	Rows     []treeSummary
	Cursor   int
	Selected int // -1 until a row is chosen
	Height   int
	Offset   int
}

// NewTreeListModel creates a picker over the given trees.
func NewTreeListModel(trees []*tree.Tree) TreeListModel {
	rows := make([]treeSummary, len(trees))
	for i, t := range trees {
		row := treeSummary{index: i, tips: t.NTips(), nodes: t.NNodes()}
		if names, err := t.TipNames(); err == nil {
			preview := names
			if len(preview) > 4 {
				preview = preview[:4]
			}
			row.names = strings.Join(preview, ", ")
			if len(names) > 4 {
				row.names += ", …"
			}
		}
		rows[i] = row
	}
	return TreeListModel{
		Rows:     rows,
		Selected: -1,
		Height:   15,
	}
}

func (m TreeListModel) Init() tea.Cmd {
	return nil
}

func (m TreeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Cursor
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

func (m TreeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("tree %-4d %3d tips  %3d nodes", row.index, row.tips, row.nodes)
		b.WriteString(cursor + style.Render(line))
		if row.names != "" {
			b.WriteString("  " + listDimStyle.Render(row.names))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickTree runs the interactive picker and returns the chosen tree, or nil
// if the user quit without choosing.
func pickTree(trees []*tree.Tree) (*tree.Tree, error) {
	model := NewTreeListModel(trees)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tree picker: %w", err)
	}
	result, ok := final.(TreeListModel)
	if !ok || result.Selected < 0 {
		return nil, nil
	}
	return trees[result.Selected], nil
}
