package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/graph"
)

// =============================================================================
// PackagePickerModel - Interactive package selection
// =============================================================================

// PackagePickerModel is the bubbletea model used when a --package query
// matches more than one package.
type PackagePickerModel struct {
	Query    string
	Packages []graph.PackageID
	Cursor   int
	Selected int // index into Packages, -1 until chosen
	Height   int
	Offset   int
}

// NewPackagePickerModel creates a picker over ids.
func NewPackagePickerModel(query string, ids []graph.PackageID) PackagePickerModel {
	return PackagePickerModel{
		Query:    query,
		Packages: ids,
		Selected: -1,
		Height:   15,
	}
}

func (m PackagePickerModel) Init() tea.Cmd {
	return nil
}

func (m PackagePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Packages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Packages) > 0 {
				m.Selected = m.Cursor
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PackagePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Several packages match `%s`", m.Query)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Packages))
	for i := m.Offset; i < end; i++ {
		id := m.Packages[i]
		if i == m.Cursor {
			b.WriteString(styleSelected.Render(iconCursor + " " + id.String()))
		} else {
			b.WriteString("  " + id.String())
		}
		if id.Source != "" {
			b.WriteString(" " + styleSource.Render(id.Source))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packages))))
	return b.String()
}

// choosePackage runs the picker on the terminal. It implements
// pipeline.Chooser.
func (c *CLI) choosePackage(g *graph.Graph, query string, candidates []int) (int, error) {
	ids := make([]graph.PackageID, len(candidates))
	for i, n := range candidates {
		ids[i] = g.Node(n).ID
	}

	model, err := tea.NewProgram(
		NewPackagePickerModel(query, ids),
		tea.WithInput(c.Stdin),
		tea.WithOutput(c.Stderr),
	).Run()
	if err != nil {
		return -1, errs.Wrap(errs.ErrCodeInternal, err, "package picker")
	}
	picked := model.(PackagePickerModel).Selected
	if picked < 0 {
		return -1, errs.New(errs.ErrCodeAmbiguousPackage, "no package selected for `%s`", query)
	}
	return candidates[picked], nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
