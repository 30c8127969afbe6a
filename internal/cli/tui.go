package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// nodeRow is one line of the node table.
type nodeRow struct {
	node      graph.Node
	degree    int
	neighbors []string
}

// NodeListModel is the bubbletea model for browsing the nodes of a graph.
// Enter toggles a detail pane with the node's properties and neighbors.
type NodeListModel struct {
	Rows    []nodeRow
	Cursor  int
	Height  int
	Offset  int
	Details bool
	sortBy  string
}

// NewNodeListModel creates a node list for g, ordered by id.
func NewNodeListModel(g *graph.Graph) NodeListModel {
	rows := make([]nodeRow, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		rows = append(rows, nodeRow{node: n, degree: g.Degree(n.ID), neighbors: g.Neighbors(n.ID)})
	}
	m := NodeListModel{Rows: rows, Height: 15}
	m.sort("id")
	return m
}

func (m *NodeListModel) sort(by string) {
	m.sortBy = by
	sort.SliceStable(m.Rows, func(i, j int) bool {
		a, b := m.Rows[i], m.Rows[j]
		switch by {
		case "degree":
			if a.degree != b.degree {
				return a.degree > b.degree
			}
		case "type":
			if a.node.Type != b.node.Type {
				return a.node.Type < b.node.Type
			}
		}
		return a.node.ID < b.node.ID
	})
	m.Cursor, m.Offset = 0, 0
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case "enter", " ":
			m.Details = !m.Details
		case "s":
			next := map[string]string{"id": "degree", "degree": "type", "type": "id"}
			m.sort(next[m.sortBy])
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  s sort (" + m.sortBy + ")  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.node.ID, string(r.node.Type), r.node.Label, strconv.Itoa(r.degree)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Label", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle()
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col == 2 || col == 4 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Details && m.Cursor < len(m.Rows) {
		b.WriteString("\n")
		b.WriteString(nodeDetails(m.Rows[m.Cursor]))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))

	return b.String()
}

func nodeDetails(r nodeRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", StyleValue.Render(r.node.ID), listDimStyle.Render(string(r.node.Type)))
	if r.node.Position != nil {
		fmt.Fprintf(&b, "  %s (%.2f, %.2f)\n", listDimStyle.Render("position"), r.node.Position.X, r.node.Position.Y)
	}
	keys := make([]string, 0, len(r.node.Properties))
	for k := range r.node.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s %v\n", listDimStyle.Render(k), r.node.Properties[k])
	}
	if len(r.neighbors) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("neighbors"), strings.Join(r.neighbors, ", "))
	}
	return b.String()
}

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [graph]",
		Short: "Explore a graph's nodes interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			if g.NodeCount() == 0 {
				printInfo("Graph has no nodes")
				return nil
			}
			p := tea.NewProgram(NewNodeListModel(g), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
