package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	nameColWidth   = 12
	pointsColWidth = 6
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

type historyModel struct {
	items      []historyItem
	cursor     int
	scrollY    int
	termWidth  int
	termHeight int
}

func newHistoryModel(items []historyItem) historyModel {
	m := historyModel{items: items, termWidth: 80, termHeight: 24}
	// Start at the newest entry.
	m.cursor = len(items) - 1
	return m.ensureCursorVisible()
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) visibleRows() int {
	// header, separator, blank line and footer
	available := m.termHeight - 4
	if available < 1 {
		return 1
	}
	if available > len(m.items) {
		return len(m.items)
	}
	return available
}

func (m historyModel) maxScrollY() int {
	max := len(m.items) - m.visibleRows()
	if max < 0 {
		return 0
	}
	return max
}

func (m historyModel) ensureCursorVisible() historyModel {
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	}
	if m.cursor >= m.scrollY+m.visibleRows() {
		m.scrollY = m.cursor - m.visibleRows() + 1
	}
	if m.scrollY > m.maxScrollY() {
		m.scrollY = m.maxScrollY()
	}
	if m.scrollY < 0 {
		m.scrollY = 0
	}
	return m
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m = m.ensureCursorVisible()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "pgdown", "f":
			m.cursor = min(m.cursor+m.visibleRows(), len(m.items)-1)
		case "pgup", "b":
			m.cursor = max(m.cursor-m.visibleRows(), 0)
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.items) - 1
		}
		m = m.ensureCursorVisible()
	}
	return m, nil
}

func (m historyModel) View() string {
	return renderHistoryTable(m.items, m.scrollY, m.visibleRows(), m.cursor) +
		"\n" + footerStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ move  pgup/pgdn page  q quit", m.cursor+1, len(m.items)))
}

// renderHistoryTable renders rows [scrollY, scrollY+rows) with the cursor row highlighted.
func renderHistoryTable(items []historyItem, scrollY, rows, cursor int) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s  %-10s  %s  %s",
		"#", "Date", padRight("Party", nameColWidth), padLeft("Points", pointsColWidth))))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 5+2+10+2+nameColWidth+2+pointsColWidth+10))
	b.WriteString("\n")

	end := min(scrollY+rows, len(items))
	for i := scrollY; i < end; i++ {
		if i == cursor {
			b.WriteString(selectedStyle.Render(plainHistoryLine(items[i])))
		} else {
			b.WriteString(formatHistoryLine(items[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func plainHistoryLine(item historyItem) string {
	line := fmt.Sprintf("#%-4d  %s  %s  %s",
		item.Index, item.Date, padRight(item.Name, nameColWidth), padLeft(formatPoints(item.Points), pointsColWidth))
	if item.IsBirthday {
		line += "  birthday"
	}
	return line
}

func runHistoryView(cmd *cobra.Command, items []historyItem) error {
	out := cmd.OutOrStdout()

	// Non-TTY fallback: print the static list
	if !isTerminal(out) {
		return printHistory(out, items)
	}

	p := tea.NewProgram(newHistoryModel(items), tea.WithAltScreen(), tea.WithOutput(out))
	_, err := p.Run()
	return err
}

func printHistory(w io.Writer, items []historyItem) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(w, formatHistoryLine(item)); err != nil {
			return err
		}
	}
	return nil
}

// padRight pads or truncates s to exactly width terminal cells. Wide runes
// that would straddle the edge are dropped and the gap filled with spaces.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		var b strings.Builder
		w = 0
		for _, r := range s {
			rw := lipgloss.Width(string(r))
			if w+rw > width {
				break
			}
			b.WriteRune(r)
			w += rw
		}
		s = b.String()
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
