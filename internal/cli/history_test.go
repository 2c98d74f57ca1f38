package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/checkin/internal/ledger"
)

func execHistory(homeDir, partyFlag string, limit int, interactive bool) (string, error) {
	stdout := new(bytes.Buffer)
	cmd := historyCmd
	cmd.SetOut(stdout)

	err := runHistory(cmd, homeDir, partyFlag, limit, interactive, PromptKit{})
	return stdout.String(), err
}

func seedHistory(t *testing.T, homeDir string) {
	t.Helper()
	for _, c := range []struct{ party, date string }{
		{"A", "2024-08-23"},
		{"B", "2024-08-25"},
		{"A", "2024-08-30"},
		{"B", "2024-08-20"},
	} {
		_, err := execAdd(homeDir, c.party, c.date, true, yesKit())
		require.NoError(t, err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	homeDir := t.TempDir()

	stdout, err := execHistory(homeDir, "", 0, false)

	require.NoError(t, err)
	assert.Contains(t, stdout, "no check-ins recorded")
}

func TestHistoryInsertionOrder(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execHistory(homeDir, "", 0, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "2024-08-23")
	assert.Contains(t, lines[0], "birthday")
	assert.Contains(t, lines[2], "+7")
	assert.Contains(t, lines[3], "2024-08-20")
	assert.Contains(t, lines[3], "-5")
}

func TestHistoryPartyFilter(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execHistory(homeDir, "m", 0, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "#1")
	assert.Contains(t, lines[1], "#3")
}

func TestHistoryUnknownParty(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execHistory(homeDir, "Z", 0, false)

	assert.ErrorIs(t, err, ledger.ErrUnknownParty)
}

func TestHistoryLimitKeepsNewest(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execHistory(homeDir, "", 2, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "#3")
	assert.Contains(t, lines[1], "#4")
	assert.Contains(t, lines[2], "showing 2 of 4 check-ins")
}

func TestHistoryNoTruncationNoticeWhenAllShown(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execHistory(homeDir, "", 4, false)
	require.NoError(t, err)

	assert.NotContains(t, stdout, "showing")
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 4)
}

func TestPadRightCountsDisplayWidth(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"ascii short":    {in: "Anna", want: "Anna        "},
		"accented":       {in: "Renée", want: "Renée       "},
		"accented long":  {in: "Marie-Thérèse", want: "Marie-Thérès"},
		"emoji":          {in: "M 🎅", want: "M 🎅        "},
		"wide at edge":   {in: "Santa Claus🎅", want: "Santa Claus "},
		"exactly fitted": {in: "Bartholomew!", want: "Bartholomew!"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := padRight(tt.in, nameColWidth)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, nameColWidth, lipgloss.Width(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPadLeftCountsDisplayWidth(t *testing.T) {
	assert.Equal(t, "   +10", padLeft("+10", pointsColWidth))
	assert.Equal(t, "  Zoë", padLeft("Zoë", 5))
}

func TestHistoryInteractiveFallsBackWithoutTTY(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execHistory(homeDir, "", 0, true)

	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 4)
}

func testHistoryItems(n int) []historyItem {
	items := make([]historyItem, n)
	for i := range items {
		items[i] = historyItem{Index: i + 1, Date: "2025-01-01", Party: ledger.PartyA, Name: "M", Points: i}
	}
	return items
}

func TestHistoryModelStartsAtNewest(t *testing.T) {
	m := newHistoryModel(testHistoryItems(50))

	assert.Equal(t, 49, m.cursor)
	assert.Equal(t, 50-m.visibleRows(), m.scrollY)
}

func TestHistoryModelNavigation(t *testing.T) {
	m := newHistoryModel(testHistoryItems(50))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = updated.(historyModel)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.scrollY)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(historyModel)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(historyModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(historyModel)
	assert.Equal(t, 0, m.cursor)
}

func TestHistoryModelResize(t *testing.T) {
	m := newHistoryModel(testHistoryItems(10))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = updated.(historyModel)

	assert.Equal(t, 2, m.visibleRows())
	assert.Equal(t, 8, m.scrollY)
}

func TestHistoryModelQuit(t *testing.T) {
	m := newHistoryModel(testHistoryItems(3))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHistoryModelView(t *testing.T) {
	m := newHistoryModel(testHistoryItems(3))

	view := m.View()

	assert.Contains(t, view, "Date")
	assert.Contains(t, view, "3/3")
}
