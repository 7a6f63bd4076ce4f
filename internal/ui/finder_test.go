package ui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
)

type fakeHost struct {
	mu       sync.Mutex
	rows     []result.Result
	items    []menu.Item
	queries  []string
	executed []action.Action
	dismiss  bool
	notify   []string
}

func (h *fakeHost) Query(_ context.Context, text string) []result.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, text)
	if text == "" {
		return []result.Result{}
	}
	return h.rows
}

func (h *fakeHost) LoadContextMenus(_ result.Result) []menu.Item {
	return h.items
}

func (h *fakeHost) ExecuteWith(_ context.Context, a action.Action, n action.Notifier) bool {
	h.mu.Lock()
	h.executed = append(h.executed, a)
	h.mu.Unlock()
	for _, s := range h.notify {
		n.Notify("Plugin: Everything", s)
	}
	return h.dismiss
}

func sampleRows() []result.Result {
	return []result.Result{
		{Title: "report.txt", Subtitle: "/home/u/report.txt", TitleHighlights: []int{0, 1, 2}, Action: action.Launch("/home/u/report.txt", "")},
		{Title: "reports", Subtitle: "/home/u/reports", Action: action.Launch("/home/u/reports", "")},
	}
}

func newTestFinder(h *fakeHost) *finderModel {
	return newFinderModel(context.Background(), h, NoColorStyles(), "")
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFinder_TypingIssuesQuery(t *testing.T) {
	// Given: an empty finder
	h := &fakeHost{rows: sampleRows()}
	m := newTestFinder(h)

	// When: a character is typed
	_, cmd := m.Update(key("r"))

	// Then: a query is issued for the new text
	require.NotNil(t, cmd)
	assert.Equal(t, "r", m.input.Value())
	assert.Equal(t, 1, m.seq)
	assert.True(t, m.loading)
}

func TestFinder_QueryCommandTagsSequence(t *testing.T) {
	// Given: a finder with text
	h := &fakeHost{rows: sampleRows()}
	m := newTestFinder(h)
	m.input.SetValue("rep")

	// When: running the query command
	msg := m.query()()

	// Then: the response carries the sequence number and rows
	res, ok := msg.(resultsMsg)
	require.True(t, ok)
	assert.Equal(t, 1, res.seq)
	assert.Len(t, res.rows, 2)
	assert.Equal(t, []string{"rep"}, h.queries)
}

func TestFinder_StaleResponsesAreDropped(t *testing.T) {
	// Given: two queries issued, the second still pending
	m := newTestFinder(&fakeHost{})
	m.query()
	m.query()

	// When: the first response arrives late
	m.Update(resultsMsg{seq: 1, rows: sampleRows()})

	// Then: it is ignored
	assert.Empty(t, m.rows)
	assert.True(t, m.loading)

	// When: the latest response arrives
	m.Update(resultsMsg{seq: 2, rows: sampleRows()[:1]})

	// Then: it is shown
	assert.Len(t, m.rows, 1)
	assert.False(t, m.loading)
}

func TestFinder_CursorMovesWithinBounds(t *testing.T) {
	m := newTestFinder(&fakeHost{})
	m.rows = sampleRows()

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
}

func TestFinder_EnterRunsRowAction(t *testing.T) {
	// Given: results with the second row selected
	h := &fakeHost{dismiss: true}
	m := newTestFinder(h)
	m.rows = sampleRows()
	m.cursor = 1

	// When: pressing enter and running the command
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()

	// Then: the launch action of that row ran
	require.Len(t, h.executed, 1)
	assert.Equal(t, action.Launch("/home/u/reports", ""), h.executed[0])

	// And: a dismissing action quits the finder
	_, cmd = m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestFinder_NotificationsShowInStatus(t *testing.T) {
	// Given: an action that notifies and keeps the finder open
	h := &fakeHost{notify: []string{"Can't open this file"}}
	m := newTestFinder(h)
	m.rows = sampleRows()

	// When: it runs
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())

	// Then: the status line shows the message
	assert.False(t, m.quitting)
	assert.Contains(t, m.View(), "Plugin: Everything: Can't open this file")
}

func TestFinder_EnterIgnoredWhileRunning(t *testing.T) {
	m := newTestFinder(&fakeHost{})
	m.rows = sampleRows()
	m.running = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestFinder_TabOpensMenuAndEscBacksOut(t *testing.T) {
	// Given: results and a menu
	h := &fakeHost{items: []menu.Item{
		{Title: "Copy path", Action: action.CopyText("/home/u/report.txt")},
		{Title: "Delete", Action: action.Delete("/home/u/report.txt", false)},
	}}
	m := newTestFinder(h)
	m.rows = sampleRows()

	// When: tab is pressed
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	// Then: the menu is shown
	require.Equal(t, modeMenu, m.mode)
	assert.Contains(t, m.View(), "Actions for report.txt")
	assert.Contains(t, m.View(), "Copy path")

	// When: selecting the second entry and pressing enter
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())

	// Then: that entry's action ran
	require.Len(t, h.executed, 1)
	assert.Equal(t, action.KindDelete, h.executed[0].Kind)

	// When: esc is pressed
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	// Then: the list is back and the finder keeps running
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
}

func TestFinder_TypingInMenuIsIgnored(t *testing.T) {
	h := &fakeHost{items: []menu.Item{{Title: "Copy path", Action: action.CopyText("/a")}}}
	m := newTestFinder(h)
	m.rows = sampleRows()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := m.Update(key("x"))

	assert.Nil(t, cmd)
	assert.Empty(t, m.input.Value())
}

func TestFinder_TabWithoutActions(t *testing.T) {
	m := newTestFinder(&fakeHost{})
	m.rows = sampleRows()

	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "No actions")
}

func TestFinder_EscInListQuits(t *testing.T) {
	m := newTestFinder(&fakeHost{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestFinder_ViewRendersRows(t *testing.T) {
	m := newTestFinder(&fakeHost{})
	m.input.SetValue("rep")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.rows = sampleRows()

	view := m.View()

	assert.Contains(t, view, "▸ report.txt")
	assert.Contains(t, view, "  /home/u/reports")
	assert.Contains(t, view, "2 results")
	assert.Contains(t, view, "tab actions")
}

func TestFinder_ScrollKeepsCursorVisible(t *testing.T) {
	m := newTestFinder(&fakeHost{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 8}) // two rows fit
	for i := 0; i < 5; i++ {
		m.rows = append(m.rows, result.Result{Title: strings.Repeat("x", i+1)})
	}

	for i := 0; i < 4; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	assert.Equal(t, 4, m.cursor)
	assert.Equal(t, 3, m.offset)
	assert.Contains(t, m.View(), "▸ xxxxx")
}

func TestFinder_InitRunsInitialQuery(t *testing.T) {
	h := &fakeHost{rows: sampleRows()}
	m := newFinderModel(context.Background(), h, NoColorStyles(), "report")

	require.NotNil(t, m.Init())

	assert.Equal(t, 1, m.seq)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-1, 0, 3))
	assert.Equal(t, 3, clamp(9, 0, 3))
	assert.Equal(t, 0, clamp(1, 0, -1))
}
