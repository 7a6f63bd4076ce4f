package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/result"
)

// Host is the plugin surface the finder drives. *plugin.Plugin satisfies it.
type Host interface {
	Query(ctx context.Context, text string) []result.Result
	LoadContextMenus(selected result.Result) []menu.Item
	ExecuteWith(ctx context.Context, a action.Action, n action.Notifier) bool
}

type mode int

const (
	modeList mode = iota
	modeMenu
)

// resultsMsg carries the rows of query number seq.
type resultsMsg struct {
	seq  int
	rows []result.Result
}

// executedMsg reports a finished action and the notifications it raised.
type executedMsg struct {
	dismiss bool
	notes   []string
}

// finderModel is the bubbletea model of the interactive finder. Every
// keystroke that changes the query issues a new query; only the response
// to the latest one is shown.
type finderModel struct {
	ctx    context.Context
	host   Host
	styles Styles

	input   textinput.Model
	spinner spinner.Model

	seq     int
	loading bool
	running bool

	mode      mode
	rows      []result.Result
	cursor    int
	offset    int
	menuFor   result.Result
	menuItems []menu.Item
	menuIdx   int

	status   string
	width    int
	height   int
	quitting bool
}

func newFinderModel(ctx context.Context, host Host, styles Styles, initial string) *finderModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Search files and folders"
	ti.PromptStyle = styles.Prompt
	ti.SetValue(initial)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Prompt

	return &finderModel{
		ctx:     ctx,
		host:    host,
		styles:  styles,
		input:   ti,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m *finderModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.input.Value() != "" {
		cmds = append(cmds, m.query())
	}
	return tea.Batch(cmds...)
}

// query starts a query for the current input and tags it with a new
// sequence number.
func (m *finderModel) query() tea.Cmd {
	m.seq++
	m.loading = true
	seq, text, ctx, host := m.seq, m.input.Value(), m.ctx, m.host
	return func() tea.Msg {
		return resultsMsg{seq: seq, rows: host.Query(ctx, text)}
	}
}

func (m *finderModel) execute(a action.Action) tea.Cmd {
	m.running = true
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		var notes []string
		n := action.NotifierFunc(func(title, subtitle string) {
			notes = append(notes, strings.TrimSpace(title+": "+subtitle))
		})
		dismiss := host.ExecuteWith(ctx, a, n)
		return executedMsg{dismiss: dismiss, notes: notes}
	}
}

// Update implements tea.Model.
func (m *finderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.clampOffset()
		return m, nil

	case resultsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.rows = msg.rows
		m.cursor, m.offset = 0, 0
		return m, nil

	case executedMsg:
		m.running = false
		m.status = strings.Join(msg.notes, " • ")
		if msg.dismiss {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *finderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.mode == modeMenu {
			m.mode = modeList
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "up", "ctrl+p":
		m.move(-1)
		return m, nil
	case "down", "ctrl+n":
		m.move(1)
		return m, nil
	case "enter":
		return m, m.activate()
	case "tab":
		m.openMenu()
		return m, nil
	}

	if m.mode == modeMenu {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.status = ""
		return m, tea.Batch(cmd, m.query())
	}
	return m, cmd
}

func (m *finderModel) move(delta int) {
	if m.mode == modeMenu {
		m.menuIdx = clamp(m.menuIdx+delta, 0, len(m.menuItems)-1)
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.clampOffset()
}

func (m *finderModel) activate() tea.Cmd {
	if m.running {
		return nil
	}
	if m.mode == modeMenu {
		if m.menuIdx < len(m.menuItems) {
			return m.execute(m.menuItems[m.menuIdx].Action)
		}
		return nil
	}
	if m.cursor < len(m.rows) {
		return m.execute(m.rows[m.cursor].Action)
	}
	return nil
}

func (m *finderModel) openMenu() {
	if m.mode != modeList || m.cursor >= len(m.rows) {
		return
	}
	selected := m.rows[m.cursor]
	items := m.host.LoadContextMenus(selected)
	if len(items) == 0 {
		m.status = "No actions for this row"
		return
	}
	m.mode = modeMenu
	m.menuFor = selected
	m.menuItems = items
	m.menuIdx = 0
}

// visibleRows is how many two-line rows fit between the input and the
// status lines.
func (m *finderModel) visibleRows() int {
	return max((m.height-4)/2, 1)
}

func (m *finderModel) clampOffset() {
	n := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+n {
		m.offset = m.cursor - n + 1
	}
}

// View implements tea.Model.
func (m *finderModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	if m.mode == modeMenu {
		m.renderMenu(&sb)
	} else {
		m.renderRows(&sb)
	}

	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Dim.Render(m.help()))
	return sb.String()
}

func (m *finderModel) renderRows(sb *strings.Builder) {
	end := min(m.offset+m.visibleRows(), len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		marker := "  "
		title := output.Highlight(r.Title, r.TitleHighlights, func(s string) string { return m.styles.Highlight.Render(s) })
		if i == m.cursor {
			marker = m.styles.Cursor.Render("▸ ")
			title = m.styles.Selected.Render(title)
		}
		sb.WriteString(marker + title + "\n")
		if r.Subtitle != "" {
			sub := output.Highlight(r.Subtitle, r.SubtitleHighlights, func(s string) string { return m.styles.Highlight.Render(s) })
			sb.WriteString("  " + m.styles.Subtitle.Render(sub) + "\n")
		}
	}
}

func (m *finderModel) renderMenu(sb *strings.Builder) {
	sb.WriteString(m.styles.Header.Render("Actions for "+m.menuFor.Title) + "\n")
	for i, it := range m.menuItems {
		marker := "  "
		title := it.Title
		if i == m.menuIdx {
			marker = m.styles.Cursor.Render("▸ ")
			title = m.styles.Selected.Render(title)
		}
		sb.WriteString(marker + title + "\n")
	}
}

func (m *finderModel) renderStatus() string {
	switch {
	case m.status != "":
		return m.styles.Warning.Render(m.status)
	case m.loading || m.running:
		return m.spinner.View() + " searching"
	case m.input.Value() == "":
		return m.styles.Dim.Render("Type to search")
	default:
		return m.styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.rows)))
	}
}

func (m *finderModel) help() string {
	if m.mode == modeMenu {
		return "↑/↓ select • enter run • esc back"
	}
	return "↑/↓ select • enter open • tab actions • esc quit"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
