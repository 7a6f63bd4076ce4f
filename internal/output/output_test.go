package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
)

func brackets(s string) string { return "[" + s + "]" }

func TestHighlight(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		offsets []int
		want    string
	}{
		{"no offsets", "report.txt", nil, "report.txt"},
		{"single run", "report.txt", []int{0, 1, 2}, "[rep]ort.txt"},
		{"two runs", "report.txt", []int{0, 7, 8, 9}, "[r]eport.[txt]"},
		{"whole text", "abc", []int{0, 1, 2}, "[abc]"},
		{"out of range ignored", "abc", []int{-1, 5}, "abc"},
		{"duplicates", "abc", []int{1, 1}, "a[b]c"},
		{"runes not bytes", "über.txt", []int{0, 1}, "[üb]er.txt"},
		{"unsorted", "abcd", []int{3, 0}, "[a]bc[d]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.offsets, brackets))
		})
	}
}

func TestWriter_Results_Plain(t *testing.T) {
	// Given: a writer without color and two rows
	buf := &bytes.Buffer{}
	w := NewWithColor(buf, false)
	rows := []result.Result{
		{Title: "report.txt", Subtitle: "/home/u/report.txt", TitleHighlights: []int{0, 1}},
		{Title: "reports", Subtitle: "/home/u/reports"},
	}

	// When: printing
	w.Results(rows)

	// Then: the list is numbered with subtitles indented and no escape codes
	want := "1. report.txt\n   /home/u/report.txt\n2. reports\n   /home/u/reports\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_Results_PadsNumbers(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWithColor(buf, false)
	rows := make([]result.Result, 10)
	for i := range rows {
		rows[i] = result.Result{Title: "x"}
	}

	w.Results(rows)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, " 1. x", lines[0])
	assert.Equal(t, "10. x", lines[9])
}

func TestWriter_Results_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	NewWithColor(buf, false).Results(nil)
	assert.Contains(t, buf.String(), "No results.")
}

func TestWriter_MenuItems(t *testing.T) {
	// Given: a run entry and a copy entry
	buf := &bytes.Buffer{}
	w := NewWithColor(buf, false)
	items := []menu.Item{
		{Title: "Open with vim", Action: action.Run("vim", ` "/a.txt"`, "/a.txt")},
		{Title: "Copy path", Action: action.CopyText("/a.txt")},
	}

	// When: printing
	w.MenuItems(items)

	// Then: indices match --run and commands are shown
	assert.Equal(t, "[0] Open with vim (vim \"/a.txt\")\n[1] Copy path\n", buf.String())
}

func TestWriter_StatusIcons(t *testing.T) {
	tests := []struct {
		name string
		call func(w *Writer)
		want string
	}{
		{"success", func(w *Writer) { w.Success("done") }, "✅ done\n"},
		{"warning", func(w *Writer) { w.Warningf("bridge %s", "down") }, "⚠️  bridge down\n"},
		{"error", func(w *Writer) { w.Errorf("code %d", 3) }, "❌ code 3\n"},
		{"no icon", func(w *Writer) { w.Status("", "plain") }, "   plain\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.call(NewWithColor(buf, false))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	require.NoError(t, w.JSON(map[string]int{"a": 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, NoColor())
}
