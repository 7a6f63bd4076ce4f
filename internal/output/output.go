// Package output provides consistent CLI output formatting for query results,
// context menus and status messages.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
)

// Palette shared with the interactive finder.
const (
	ColorAccent = "154"
	ColorGray   = "245"
	ColorRed    = "196"
	ColorYellow = "220"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out      io.Writer
	useColor bool

	emph lipgloss.Style
	dim  lipgloss.Style
}

// New creates a Writer that colors output only when out is a terminal and
// NO_COLOR is unset.
func New(out io.Writer) *Writer {
	return NewWithColor(out, IsTerminal(out) && !NoColor())
}

// NewWithColor creates a Writer with color explicitly on or off.
func NewWithColor(out io.Writer, useColor bool) *Writer {
	return &Writer{
		out:      out,
		useColor: useColor,
		emph:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NoColor reports whether the NO_COLOR convention asks for plain output.
func NoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Results prints query rows as a numbered list: title on the first line,
// subtitle indented below it. Highlight spans are emphasized when color is on.
func (w *Writer) Results(rows []result.Result) {
	if len(rows) == 0 {
		w.Status("", "No results.")
		return
	}

	width := len(fmt.Sprint(len(rows)))
	for i, r := range rows {
		title := w.highlight(r.Title, r.TitleHighlights)
		_, _ = fmt.Fprintf(w.out, "%*d. %s\n", width, i+1, title)
		if r.Subtitle != "" {
			sub := w.highlight(r.Subtitle, r.SubtitleHighlights)
			if w.useColor && len(r.SubtitleHighlights) == 0 {
				sub = w.dim.Render(r.Subtitle)
			}
			_, _ = fmt.Fprintf(w.out, "%s  %s\n", strings.Repeat(" ", width), sub)
		}
	}
}

// MenuItems prints context menu entries with the index --run accepts.
func (w *Writer) MenuItems(items []menu.Item) {
	if len(items) == 0 {
		w.Status("", "No actions.")
		return
	}
	for i, it := range items {
		line := fmt.Sprintf("[%d] %s", i, it.Title)
		if it.Action.Command != "" {
			detail := fmt.Sprintf("(%s %s)", it.Action.Command, strings.TrimSpace(it.Action.Argument))
			if w.useColor {
				detail = w.dim.Render(detail)
			}
			line += " " + detail
		}
		_, _ = fmt.Fprintln(w.out, line)
	}
}

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *Writer) highlight(text string, offsets []int) string {
	if !w.useColor {
		return text
	}
	return Highlight(text, offsets, func(s string) string { return w.emph.Render(s) })
}

// Highlight applies emph to each maximal run of highlighted runes. Offsets
// are rune offsets into text; out-of-range and duplicate offsets are ignored.
func Highlight(text string, offsets []int, emph func(string) string) string {
	if len(offsets) == 0 || text == "" {
		return text
	}

	runes := []rune(text)
	marked := make([]bool, len(runes))
	found := false
	for _, o := range offsets {
		if o >= 0 && o < len(runes) {
			marked[o] = true
			found = true
		}
	}
	if !found {
		return text
	}

	var sb strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && marked[j] == marked[i] {
			j++
		}
		span := string(runes[i:j])
		if marked[i] {
			span = emph(span)
		}
		sb.WriteString(span)
		i = j
	}
	return sb.String()
}
