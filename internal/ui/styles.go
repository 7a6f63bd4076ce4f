package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/everyfind/internal/output"
)

const (
	ColorWhite    = "255"
	ColorDarkGray = "238"
)

// Styles holds all styles used by the finder and the status renderer.
type Styles struct {
	Header    lipgloss.Style
	Prompt    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
	Cursor    lipgloss.Style
	Dim       lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(output.ColorAccent)),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorAccent)),
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorGray)),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(output.ColorAccent)),
		Selected:  lipgloss.NewStyle().Bold(true),
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorAccent)),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorAccent)),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorYellow)),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(output.ColorRed)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle(),
		Prompt:    lipgloss.NewStyle(),
		Title:     lipgloss.NewStyle(),
		Subtitle:  lipgloss.NewStyle(),
		Highlight: lipgloss.NewStyle(),
		Selected:  lipgloss.NewStyle(),
		Cursor:    lipgloss.NewStyle(),
		Dim:       lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle(),
		Panel:     lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
