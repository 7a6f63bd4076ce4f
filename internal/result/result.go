// Package result shapes provider matches into display rows.
package result

import (
	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/provider"
)

// Icons for rows that carry no match. Paths are relative to the plugin directory.
const (
	IconWarning = "Images/warning.png"
	IconError   = "Images/error.png"
)

// Result is one display row. Rows built from a match carry a private copy
// of it, reachable through Source; informational and diagnostic rows carry none.
type Result struct {
	Title              string
	Subtitle           string
	TitleHighlights    []int
	SubtitleHighlights []int
	Score              int
	Icon               string
	WorkingDir         string
	Action             action.Action

	source *provider.Match
}

// Source returns the match the row was built from.
func (r Result) Source() (provider.Match, bool) {
	if r.source == nil {
		return provider.Match{}, false
	}
	return r.source.Clone(), true
}

// HasSource reports whether the row was built from a match.
func (r Result) HasSource() bool {
	return r.source != nil
}

// WithSource returns a copy of r backed by m. Hosts use it to rebuild a row
// that crossed a process boundary.
func (r Result) WithSource(m provider.Match) Result {
	c := m.Clone()
	r.source = &c
	return r
}

// DTO is the wire form of a Result.
type DTO struct {
	Title              string          `json:"title"`
	Subtitle           string          `json:"subtitle,omitempty"`
	TitleHighlights    []int           `json:"title_highlights,omitempty"`
	SubtitleHighlights []int           `json:"subtitle_highlights,omitempty"`
	Score              int             `json:"score"`
	Icon               string          `json:"icon,omitempty"`
	WorkingDir         string          `json:"working_dir,omitempty"`
	Action             action.Action   `json:"action"`
	Source             *provider.Match `json:"source,omitempty"`
}

// ToDTO converts r for the wire.
func (r Result) ToDTO() DTO {
	d := DTO{
		Title:              r.Title,
		Subtitle:           r.Subtitle,
		TitleHighlights:    r.TitleHighlights,
		SubtitleHighlights: r.SubtitleHighlights,
		Score:              r.Score,
		Icon:               r.Icon,
		WorkingDir:         r.WorkingDir,
		Action:             r.Action,
	}
	if m, ok := r.Source(); ok {
		d.Source = &m
	}
	return d
}

// FromDTO rebuilds a Result received over the wire.
func FromDTO(d DTO) Result {
	r := Result{
		Title:              d.Title,
		Subtitle:           d.Subtitle,
		TitleHighlights:    d.TitleHighlights,
		SubtitleHighlights: d.SubtitleHighlights,
		Score:              d.Score,
		Icon:               d.Icon,
		WorkingDir:         d.WorkingDir,
		Action:             d.Action,
	}
	if d.Source != nil {
		r = r.WithSource(*d.Source)
	}
	return r
}

// ToDTOs converts a slice of rows.
func ToDTOs(rs []Result) []DTO {
	out := make([]DTO, len(rs))
	for i, r := range rs {
		out[i] = r.ToDTO()
	}
	return out
}

// FromDTOs rebuilds a slice of rows.
func FromDTOs(ds []DTO) []Result {
	out := make([]Result, len(ds))
	for i, d := range ds {
		out[i] = FromDTO(d)
	}
	return out
}
