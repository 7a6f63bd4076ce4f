package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// StatusInfo describes the bridge and its query counters.
type StatusInfo struct {
	Running       bool       `json:"running"`
	PID           int        `json:"pid,omitempty"`
	Uptime        string     `json:"uptime,omitempty"`
	Provider      string     `json:"provider,omitempty"`
	ProviderReady bool       `json:"provider_ready"`
	Queries       int64      `json:"queries"`
	Superseded    int64      `json:"superseded"`
	Unavailable   int64      `json:"unavailable"`
	Faults        int64      `json:"faults"`
	TopTerms      []TermInfo `json:"top_terms,omitempty"`
	SocketPath    string     `json:"socket_path"`
}

// TermInfo is a frequent query term.
type TermInfo struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// StatusRenderer displays bridge status.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:    out,
		styles: GetStyles(noColor),
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("everyfind bridge"))

	if !info.Running {
		_, _ = fmt.Fprintf(r.out, "  Status:   %s\n", r.renderStatus("stopped"))
		_, _ = fmt.Fprintf(r.out, "  Socket:   %s\n", info.SocketPath)
		return nil
	}

	_, _ = fmt.Fprintf(r.out, "  Status:   %s (pid %d, up %s)\n", r.renderStatus("running"), info.PID, info.Uptime)
	_, _ = fmt.Fprintf(r.out, "  Socket:   %s\n", info.SocketPath)

	provider := "offline"
	if info.ProviderReady {
		provider = "ready"
	}
	_, _ = fmt.Fprintf(r.out, "  Provider: %s (%s)\n\n", info.Provider, r.renderStatus(provider))

	_, _ = fmt.Fprintln(r.out, "  Queries:")
	_, _ = fmt.Fprintf(r.out, "    Total:       %d\n", info.Queries)
	_, _ = fmt.Fprintf(r.out, "    Superseded:  %d\n", info.Superseded)
	_, _ = fmt.Fprintf(r.out, "    Unavailable: %d\n", info.Unavailable)
	_, _ = fmt.Fprintf(r.out, "    Faults:      %s\n", r.renderCount(info.Faults))

	if len(info.TopTerms) > 0 {
		terms := make([]string, 0, len(info.TopTerms))
		for _, t := range info.TopTerms {
			terms = append(terms, fmt.Sprintf("%s (%d)", t.Term, t.Count))
		}
		_, _ = fmt.Fprintf(r.out, "\n  Top terms: %s\n", strings.Join(terms, ", "))
	}
	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

func (r *StatusRenderer) renderStatus(status string) string {
	switch status {
	case "ready", "running":
		return r.styles.Success.Render(status)
	case "offline", "stopped":
		return r.styles.Warning.Render(status)
	default:
		return status
	}
}

func (r *StatusRenderer) renderCount(n int64) string {
	s := fmt.Sprint(n)
	if n > 0 {
		return r.styles.Error.Render(s)
	}
	return s
}
