package mcp

import (
	"fmt"
	"strings"
)

// FormatFindResults formats find_files results as markdown.
func FormatFindResults(query string, results []FileResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No files found for \"%s\"", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Files matching \"%s\"\n\n", query)
	fmt.Fprintf(&sb, "Found %d result", len(results))
	if len(results) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")

	for i, r := range results {
		marker := ""
		if r.Kind == "folder" {
			marker = " (folder)"
		}
		fmt.Fprintf(&sb, "%d. **%s**%s\n   `%s`\n", i+1, r.Name, marker, r.Path)
	}

	return sb.String()
}

// FormatActions formats file_actions output as a numbered markdown list.
func FormatActions(out FileActionsOutput) string {
	if len(out.Actions) == 0 {
		return fmt.Sprintf("No actions available for `%s`", out.Path)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Actions for `%s`\n\n", out.Path)
	for _, a := range out.Actions {
		fmt.Fprintf(&sb, "%d. %s", a.Index, a.Title)
		if a.Command != "" {
			fmt.Fprintf(&sb, " (`%s`)", a.Command)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
