package result

import (
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/resources"
)

// Format turns the match at index (0-based, over the already capped
// sequence) into a row. Scores fall by one per position so the host keeps
// the provider's order.
func Format(_ string, m provider.Match, index int, s *config.Settings) Result {
	var workingDir string
	if s.UseLocationAsWorkingDir {
		workingDir = filepath.Dir(m.FullPath)
	}

	src := m.Clone()
	hl := m.Clone()
	return Result{
		Title:              m.Name,
		Subtitle:           m.FullPath,
		TitleHighlights:    hl.NameHighlights,
		SubtitleHighlights: hl.PathHighlights,
		Score:              s.MaxSearchCount - index,
		Icon:               m.FullPath,
		WorkingDir:         workingDir,
		Action:             action.Launch(m.FullPath, workingDir),
		source:             &src,
	}
}

// Unavailable is the single row shown when the engine cannot be reached.
func Unavailable(catalog *resources.Catalog) Result {
	return Result{
		Title:  catalog.Get(resources.NotRunning),
		Icon:   IconWarning,
		Action: action.None(),
	}
}

// Diagnostic is the single row shown for any other query failure. The
// subtitle names the failure and its root cause; choosing the row copies the
// full diagnostic text.
func Diagnostic(catalog *resources.Catalog, err error) Result {
	return Result{
		Title:    catalog.Get(resources.QueryError),
		Subtitle: errors.Summary(err),
		Icon:     IconError,
		Action:   action.CopyDiagnostic(errors.FormatDiagnostic(err)),
	}
}

// ForPath builds a launchable row for a path that did not come from a query,
// such as one named on the command line. Both separators are accepted since
// paths may come from a Windows index.
func ForPath(path string, kind provider.Kind) Result {
	name := baseName(path)
	return Result{
		Title:    name,
		Subtitle: path,
		Icon:     path,
		Action:   action.Launch(path, ""),
	}.WithSource(provider.Match{Name: name, FullPath: path, Kind: kind})
}

func baseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
