// Package menu resolves the context menu of a selected result.
package menu

import (
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/platform"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/resources"
	"github.com/Aman-CERP/everyfind/internal/result"
)

// FontFamily is the icon font the glyphs below come from.
const FontFamily = "Segoe MDL2 Assets"

// Glyphs for the built-in entries.
const (
	GlyphFolder   = "\uE8B7"
	GlyphEditor   = "\uE70B"
	GlyphCopyPath = "\uE8C8"
	GlyphCopy     = "\uF413"
	GlyphDelete   = "\uE74D"
)

// Item is one context menu entry.
type Item struct {
	Title      string        `json:"title"`
	Glyph      string        `json:"glyph,omitempty"`
	FontFamily string        `json:"font_family,omitempty"`
	Action     action.Action `json:"action"`
}

// Resolver builds menus from the built-in templates and the user's own.
type Resolver struct {
	defaults platform.Defaults
	catalog  *resources.Catalog
}

// NewResolver creates a resolver. defaults supplies the reveal command and
// the editor used when settings name none.
func NewResolver(defaults platform.Defaults, catalog *resources.Catalog) *Resolver {
	if catalog == nil {
		catalog = resources.Default()
	}
	return &Resolver{defaults: defaults, catalog: catalog}
}

// Resolve returns the ordered menu for selected. Rows without a match get
// no menu. Command templates are offered on files only; copy entries on
// everything; delete on files and folders.
func (r *Resolver) Resolve(selected result.Result, s *config.Settings) []Item {
	m, ok := selected.Source()
	if !ok {
		return []Item{}
	}

	var items []Item
	if m.Kind == provider.KindFile {
		for _, tpl := range r.templates(s) {
			items = append(items, Item{
				Title:      tpl.Name,
				Glyph:      tpl.Glyph,
				FontFamily: FontFamily,
				Action:     action.Run(tpl.Command, Substitute(tpl.Argument, m.FullPath), m.FullPath),
			})
		}
	}

	items = append(items,
		Item{
			Title:      r.catalog.Get(resources.CopyPath),
			Glyph:      GlyphCopyPath,
			FontFamily: FontFamily,
			Action:     action.CopyText(m.FullPath),
		},
		Item{
			Title:      r.catalog.Get(resources.Copy),
			Glyph:      GlyphCopy,
			FontFamily: FontFamily,
			Action:     action.CopyFile(m.FullPath),
		},
	)

	if m.Kind == provider.KindFile || m.Kind == provider.KindFolder {
		items = append(items, Item{
			Title:      r.catalog.Get(resources.Delete),
			Glyph:      GlyphDelete,
			FontFamily: FontFamily,
			Action:     action.Delete(m.FullPath, m.Kind == provider.KindFolder),
		})
	}
	return items
}

// templates returns the built-in templates followed by the user's, in
// declared order.
func (r *Resolver) templates(s *config.Settings) []config.ContextMenuTemplate {
	editor := s.EditorPath
	if editor == "" {
		editor = r.defaults.Editor
	}

	out := make([]config.ContextMenuTemplate, 0, 2+len(s.ContextMenus))
	out = append(out,
		config.ContextMenuTemplate{
			Name:     r.catalog.Get(resources.OpenContainingFolder),
			Command:  r.defaults.RevealCommand,
			Argument: r.defaults.RevealArgument,
			Glyph:    GlyphFolder,
		},
		config.ContextMenuTemplate{
			Name:     r.catalog.Format(resources.OpenWithEditor, EditorName(editor)),
			Command:  editor,
			Argument: ` "` + config.PathPlaceholder + `"`,
			Glyph:    GlyphEditor,
		},
	)
	return append(out, s.ContextMenus...)
}

// Substitute replaces every {path} in argument with path. Nothing is escaped.
func Substitute(argument, path string) string {
	return strings.ReplaceAll(argument, config.PathPlaceholder, path)
}

// EditorName is the editor's base name without its extension. Both path
// separators are honoured so Windows paths resolve on any host.
func EditorName(editor string) string {
	base := editor
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
