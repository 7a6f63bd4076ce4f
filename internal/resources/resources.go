// Package resources holds the user-visible strings. English is built in;
// a host may overlay translations from a JSON file keyed by the same names.
package resources

import (
	"fmt"
	"os"

	"github.com/titanous/json5"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// Key names a user-visible string.
type Key string

const (
	PluginName           Key = "plugin_name"
	PluginDescription    Key = "plugin_description"
	NotRunning           Key = "is_not_running"
	QueryError           Key = "query_error"
	Copied               Key = "copied"
	CantOpen             Key = "cant_open"
	OpenContainingFolder Key = "open_containing_folder"
	OpenWithEditor       Key = "open_with_editor" // %s: editor name
	CantStart            Key = "cant_start"       // %s: path
	CopyPath             Key = "copy_path"
	Copy                 Key = "copy"
	Delete               Key = "delete"
	CantDelete           Key = "cant_delete" // %s: path
)

var english = map[Key]string{
	PluginName:           "Everything",
	PluginDescription:    "Search on-disk files and folders with Everything",
	NotRunning:           "Everything is not running",
	QueryError:           "Query error",
	Copied:               "Copied",
	CantOpen:             "Can't open this file",
	OpenContainingFolder: "Open containing folder",
	OpenWithEditor:       "Open with %s",
	CantStart:            "Can't start %s",
	CopyPath:             "Copy path",
	Copy:                 "Copy",
	Delete:               "Delete",
	CantDelete:           "Can't delete %s",
}

// Catalog resolves keys to strings. The zero value is not usable; use
// Default or Load. A Catalog is read-only after construction.
type Catalog struct {
	strings map[Key]string
}

// Default returns the built-in English catalog.
func Default() *Catalog {
	c := &Catalog{strings: make(map[Key]string, len(english))}
	for k, v := range english {
		c.strings[k] = v
	}
	return c
}

// Load returns the English catalog overlaid with the translations in path.
// Unknown keys in the file are ignored.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFileNotFound, "failed to read translations", err).
			WithDetail("path", path)
	}

	var overlay map[string]string
	if err := json5.Unmarshal(data, &overlay); err != nil {
		return nil, errors.ConfigError("failed to parse translations", err).
			WithDetail("path", path)
	}

	c := Default()
	for k, v := range overlay {
		if _, known := c.strings[Key(k)]; known && v != "" {
			c.strings[Key(k)] = v
		}
	}
	return c, nil
}

// Get returns the string for key, or the key itself when missing.
func (c *Catalog) Get(key Key) string {
	if s, ok := c.strings[key]; ok {
		return s
	}
	return string(key)
}

// Format returns the string for key with args substituted.
func (c *Catalog) Format(key Key, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}
