// Package config holds the persisted plugin settings: the editor used by
// "Open with", user-defined context menu templates, the result cap and the
// working-directory policy, plus the provider selection added for the bridge.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

const (
	// SettingsFileName is the name of the settings file inside the config dir.
	SettingsFileName = "settings.json"

	// DefaultMaxSearchCount is the result cap used when none (or a
	// non-positive one) is configured.
	DefaultMaxSearchCount = 30

	// ProviderEverything selects the native Everything SDK binding.
	ProviderEverything = "everything"
	// ProviderRPC selects an index service reached over the JSON-RPC socket.
	ProviderRPC = "rpc"

	// PathPlaceholder is substituted with the match's full path in template arguments.
	PathPlaceholder = "{path}"
)

// ContextMenuTemplate is a user-defined command offered on file results.
type ContextMenuTemplate struct {
	Name     string `json:"name" yaml:"name"`
	Command  string `json:"command" yaml:"command"`
	Argument string `json:"argument" yaml:"argument"`
	Glyph    string `json:"glyph" yaml:"glyph"`
}

// Settings is the persisted plugin configuration.
type Settings struct {
	EditorPath              string                `json:"editorPath" yaml:"editor_path"`
	ContextMenus            []ContextMenuTemplate `json:"contextMenus" yaml:"context_menus"`
	MaxSearchCount          int                   `json:"maxSearchCount" yaml:"max_search_count"`
	UseLocationAsWorkingDir bool                  `json:"useLocationAsWorkingDir" yaml:"use_location_as_working_dir"`

	Provider       string `json:"provider,omitempty" yaml:"provider"`
	ProviderSocket string `json:"providerSocket,omitempty" yaml:"provider_socket,omitempty"`
	LogLevel       string `json:"logLevel,omitempty" yaml:"log_level"`

	// env remembers the file values that EVERYFIND_* variables replaced so
	// Save never writes an override to disk.
	env envOverrides
}

// envOverrides pairs each overridden field's file value with the env value.
// The arrays are never mutated, so clones share them.
type envOverrides struct {
	provider       *[2]string
	providerSocket *[2]string
	logLevel       *[2]string
	maxSearchCount *[2]int
}

// NewSettings returns settings with every default applied.
func NewSettings() *Settings {
	return &Settings{
		ContextMenus:   []ContextMenuTemplate{},
		MaxSearchCount: DefaultMaxSearchCount,
		Provider:       ProviderEverything,
		LogLevel:       "info",
	}
}

// Clone returns a deep copy. Snapshots handed to queries are clones so a
// concurrent reload never mutates a slice a query is iterating.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	c.ContextMenus = slices.Clone(s.ContextMenus)
	return &c
}

// Normalize repairs values that are allowed on disk but unusable at runtime.
func (s *Settings) Normalize() {
	if s.MaxSearchCount <= 0 {
		s.MaxSearchCount = DefaultMaxSearchCount
	}
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = ProviderEverything
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.ContextMenus == nil {
		s.ContextMenus = []ContextMenuTemplate{}
	}
}

// Validate validates the settings and returns an error if invalid.
func (s *Settings) Validate() error {
	switch s.Provider {
	case ProviderEverything:
	case ProviderRPC:
		if strings.TrimSpace(s.ProviderSocket) == "" {
			return errors.ConfigError("providerSocket is required when provider is 'rpc'", nil).
				WithDetail("field", "providerSocket").
				WithSuggestion("Set providerSocket in settings.json or EVERYFIND_PROVIDER_SOCKET")
		}
	default:
		return errors.ConfigError(
			fmt.Sprintf("provider must be '%s' or '%s', got %s", ProviderEverything, ProviderRPC, s.Provider), nil).
			WithDetail("field", "provider")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.LogLevel] {
		return errors.ConfigError(
			fmt.Sprintf("logLevel must be 'debug', 'info', 'warn', or 'error', got %s", s.LogLevel), nil).
			WithDetail("field", "logLevel")
	}

	for i, tpl := range s.ContextMenus {
		if strings.TrimSpace(tpl.Name) == "" {
			return errors.ConfigError(fmt.Sprintf("contextMenus[%d]: name is required", i), nil).
				WithDetail("field", "contextMenus")
		}
		if strings.TrimSpace(tpl.Command) == "" {
			return errors.ConfigError(fmt.Sprintf("contextMenus[%d] %q: command is required", i, tpl.Name), nil).
				WithDetail("field", "contextMenus")
		}
	}
	return nil
}

// DefaultConfigDir returns the directory holding settings.json.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/everyfind (if XDG_CONFIG_HOME is set)
//   - ~/.config/everyfind (default)
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "everyfind")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "everyfind")
	}
	return filepath.Join(home, ".config", "everyfind")
}

// SettingsPath returns the settings file path inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// Load reads <dir>/settings.json. It applies configuration in order of
// increasing precedence:
//  1. Hardcoded defaults
//  2. The settings file (a missing file is fine)
//  3. Environment variables (EVERYFIND_*)
func Load(dir string) (*Settings, error) {
	s, err := LoadFile(SettingsPath(dir))
	if err != nil {
		return nil, err
	}
	s.Normalize()
	s.applyEnvOverrides()
	s.Normalize()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads one settings file without env overrides or validation.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSettings(), nil
		}
		return nil, errors.New(errors.ErrCodeFilePermission, "failed to read settings file", err).
			WithDetail("path", path)
	}
	return Parse(data)
}

// Parse decodes settings JSON on top of the defaults. Comments and trailing
// commas are tolerated since users edit this file by hand.
func Parse(data []byte) (*Settings, error) {
	s := NewSettings()
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if err := json5.Unmarshal(data, s); err != nil {
		return nil, errors.ConfigError("failed to parse settings", err).
			WithSuggestion("Check settings.json for syntax errors, or run 'everyfind config init --force'")
	}
	s.Normalize()
	return s, nil
}

// applyEnvOverrides applies EVERYFIND_* environment variable overrides.
// Call it on normalized settings so the recorded file values are final.
func (s *Settings) applyEnvOverrides() {
	overrideString := func(field *string, slot **[2]string, v string) {
		if v == "" {
			return
		}
		*slot = &[2]string{*field, v}
		*field = v
	}
	overrideString(&s.Provider, &s.env.provider, strings.ToLower(strings.TrimSpace(os.Getenv("EVERYFIND_PROVIDER"))))
	overrideString(&s.ProviderSocket, &s.env.providerSocket, os.Getenv("EVERYFIND_PROVIDER_SOCKET"))
	overrideString(&s.LogLevel, &s.env.logLevel, strings.ToLower(strings.TrimSpace(os.Getenv("EVERYFIND_LOG_LEVEL"))))

	if v := os.Getenv("EVERYFIND_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.env.maxSearchCount = &[2]int{s.MaxSearchCount, n}
			s.MaxSearchCount = n
		}
	}
}

// Persistable returns the settings as they belong on disk: every field an
// env variable overrode goes back to its file value, unless it has since
// been changed to something other than the override.
func (s *Settings) Persistable() *Settings {
	c := s.Clone()
	restore := func(field *string, o *[2]string) {
		if o != nil && *field == o[1] {
			*field = o[0]
		}
	}
	restore(&c.Provider, s.env.provider)
	restore(&c.ProviderSocket, s.env.providerSocket)
	restore(&c.LogLevel, s.env.logLevel)
	if o := s.env.maxSearchCount; o != nil && c.MaxSearchCount == o[1] {
		c.MaxSearchCount = o[0]
	}
	c.env = envOverrides{}
	return c
}

// Marshal renders settings as indented JSON, the on-disk format.
func (s *Settings) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.InternalError("failed to marshal settings", err)
	}
	return append(data, '\n'), nil
}

// ToYAML renders settings as YAML for display.
func (s *Settings) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.InternalError("failed to marshal settings", err)
	}
	return data, nil
}

// Save persists settings to <dir>/settings.json without any env overrides.
// A cross-process lock guards the write and the previous file is kept as a
// timestamped backup.
func Save(dir string, s *Settings) error {
	data, err := s.Persistable().Marshal()
	if err != nil {
		return err
	}

	return WithLock(context.Background(), dir, func() error {
		if _, err := BackupSettings(dir); err != nil {
			return err
		}
		return writeSettings(SettingsPath(dir), data)
	})
}

func writeSettings(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.New(errors.ErrCodeFilePermission, "failed to write settings", err).
			WithDetail("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.New(errors.ErrCodeFilePermission, "failed to write settings", err).
			WithDetail("path", path)
	}
	return nil
}
