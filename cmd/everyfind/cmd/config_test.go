package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/configs"
	"github.com/Aman-CERP/everyfind/internal/config"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// When: finding config command
	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	// Then: init, show and path are present
	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"])
	assert.True(t, names["show"])
	assert.True(t, names["path"])
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()

	out, err := executeCmd(t, "config", "path", "--config-dir", dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "settings.json")+"\n", out)
}

func TestConfigInit_WritesTemplate(t *testing.T) {
	// Given: an empty config directory that does not exist yet
	dir := filepath.Join(t.TempDir(), "nested")

	// When: running config init
	out, err := executeCmd(t, "config", "init", "--config-dir", dir)

	// Then: the template is written
	require.NoError(t, err)
	assert.Contains(t, out, "Created settings")
	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, configs.SettingsTemplate, string(data))
}

func TestConfigInit_ExistingWithoutForce(t *testing.T) {
	// Given: existing settings
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"maxSearchCount": 5}`), 0o644))

	// When: running config init without --force
	out, err := executeCmd(t, "config", "init", "--config-dir", dir)

	// Then: nothing is overwritten
	require.NoError(t, err)
	assert.Contains(t, out, "already exist")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"maxSearchCount": 5}`, string(data))
}

func TestConfigInit_ForceKeepsBackup(t *testing.T) {
	// Given: existing settings
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"maxSearchCount": 5}`), 0o644))

	// When: running config init --force
	out, err := executeCmd(t, "config", "init", "--force", "--config-dir", dir)

	// Then: the template replaces the file and a backup remains
	require.NoError(t, err)
	assert.Contains(t, out, "Backup:")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.SettingsTemplate, string(data))

	matches, err := filepath.Glob(path + ".bak*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestConfigInit_WaitsForSettingsLock(t *testing.T) {
	// Given: another process is writing settings
	dir := t.TempDir()
	holder := flock.New(filepath.Join(dir, config.LockFileName))
	require.NoError(t, holder.Lock())
	defer func() { _ = holder.Unlock() }()

	// When: config init runs with a short deadline
	cmd, _ := newTestRoot(t, "config", "init", "--config-dir", dir)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := cmd.ExecuteContext(ctx)

	// Then: it gives up and writes nothing
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another process")
	assert.NoFileExists(t, filepath.Join(dir, "settings.json"))
}

func TestConfigShow_JSON(t *testing.T) {
	// Given: settings with a custom result cap
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"maxSearchCount": 12}`), 0o644))

	// When: showing as JSON
	out, err := executeCmd(t, "config", "show", "--config-dir", dir)

	// Then: the effective settings are printed
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 12, got["maxSearchCount"])
	assert.Equal(t, "everything", got["provider"])
}

func TestConfigShow_YAML(t *testing.T) {
	out, err := executeCmd(t, "config", "show", "--format", "yaml", "--config-dir", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "max_search_count: 30")
}

func TestConfigShow_UnknownFormat(t *testing.T) {
	_, err := executeCmd(t, "config", "show", "--format", "toml", "--config-dir", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
