package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/internal/config"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "PASS"},
		{StatusWarn, "WARN"},
		{StatusFail, "FAIL"},
		{CheckStatus(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "bridge", Status: StatusWarn, Message: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warn"`)
}

func TestCheckResult_IsCritical(t *testing.T) {
	tests := []struct {
		name     string
		result   CheckResult
		expected bool
	}{
		{"required pass is not critical", CheckResult{Status: StatusPass, Required: true}, false},
		{"required fail is critical", CheckResult{Status: StatusFail, Required: true}, true},
		{"optional fail is not critical", CheckResult{Status: StatusFail, Required: false}, false},
		{"required warn is not critical", CheckResult{Status: StatusWarn, Required: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsCritical())
		})
	}
}

func TestChecker_SummaryStatus(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		results []CheckResult
		want    string
	}{
		{"all pass", []CheckResult{{Status: StatusPass, Required: true}}, "ready"},
		{"warning", []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}, "ready_with_warnings"},
		{"optional failure", []CheckResult{{Status: StatusFail}}, "ready_with_warnings"},
		{"critical failure", []CheckResult{{Status: StatusWarn}, {Status: StatusFail, Required: true}}, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.SummaryStatus(tt.results))
			assert.Equal(t, tt.want == "failed", c.HasCriticalFailures(tt.results))
		})
	}
}

func TestChecker_CheckSettings(t *testing.T) {
	t.Setenv("EVERYFIND_PROVIDER", "")
	c := New()

	t.Run("missing file uses defaults", func(t *testing.T) {
		s, r := c.CheckSettings(t.TempDir())
		assert.Equal(t, StatusPass, r.Status)
		assert.Equal(t, config.ProviderEverything, s.Provider)
	})

	t.Run("invalid file fails with suggestion", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"maxSearchCount": `), 0o644))

		s, r := c.CheckSettings(dir)

		assert.Equal(t, StatusFail, r.Status)
		assert.True(t, r.IsCritical())
		assert.NotEmpty(t, r.Details)
		require.NotNil(t, s)
	})
}

func TestChecker_CheckWritePermissions(t *testing.T) {
	c := New()

	// Given: a directory that does not exist yet
	dir := filepath.Join(t.TempDir(), "a", "b")

	// When: checking it
	r := c.CheckWritePermissions("config_dir", dir, true)

	// Then: it is created, writable and left empty
	assert.Equal(t, StatusPass, r.Status)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChecker_CheckWritePermissions_NotADirectory(t *testing.T) {
	c := New()
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	required := c.CheckWritePermissions("config_dir", file, true)
	optional := c.CheckWritePermissions("log_dir", file, false)

	assert.Equal(t, StatusFail, required.Status)
	assert.Equal(t, StatusWarn, optional.Status)
}

func TestChecker_CheckProvider_Everything(t *testing.T) {
	old := loadEverything
	t.Cleanup(func() { loadEverything = old })
	c := New()
	s := config.NewSettings()

	var loaded string
	loadEverything = func(path string) error {
		loaded = path
		return nil
	}
	r := c.CheckProvider(context.Background(), Target{PluginDir: "/plugins", Arch: "x64"}, s)
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, loaded, filepath.Join("/plugins", "EverythingSDK", "x64"))

	loadEverything = func(string) error { return errors.New("not found") }
	r = c.CheckProvider(context.Background(), Target{PluginDir: "/plugins", Arch: "x64"}, s)
	assert.Equal(t, StatusWarn, r.Status)
	assert.Equal(t, "not found", r.Details)
}

func TestChecker_CheckProvider_RPC(t *testing.T) {
	c := New(WithTimeout(time.Second))
	socket := filepath.Join(t.TempDir(), "index.sock")
	s := config.NewSettings()
	s.Provider = config.ProviderRPC
	s.ProviderSocket = socket

	// Given: nothing listening
	r := c.CheckProvider(context.Background(), Target{}, s)
	assert.Equal(t, StatusWarn, r.Status)

	// Given: a listener on the socket
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	r = c.CheckProvider(context.Background(), Target{}, s)
	assert.Equal(t, StatusPass, r.Status)
}

func TestChecker_CheckBridge(t *testing.T) {
	c := New(WithTimeout(time.Second))
	socket := filepath.Join(t.TempDir(), "bridge.sock")

	r := c.CheckBridge(context.Background(), socket)
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, r.Message, "not running")

	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	r = c.CheckBridge(context.Background(), socket)
	assert.Contains(t, r.Message, "listening")
}

func TestChecker_RunAll_And_Print(t *testing.T) {
	old := loadEverything
	t.Cleanup(func() { loadEverything = old })
	loadEverything = func(string) error { return errors.New("no sdk") }
	t.Setenv("EVERYFIND_PROVIDER", "")

	// Given: a fresh installation
	base := t.TempDir()
	target := Target{
		ConfigDir:  filepath.Join(base, "config"),
		PluginDir:  filepath.Join(base, "plugin"),
		LogDir:     filepath.Join(base, "logs"),
		BridgePath: filepath.Join(base, "bridge.sock"),
	}
	buf := &bytes.Buffer{}
	c := New(WithOutput(buf), WithVerbose(true))

	// When: running every check
	results := c.RunAll(context.Background(), target)
	c.PrintResults(results)

	// Then: each check reports and the SDK warning is shown
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"settings", "config_dir", "log_dir", "provider", "bridge", "file_descriptors", "disk_space"}, names)
	assert.False(t, c.HasCriticalFailures(results[:5]))
	assert.Contains(t, buf.String(), "[WARN] provider")
	assert.Contains(t, buf.String(), "no sdk")
}
