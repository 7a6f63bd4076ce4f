package provider

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSDKPath(t *testing.T) {
	got := SDKPath(filepath.Join("plugins", "Everything"), "x64")

	assert.Equal(t, filepath.Join("plugins", "Everything", "EverythingSDK", "x64", "Everything.dll"), got)
}

func TestArchFromGOARCH(t *testing.T) {
	tests := map[string]string{
		"386":   "x86",
		"arm":   "x86",
		"amd64": "x64",
		"arm64": "x64",
	}
	for goarch, want := range tests {
		assert.Equal(t, want, ArchFromGOARCH(goarch), goarch)
	}
}

func TestResolveArch(t *testing.T) {
	assert.Equal(t, "x86", ResolveArch("x86"))
	assert.Equal(t, ArchFromGOARCH(runtime.GOARCH), ResolveArch(""))
}
