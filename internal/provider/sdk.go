package provider

import (
	"path/filepath"
	"runtime"
)

const (
	// SDKDirName is the directory under the plugin dir holding the SDK builds.
	SDKDirName = "EverythingSDK"
	// SDKLibrary is the native library file name.
	SDKLibrary = "Everything.dll"
)

// SDKPath returns <pluginDir>/EverythingSDK/<arch>/Everything.dll.
func SDKPath(pluginDir, arch string) string {
	return filepath.Join(pluginDir, SDKDirName, arch, SDKLibrary)
}

// ArchFromGOARCH maps a Go architecture to the SDK build directory.
func ArchFromGOARCH(goarch string) string {
	switch goarch {
	case "386", "arm":
		return "x86"
	default:
		return "x64"
	}
}

// ResolveArch returns the host's hint when given, otherwise the architecture
// of the running process.
func ResolveArch(hint string) string {
	if hint != "" {
		return hint
	}
	return ArchFromGOARCH(runtime.GOARCH)
}
