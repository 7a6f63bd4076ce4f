//go:build !windows

package provider

func openLibrary(string) (library, error) {
	return nil, ErrUnsupportedPlatform
}
