//go:build !windows

package platform

import "fmt"

func setFileDrop([]byte) error {
	return fmt.Errorf("CF_HDROP clipboard is only available on Windows")
}
