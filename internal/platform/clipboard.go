package platform

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// CopyFiles places paths on the clipboard as a file list, so pasting into a
// file manager copies the files themselves. Windows gets a native CF_HDROP
// block; elsewhere a clipboard utility is fed the list.
func (n *Native) CopyFiles(paths []string) error {
	if n.goos == "windows" {
		payload, err := dropFilesPayload(paths)
		if err == nil {
			err = setFileDrop(payload)
		}
		if err != nil {
			return errors.New(errors.ErrCodeInternal, "failed to copy files to clipboard", err)
		}
		return nil
	}

	argv, stdin, err := n.fileDropCommand(paths)
	if err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to copy files to clipboard", err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to copy files to clipboard", err).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	return nil
}

// fileDropCommand returns the command placing paths on the clipboard and
// the text to feed it on stdin.
func (n *Native) fileDropCommand(paths []string) ([]string, string, error) {
	if len(paths) == 0 {
		return nil, "", fmt.Errorf("no paths to copy")
	}

	switch n.goos {
	case "darwin":
		items := make([]string, len(paths))
		for i, p := range paths {
			items[i] = fmt.Sprintf("POSIX file %q", p)
		}
		script := fmt.Sprintf("set the clipboard to {%s}", strings.Join(items, ", "))
		return []string{"osascript", "-e", script}, "", nil

	default:
		uris := uriList(paths)
		if p, ok := n.LookPath("wl-copy"); ok {
			return []string{p, "--type", "text/uri-list"}, uris, nil
		}
		if p, ok := n.LookPath("xclip"); ok {
			return []string{p, "-selection", "clipboard", "-t", "text/uri-list"}, uris, nil
		}
		return nil, "", fmt.Errorf("no clipboard utility found (install wl-clipboard or xclip)")
	}
}

// uriList renders paths as a text/uri-list payload.
func uriList(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
		sb.WriteString(u.String())
		sb.WriteString("\r\n")
	}
	return sb.String()
}
