// Package platform wraps the operating system services result actions need:
// shell-associated launch, command templates, clipboard and deletion.
// Every path arrives raw and unescaped.
package platform

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// OS is the set of collaborators the action dispatcher drives.
type OS interface {
	// Open starts path with its associated handler in workingDir.
	Open(path, workingDir string) error
	// Run starts command with a raw argument string.
	Run(command, argument, workingDir string) error
	CopyText(text string) error
	CopyFiles(paths []string) error
	Remove(path string, recursive bool) error
}

// ErrCannotStart matches (via errors.Is) launch failures where the target
// could not be started at all: no handler, missing executable, bad path.
var ErrCannotStart = errors.New(errors.ErrCodeLaunchFailed, "cannot start", nil)

func cannotStart(target string, cause error) error {
	return errors.New(errors.ErrCodeLaunchFailed, fmt.Sprintf("can't start %s", target), cause).
		WithDetail("path", target)
}

// Native implements OS for the running operating system.
type Native struct {
	goos      string
	lookPath  func(string) (string, error)
	found     *lru.Cache[string, string]
	writeText func(string) error
	logger    *slog.Logger

	// openCommand overrides the opener on non-Windows systems.
	openCommand []string
	// openWait is how long Open waits for the opener to report failure.
	openWait time.Duration
}

// New returns the OS implementation for this machine.
func New(logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	found, _ := lru.New[string, string](64)
	return &Native{
		goos:      runtime.GOOS,
		lookPath:  exec.LookPath,
		found:     found,
		writeText: clipboard.WriteAll,
		logger:    logger,
		openWait:  2 * time.Second,
	}
}

// LookPath resolves an executable name, caching hits and misses.
// A miss is cached as the empty string.
func (n *Native) LookPath(name string) (string, bool) {
	if p, ok := n.found.Get(name); ok {
		return p, p != ""
	}
	p, err := n.lookPath(name)
	if err != nil {
		p = ""
	}
	n.found.Add(name, p)
	return p, p != ""
}

// Defaults are the platform's built-in context menu commands.
type Defaults struct {
	RevealCommand  string
	RevealArgument string
	Editor         string
}

// Defaults returns the reveal command and default editor for this system.
func (n *Native) Defaults() Defaults {
	cmd, arg := RevealTemplate(n.goos)
	return Defaults{
		RevealCommand:  cmd,
		RevealArgument: arg,
		Editor:         n.DefaultEditor(),
	}
}

// RevealTemplate returns the file manager command that selects {path}.
func RevealTemplate(goos string) (command, argument string) {
	switch goos {
	case "windows":
		return "explorer.exe", ` /select,"{path}"`
	case "darwin":
		return "open", ` -R "{path}"`
	default:
		return "dbus-send", ` --session --dest=org.freedesktop.FileManager1 --type=method_call` +
			` /org/freedesktop/FileManager1 org.freedesktop.FileManager1.ShowItems` +
			` array:string:"file://{path}" string:""`
	}
}

var linuxEditors = []string{"gedit", "gnome-text-editor", "kate", "mousepad", "xed"}

// DefaultEditor returns the editor used when settings name none.
func (n *Native) DefaultEditor() string {
	switch n.goos {
	case "windows":
		return "notepad.exe"
	case "darwin":
		return "/System/Applications/TextEdit.app/Contents/MacOS/TextEdit"
	default:
		for _, name := range linuxEditors {
			if p, ok := n.LookPath(name); ok {
				return p
			}
		}
		return linuxEditors[0]
	}
}

// CopyText places text on the clipboard.
func (n *Native) CopyText(text string) error {
	if err := n.writeText(text); err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to copy to clipboard", err)
	}
	return nil
}
