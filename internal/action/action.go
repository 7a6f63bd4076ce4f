// Package action defines result and menu actions as plain values and the
// dispatcher that carries them out. Results hold an Action, never a closure,
// so they stay comparable and can cross the host bridge as JSON.
package action

import (
	"fmt"
)

// Kind selects what an Action does.
type Kind string

const (
	KindNone           Kind = "none"
	KindLaunch         Kind = "launch"
	KindRun            Kind = "run"
	KindCopyText       Kind = "copy_text"
	KindCopyFile       Kind = "copy_file"
	KindDelete         Kind = "delete"
	KindCopyDiagnostic Kind = "copy_diagnostic"
)

// Action is an immutable description of one user-triggerable operation.
type Action struct {
	Kind       Kind   `json:"kind"`
	Path       string `json:"path,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
	Command    string `json:"command,omitempty"`
	Argument   string `json:"argument,omitempty"`
	Text       string `json:"text,omitempty"`
	Recursive  bool   `json:"recursive,omitempty"`
}

// None is the action of rows that do nothing when chosen.
func None() Action { return Action{Kind: KindNone} }

// Launch opens path with its associated handler. An empty workingDir lets
// the handler pick its own.
func Launch(path, workingDir string) Action {
	return Action{Kind: KindLaunch, Path: path, WorkingDir: workingDir}
}

// Run starts command with an already substituted argument string. Path is
// the match the command was resolved for and names it in failure messages.
func Run(command, argument, path string) Action {
	return Action{Kind: KindRun, Command: command, Argument: argument, Path: path}
}

// CopyText places text on the clipboard.
func CopyText(text string) Action { return Action{Kind: KindCopyText, Text: text} }

// CopyFile places path on the clipboard as a file-drop list.
func CopyFile(path string) Action { return Action{Kind: KindCopyFile, Path: path} }

// Delete removes path; folders are removed with their contents when recursive.
func Delete(path string, recursive bool) Action {
	return Action{Kind: KindDelete, Path: path, Recursive: recursive}
}

// CopyDiagnostic copies failure details and tells the user it did.
func CopyDiagnostic(text string) Action { return Action{Kind: KindCopyDiagnostic, Text: text} }

// Validate checks that the fields the kind needs are present. Actions built
// by this module always validate; ones decoded from a host may not.
func (a Action) Validate() error {
	switch a.Kind {
	case KindNone:
		return nil
	case KindLaunch, KindCopyFile, KindDelete:
		if a.Path == "" {
			return fmt.Errorf("%s action requires a path", a.Kind)
		}
	case KindRun:
		if a.Command == "" {
			return fmt.Errorf("run action requires a command")
		}
	case KindCopyText, KindCopyDiagnostic:
		if a.Text == "" {
			return fmt.Errorf("%s action requires text", a.Kind)
		}
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}
