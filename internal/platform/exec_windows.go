//go:build windows

package platform

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// buildCommand passes argument to the process verbatim, after the quoted
// executable name, as CreateProcess expects.
func buildCommand(command, argument string) (*exec.Cmd, error) {
	cmd := exec.Command(command)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: syscall.EscapeArg(command) + argument,
	}
	return cmd, nil
}

func (n *Native) shellOpen(path, workingDir string) error {
	if len(n.openCommand) > 0 {
		cmd := exec.Command(n.openCommand[0], append(n.openCommand[1:], path)...)
		cmd.Dir = workingDir
		return n.startAndWatch(cmd, path)
	}

	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return cannotStart(path, err)
	}
	var dir *uint16
	if workingDir != "" {
		if dir, err = windows.UTF16PtrFromString(workingDir); err != nil {
			return cannotStart(path, err)
		}
	}

	if err := windows.ShellExecute(0, nil, file, nil, dir, windows.SW_SHOWNORMAL); err != nil {
		return cannotStart(path, err)
	}
	return nil
}
