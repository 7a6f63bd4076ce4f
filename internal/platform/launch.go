package platform

import (
	"os"
	"os/exec"
	"time"
)

// Run starts command with argument. It does not wait for the process; a
// failure to start is reported as ErrCannotStart.
func (n *Native) Run(command, argument, workingDir string) error {
	cmd, err := buildCommand(command, argument)
	if err != nil {
		return cannotStart(command, err)
	}
	cmd.Dir = workingDir

	if err := cmd.Start(); err != nil {
		return cannotStart(command, err)
	}
	n.logger.Debug("process started",
		"command", command,
		"pid", cmd.Process.Pid)

	go func() { _ = cmd.Wait() }()
	return nil
}

// Open starts path with its associated handler.
func (n *Native) Open(path, workingDir string) error {
	if _, err := os.Stat(path); err != nil {
		return cannotStart(path, err)
	}
	return n.shellOpen(path, workingDir)
}

// startAndWatch starts an opener and waits briefly for it to exit. Openers
// that fail to find a handler exit non-zero at once; one still running after
// the wait is treated as a successful launch.
func (n *Native) startAndWatch(cmd *exec.Cmd, target string) error {
	if err := cmd.Start(); err != nil {
		return cannotStart(target, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return cannotStart(target, err)
		}
		return nil
	case <-time.After(n.openWait):
		return nil
	}
}
