//go:build !windows

package platform

import (
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// buildCommand splits argument the way a shell would, without running one.
func buildCommand(command, argument string) (*exec.Cmd, error) {
	args, err := shellwords.Parse(argument)
	if err != nil {
		return nil, fmt.Errorf("invalid argument %q: %w", argument, err)
	}
	return exec.Command(command, args...), nil
}

func (n *Native) shellOpen(path, workingDir string) error {
	argv := n.openCommand
	if len(argv) == 0 {
		if n.goos == "darwin" {
			argv = []string{"open"}
		} else {
			argv = []string{"xdg-open"}
		}
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Dir = workingDir
	return n.startAndWatch(cmd, path)
}
