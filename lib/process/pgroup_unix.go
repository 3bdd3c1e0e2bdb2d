//go:build unix

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the program in its own process group so that a
// timeout kills everything it spawned, including helpers still holding the
// stdout pipe open.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		if err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
