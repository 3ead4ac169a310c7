package iris

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
)

// Handoff returns an ExecFunc that replaces the current process image with the
// main process, forwarding args and the current environment. On success the
// call never returns: the main process inherits this PID, its signal handling
// and its exit-code reporting.
func Handoff(mainProcess string) sequencer.ExecFunc {
	return func(args []string) error {
		path, err := exec.LookPath(mainProcess)
		if err != nil {
			return fmt.Errorf("resolving main process %s: %w", mainProcess, err)
		}

		argv := append([]string{path}, args...)
		if err := syscall.Exec(path, argv, os.Environ()); err != nil {
			return fmt.Errorf("exec %s: %w", path, err)
		}
		return nil
	}
}
