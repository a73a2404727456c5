package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// runSystemCommand hands a line that matched no builtin to the host
// shell, in the session's current directory, bounded by the session's
// command timeout. Stdout and stderr are captured combined; the
// subprocess's own exit status becomes the result code.
func (t *Terminal) runSystemCommand(command string) (string, int) {
	ctx, cancel := context.WithTimeout(context.Background(), t.cmdTimeout)
	defer cancel()

	command = expandWildcards(command, t.currentDir)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = t.currentDir

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "Command timed out", 1
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode()
		}
		return fmt.Sprintf("Command failed: %v", err), 1
	}
	return string(out), 0
}
