package main

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestSystemCommandFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fallback tests assume a POSIX shell")
	}

	t.Run("UnknownCommand", func(t *testing.T) {
		term := newTestTerminal(t)
		output, exitCode := term.Execute("badcommand123")
		if exitCode == 0 {
			t.Error("unknown command returned exit code 0")
		}
		if strings.TrimSpace(output) == "" {
			t.Error("unknown command produced no output")
		}
	})

	t.Run("ExitCodePropagation", func(t *testing.T) {
		term := newTestTerminal(t)
		_, exitCode := term.Execute(`sh -c "exit 3"`)
		if exitCode != 3 {
			t.Errorf("exit code = %d, want 3", exitCode)
		}
	})

	t.Run("CombinedOutput", func(t *testing.T) {
		term := newTestTerminal(t)
		output, exitCode := term.Execute(`sh -c 'printf out; printf err 1>&2'`)
		if exitCode != 0 {
			t.Fatalf("exit code = %d", exitCode)
		}
		if !strings.Contains(output, "out") || !strings.Contains(output, "err") {
			t.Errorf("stdout and stderr not combined: %q", output)
		}
	})

	t.Run("RunsInCurrentDirectory", func(t *testing.T) {
		term := newTestTerminal(t)
		term.Execute("touch marker.txt")
		output, exitCode := term.Execute(`sh -c 'ls marker.txt'`)
		if exitCode != 0 || !strings.Contains(output, "marker.txt") {
			t.Errorf("fallback did not run in session directory: (%q, %d)", output, exitCode)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		term := newTestTerminal(t)
		term.cmdTimeout = 100 * time.Millisecond

		output, exitCode := term.Execute("sleep 1")
		if exitCode != 1 {
			t.Errorf("timed-out command returned %d, want 1", exitCode)
		}
		if output != "Command timed out" {
			t.Errorf("timeout message = %q", output)
		}
	})
}
