package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Terminal holds the mutable state for one shell session. One instance
// exists per interactive session (or per web session id); it is not safe
// for concurrent use.
type Terminal struct {
	currentDir string
	history    []string
	ai         *GeminiClient
	cmdTimeout time.Duration

	// confirm is asked before an AI-issued batch containing destructive
	// commands runs. When nil (web, one-shot exec) the batch is cancelled.
	confirm func(prompt string) bool
}

// aliases is the fixed shorthand table, expanded once per input line.
var aliases = map[string]string{
	"ll":  "ls -la",
	"la":  "ls -la",
	"..":  "cd ..",
	"...": "cd ../..",
	"h":   "history",
	"c":   "clear",
	"q":   "exit",
}

// NewTerminal creates a session rooted at the process working directory.
// The AI client is only attached when an API key is configured.
func NewTerminal(cfg *Config) *Terminal {
	dir, err := os.Getwd()
	if err != nil {
		dir = string(os.PathSeparator)
	}

	t := &Terminal{
		currentDir: dir,
		cmdTimeout: cfg.CommandTimeout(),
	}
	if cfg.APIKey != "" {
		t.ai = NewGeminiClient(cfg)
	}
	return t
}

// Execute runs a single command line and returns its output and exit code.
// This is the universal entry point used by the interactive loop, the
// one-shot exec path and the web handlers alike. Exit code 0 means
// success; nonzero means failure. Unexpected panics are converted to an
// error result here so a single bad command never takes the session down.
func (t *Terminal) Execute(command string) (output string, exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			output = fmt.Sprintf("Error: %v", r)
			exitCode = 1
		}
	}()

	if strings.TrimSpace(command) == "" {
		return "", 0
	}

	t.history = append(t.history, command)

	command = expandAliases(command)

	parts := strings.Fields(command)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	if fn, ok := builtins[cmd]; ok {
		return fn(t, args)
	}
	return t.runSystemCommand(command)
}

// History returns the session's raw command log, oldest first.
func (t *Terminal) History() []string {
	return t.history
}

// CurrentDir returns the session's tracked working directory.
func (t *Terminal) CurrentDir() string {
	return t.currentDir
}

// AIEnabled reports whether an AI client is attached to this session.
func (t *Terminal) AIEnabled() bool {
	return t.ai != nil
}

// expandAliases replaces the first token of the line when it exactly
// matches an alias. Expansion is single-level: an alias expanding to
// another alias name is not re-expanded.
func expandAliases(command string) string {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return command
	}
	if expansion, ok := aliases[parts[0]]; ok {
		return strings.Replace(command, parts[0], expansion, 1)
	}
	return command
}

// resolve turns a user-supplied path into an absolute one relative to the
// session's current directory, expanding a leading ~.
func (t *Terminal) resolve(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.currentDir, path)
	}
	return filepath.Clean(path)
}

// listFiles returns the names of entries in the current directory, used
// as context for AI interpretation. Errors degrade to an empty listing.
func (t *Terminal) listFiles() []string {
	entries, err := os.ReadDir(t.currentDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// isExitCommand reports whether the raw input line should terminate the
// interactive loop. The check is on the original input, not the alias
// expansion, so the q alias prints the farewell without ending the loop.
func isExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}
