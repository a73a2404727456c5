package main

import (
	"fmt"
	"runtime"
	"strings"
)

// destructiveCommands is the deny-list of verb substrings that gate an
// AI-issued batch behind an explicit confirmation.
var destructiveCommands = []string{"rm", "rmdir", "mv", "kill"}

// handleAI translates a natural-language request into shell commands via
// the remote model and replays them through the dispatcher, stopping at
// the first failure.
func (t *Terminal) handleAI(args []string) (string, int) {
	if t.ai == nil {
		return "AI functionality not available. Please provide a Gemini API key.", 1
	}
	if len(args) == 0 {
		return "Usage: ai <natural language command>\nExample: ai show me all python files", 1
	}

	query := strings.Join(args, " ")
	interp := t.ai.Interpret(query, t.currentDir, t.listFiles(), runtime.GOOS)
	aiInterpretations.Inc()

	if !interp.Success {
		msg := interp.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		return "AI Error: " + msg, 1
	}
	if len(interp.Commands) == 0 {
		return "AI could not interpret the request: " + interp.Explanation, 1
	}

	if containsDestructive(interp.Commands) {
		prompt := fmt.Sprintf("Commands to execute: %s\nThis operation may modify/delete files. Continue? (y/n): ",
			strings.Join(interp.Commands, " && "))
		if t.confirm == nil || !t.confirm(prompt) {
			return "Operation cancelled by user.", 0
		}
	}

	var results []string
	if interp.Explanation != "" {
		results = append(results, "AI Interpretation: "+interp.Explanation)
	}

	for i, cmd := range interp.Commands {
		results = append(results, fmt.Sprintf("[%d/%d] Executing: %s", i+1, len(interp.Commands), cmd))
		output, exitCode := t.Execute(cmd)
		if strings.TrimSpace(output) != "" {
			results = append(results, output)
		}
		if exitCode != 0 {
			results = append(results, fmt.Sprintf("Command failed with exit code %d", exitCode))
			return strings.Join(results, "\n"), exitCode
		}
	}

	results = append(results, "All commands executed successfully!")
	return strings.Join(results, "\n"), 0
}

// containsDestructive reports whether any command in the batch contains a
// deny-listed substring.
func containsDestructive(commands []string) bool {
	for _, cmd := range commands {
		for _, verb := range destructiveCommands {
			if strings.Contains(cmd, verb) {
				return true
			}
		}
	}
	return false
}
