package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// runInteractive drives the readline loop for the start subcommand.
func runInteractive(cfg *Config) error {
	term := NewTerminal(cfg)

	fmt.Printf("Enhanced Terminal v%s with Gemini AI\n", Version)
	if term.AIEnabled() {
		fmt.Println("Gemini AI integration active")
		fmt.Println("Try: 'ai show me all files' or 'smart create a backup folder'")
	} else {
		fmt.Println("Gemini AI integration disabled (no API key)")
		fmt.Println("To enable AI features, set GEMINI_API_KEY or pass --api-key")
	}
	fmt.Println("Type 'help' for available commands or 'exit' to quit")
	fmt.Println()

	// Cross-session input history, loaded into readline below.
	var store *HistoryStore
	if dir, err := configDir(); err == nil {
		store, err = OpenHistoryStore(filepath.Join(dir, "history.db"), cfg.HistoryLimit)
		if err != nil {
			fmt.Println("Warning: command history unavailable:", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            term.prompt(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryLimit:      cfg.HistoryLimit,
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %v", err)
	}
	defer rl.Close()

	if store != nil {
		if lines, err := store.Recent(cfg.HistoryLimit); err == nil {
			for _, line := range lines {
				rl.SaveHistory(line)
			}
		}
	}

	// Destructive AI batches ask on the same readline instance.
	term.confirm = func(prompt string) bool {
		rl.SetPrompt(prompt)
		defer rl.SetPrompt(term.prompt())
		answer, err := rl.Readline()
		if err != nil {
			// Interrupt or EOF during the prompt counts as a decline.
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}

	for {
		rl.SetPrompt(term.prompt())
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			fmt.Println("Error reading input:", err)
			continue
		}

		command := strings.TrimSpace(input)
		if command == "" {
			continue
		}

		if store != nil {
			store.Append(command)
		}

		output, exitCode := term.Execute(command)
		if output != "" {
			fmt.Println(output)
		}

		if exitCode == 0 && isExitCommand(command) {
			return nil
		}
	}
}

// prompt renders user@host:dir$ with an [AI] marker when the client is
// attached. Long directory names are shortened like the web UI does.
func (t *Terminal) prompt() string {
	username := "user"
	if name := os.Getenv("USER"); name != "" {
		username = name
	} else if name := os.Getenv("USERNAME"); name != "" {
		username = name
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "terminal"
	}

	cwd := filepath.Base(t.currentDir)
	if cwd == "" || cwd == "." {
		cwd = t.currentDir
	}
	if r := []rune(cwd); len(r) > 20 {
		cwd = string(r[:17]) + "..."
	}

	marker := ""
	if t.AIEnabled() {
		marker = "[AI] "
	}
	return fmt.Sprintf("%s%s@%s:%s$ ", marker, username, hostname, cwd)
}
