package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var apiKeyFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:           "aiterm",
		Short:         "A command terminal with Gemini AI integration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key for AI functionality")

	rootCmd.AddCommand(newStartCmd(), newWebCmd(), newExecCmd(), newInstallCmd(), newTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadRuntimeConfig resolves configuration with flag > env > config file
// precedence. There is no embedded fallback credential.
func loadRuntimeConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	return cfg, nil
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the interactive terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig()
			if err != nil {
				return err
			}
			return runInteractive(cfg)
		},
	}
}

func newWebCmd() *cobra.Command {
	var (
		host  string
		port  int
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the web-based terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig()
			if err != nil {
				return err
			}
			server := NewWebServer(cfg, newWebLogger(debug))
			fmt.Printf("Starting web terminal at http://%s:%d\n", host, port)
			fmt.Println("Press Ctrl+C to stop the server")
			return server.Run(host, port, debug)
		},
	}
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to bind the web server to")
	cmd.Flags().IntVar(&port, "port", 5000, "port to bind the web server to")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command>...",
		Short: "Execute a single command and exit",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadRuntimeConfig()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			term := NewTerminal(cfg)
			output, exitCode := term.Execute(strings.Join(args, " "))
			if output != "" {
				fmt.Println(output)
			}
			os.Exit(exitCode)
		},
	}
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the binary to ~/.local/bin",
		RunE: func(cmd *cobra.Command, args []string) error {
			self, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %v", err)
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to locate home directory: %v", err)
			}
			binDir := filepath.Join(home, ".local", "bin")
			if err := os.MkdirAll(binDir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %v", binDir, err)
			}

			dst := filepath.Join(binDir, "aiterm")
			in, err := os.Open(self)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := io.Copy(out, in); err != nil {
				return fmt.Errorf("failed to install binary: %v", err)
			}
			fmt.Println("Installed to", dst)
			return nil
		},
	}
}

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run basic functionality smoke tests",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Running terminal tests...")

			cfg, err := loadRuntimeConfig()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			term := NewTerminal(cfg)

			testCommands := []string{"pwd", "whoami", "date", "ls", "help"}
			passed := 0
			for _, tc := range testCommands {
				_, exitCode := term.Execute(tc)
				if exitCode == 0 {
					fmt.Println("PASS", tc)
					passed++
				} else {
					fmt.Printf("FAIL %s (exit code: %d)\n", tc, exitCode)
				}
			}

			fmt.Printf("\nTests completed: %d/%d passed\n", passed, len(testCommands))
			if passed != len(testCommands) {
				os.Exit(1)
			}
		},
	}
}
