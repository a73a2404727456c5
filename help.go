package main

// helpText builds the static usage text. The AI section changes with
// availability of a configured API key.
func helpText(aiEnabled bool) string {
	aiHelp := `
  AI Commands:
    AI functionality disabled - no API key provided
`
	if aiEnabled {
		aiHelp = `
  AI Commands:
    ai <query>              - Execute natural language commands using Gemini AI
    smart <query>           - Same as ai command

  AI Examples:
    ai show me all python files
    ai create a backup folder and copy all text files to it
    ai find the largest files in this directory
    smart delete all files with .tmp extension
`
	}

	return `Enhanced Terminal with Gemini AI Integration

Available commands:
  File Operations:
    ls [options] [path]     - List directory contents
    cd [path]               - Change directory
    pwd                     - Print working directory
    mkdir <dir>             - Create directory
    rm [options] <file>     - Remove file
    rmdir <dir>             - Remove empty directory
    cp <src> <dst>          - Copy file
    mv <src> <dst>          - Move/rename file
    cat <file>              - Display file contents
    echo <text>             - Display text
    grep <pattern> <file>   - Search in files
    find <path> [options]   - Find files
    touch <file>            - Create empty file

  System Monitoring:
    ps                      - List processes
    top                     - Show top processes
    kill <pid>              - Kill process
    df                      - Show disk usage
    du <path>               - Show directory size
    free                    - Show memory usage
    uptime                  - Show system uptime
    whoami                  - Show current user
    date                    - Show current date/time

  Terminal:
    history                 - Show command history
    clear                   - Clear screen
    help                    - Show this help
    exit/quit               - Exit terminal
` + aiHelp + `
  Aliases:
    ll = ls -la
    la = ls -la
    .. = cd ..
    ... = cd ../..
    h = history
    c = clear
    q = exit`
}
