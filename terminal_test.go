package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// newTestTerminal returns a session rooted in a fresh temp directory
// with no AI client attached.
func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()
	term := NewTerminal(DefaultConfig())
	term.currentDir = t.TempDir()
	return term
}

func TestBuiltinsRegistered(t *testing.T) {
	// The table is filled in init because the ai handler replays through
	// Execute; every documented command must be present once the package
	// is initialized.
	names := []string{
		"pwd", "cd", "ls", "mkdir", "rm", "rmdir", "cp", "mv", "touch",
		"cat", "echo", "grep", "find", "ps", "top", "kill", "df", "du",
		"free", "uptime", "whoami", "date", "history", "help", "clear",
		"exit", "quit", "ai", "smart",
	}
	if len(builtins) != len(names) {
		t.Errorf("builtins table has %d entries, want %d", len(builtins), len(names))
	}
	for _, name := range names {
		if builtins[name] == nil {
			t.Errorf("builtin %q not registered", name)
		}
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	term := newTestTerminal(t)

	for _, input := range []string{"", "   ", "\t"} {
		output, exitCode := term.Execute(input)
		if output != "" || exitCode != 0 {
			t.Errorf("Execute(%q) = (%q, %d), want (\"\", 0)", input, output, exitCode)
		}
	}
	if len(term.History()) != 0 {
		t.Errorf("blank input should not be recorded, history: %v", term.History())
	}
}

func TestPwd(t *testing.T) {
	term := newTestTerminal(t)

	output, exitCode := term.Execute("pwd")
	if exitCode != 0 {
		t.Fatalf("pwd failed with exit code %d", exitCode)
	}
	if output != term.CurrentDir() {
		t.Errorf("pwd = %q, want %q", output, term.CurrentDir())
	}
}

func TestCd(t *testing.T) {
	term := newTestTerminal(t)
	root := term.CurrentDir()

	t.Run("IntoSubdirectory", func(t *testing.T) {
		sub := filepath.Join(root, "sub")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatalf("failed to create subdirectory: %v", err)
		}

		if output, exitCode := term.Execute("cd sub"); exitCode != 0 {
			t.Fatalf("cd sub failed: %q", output)
		}
		if output, _ := term.Execute("pwd"); output != sub {
			t.Errorf("pwd after cd = %q, want %q", output, sub)
		}
	})

	t.Run("Nonexistent", func(t *testing.T) {
		before := term.CurrentDir()
		output, exitCode := term.Execute("cd does-not-exist")
		if exitCode != 1 {
			t.Errorf("cd to missing dir returned exit code %d, want 1", exitCode)
		}
		if !strings.Contains(output, "No such file or directory") {
			t.Errorf("unexpected cd error: %q", output)
		}
		if term.CurrentDir() != before {
			t.Errorf("current directory changed on failed cd: %q", term.CurrentDir())
		}
	})

	t.Run("NotADirectory", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(root, "plainfile"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		term.currentDir = root
		if _, exitCode := term.Execute("cd plainfile"); exitCode != 1 {
			t.Error("cd into a regular file should fail")
		}
	})

	t.Run("ExecuteOnlyDirectory", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not enforced on windows")
		}
		// A directory with execute but no read permission can be entered
		// even though it cannot be listed.
		xonly := filepath.Join(root, "xonly")
		if err := os.Mkdir(xonly, 0311); err != nil {
			t.Fatal(err)
		}
		defer os.Chmod(xonly, 0755)

		term.currentDir = root
		if output, exitCode := term.Execute("cd xonly"); exitCode != 0 {
			t.Errorf("cd into execute-only directory failed: %q", output)
		}
	})
}

func TestPromptShortensOnRuneBoundary(t *testing.T) {
	term := newTestTerminal(t)
	term.currentDir = filepath.Join(term.CurrentDir(), strings.Repeat("ü", 30))

	p := term.prompt()
	if !strings.Contains(p, strings.Repeat("ü", 17)+"...") {
		t.Errorf("prompt did not shorten to 17 runes: %q", p)
	}
	if strings.ContainsRune(p, '�') {
		t.Errorf("prompt contains a replacement character: %q", p)
	}
}

func TestMkdirRmdirRoundTrip(t *testing.T) {
	term := newTestTerminal(t)

	if output, exitCode := term.Execute("mkdir X"); exitCode != 0 {
		t.Fatalf("mkdir failed: %q", output)
	}
	if info, err := os.Stat(filepath.Join(term.CurrentDir(), "X")); err != nil || !info.IsDir() {
		t.Fatalf("mkdir did not create directory: %v", err)
	}

	if output, exitCode := term.Execute("rmdir X"); exitCode != 0 {
		t.Fatalf("rmdir failed: %q", output)
	}
	if _, err := os.Stat(filepath.Join(term.CurrentDir(), "X")); !os.IsNotExist(err) {
		t.Error("rmdir left directory behind")
	}
}

func TestRmdirNonEmpty(t *testing.T) {
	term := newTestTerminal(t)
	term.Execute("mkdir X")
	term.Execute("touch X/f")

	output, exitCode := term.Execute("rmdir X")
	if exitCode != 1 {
		t.Errorf("rmdir on non-empty directory returned %d, want 1", exitCode)
	}
	if output == "" {
		t.Error("rmdir failure produced no diagnostic")
	}
}

func TestTouchCatRoundTrip(t *testing.T) {
	term := newTestTerminal(t)

	if output, exitCode := term.Execute("touch f"); exitCode != 0 {
		t.Fatalf("touch failed: %q", output)
	}
	output, exitCode := term.Execute("cat f")
	if exitCode != 0 {
		t.Fatalf("cat failed: %q", output)
	}
	if output != "" {
		t.Errorf("cat of empty file = %q, want empty", output)
	}
}

func TestCatMissingFile(t *testing.T) {
	term := newTestTerminal(t)

	output, exitCode := term.Execute("cat nope.txt")
	if exitCode != 1 || !strings.Contains(output, "No such file or directory") {
		t.Errorf("cat missing file = (%q, %d)", output, exitCode)
	}
}

func TestAliasEquivalence(t *testing.T) {
	term := newTestTerminal(t)
	for _, name := range []string{"a.txt", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(term.CurrentDir(), name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	llOut, llCode := term.Execute("ll")
	lsOut, lsCode := term.Execute("ls -la")
	if llCode != 0 || lsCode != 0 {
		t.Fatalf("ll/ls -la failed: %d %d", llCode, lsCode)
	}
	if llOut != lsOut {
		t.Errorf("ll output differs from ls -la:\n%s\n---\n%s", llOut, lsOut)
	}
}

func TestAliasSingleLevel(t *testing.T) {
	// The h alias expands to history, but only the first token and only
	// one level deep.
	term := newTestTerminal(t)
	term.Execute("echo one")

	output, exitCode := term.Execute("h")
	if exitCode != 0 {
		t.Fatalf("h alias failed: %d", exitCode)
	}
	if !strings.Contains(output, "echo one") {
		t.Errorf("h did not behave like history: %q", output)
	}
}

func TestLs(t *testing.T) {
	term := newTestTerminal(t)
	root := term.CurrentDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "dir"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("DefaultHidesDotfiles", func(t *testing.T) {
		output, exitCode := term.Execute("ls")
		if exitCode != 0 {
			t.Fatalf("ls failed: %q", output)
		}
		if strings.Contains(output, ".hidden") {
			t.Error("ls showed hidden entry without -a")
		}
		if output != "a.txt  b.txt  dir" {
			t.Errorf("ls output not sorted/joined as expected: %q", output)
		}
	})

	t.Run("AllFlag", func(t *testing.T) {
		output, _ := term.Execute("ls -a")
		if !strings.Contains(output, ".hidden") {
			t.Error("ls -a did not show hidden entry")
		}
	})

	t.Run("LongFormat", func(t *testing.T) {
		output, _ := term.Execute("ls -l")
		if !strings.Contains(output, "drwxr-xr-x") {
			t.Error("ls -l missing directory permission string")
		}
		if !strings.Contains(output, "-rw-r--r--") {
			t.Error("ls -l missing file permission string")
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		output, exitCode := term.Execute("ls nope")
		if exitCode != 1 || !strings.Contains(output, "No such file or directory") {
			t.Errorf("ls on missing path = (%q, %d)", output, exitCode)
		}
	})
}

func TestRm(t *testing.T) {
	t.Run("RequiresRecursiveForDirectories", func(t *testing.T) {
		term := newTestTerminal(t)
		term.Execute("mkdir d")

		output, exitCode := term.Execute("rm d")
		if exitCode != 1 || !strings.Contains(output, "is a directory") {
			t.Errorf("rm on directory = (%q, %d)", output, exitCode)
		}
		if _, err := os.Stat(filepath.Join(term.CurrentDir(), "d")); err != nil {
			t.Error("failed rm removed the directory anyway")
		}
	})

	t.Run("RecursiveRemovesTree", func(t *testing.T) {
		term := newTestTerminal(t)
		term.Execute("mkdir d")
		term.Execute("touch d/f")

		if output, exitCode := term.Execute("rm -r d"); exitCode != 0 {
			t.Fatalf("rm -r failed: %q", output)
		}
		if _, err := os.Stat(filepath.Join(term.CurrentDir(), "d")); !os.IsNotExist(err) {
			t.Error("rm -r left the tree behind")
		}
	})

	t.Run("WildcardNoMatchIsError", func(t *testing.T) {
		term := newTestTerminal(t)
		// A file literally named *.xyz must survive a glob that matches
		// nothing; the literal pattern is never used as the target.
		literal := filepath.Join(term.CurrentDir(), "*.xyz")
		if err := os.WriteFile(literal, []byte("x"), 0644); err != nil {
			t.Skip("filesystem does not allow literal glob names")
		}

		output, exitCode := term.Execute("rm missing-*.tmp")
		if exitCode != 1 || !strings.Contains(output, "no files matched") {
			t.Errorf("rm with non-matching glob = (%q, %d)", output, exitCode)
		}
		if _, err := os.Stat(literal); err != nil {
			t.Errorf("literal wildcard file was touched: %v", err)
		}
	})

	t.Run("WildcardRemovesMatches", func(t *testing.T) {
		term := newTestTerminal(t)
		term.Execute("touch a.tmp b.tmp keep.txt")

		if output, exitCode := term.Execute("rm *.tmp"); exitCode != 0 {
			t.Fatalf("rm *.tmp failed: %q", output)
		}
		if _, err := os.Stat(filepath.Join(term.CurrentDir(), "a.tmp")); !os.IsNotExist(err) {
			t.Error("a.tmp survived rm *.tmp")
		}
		if _, err := os.Stat(filepath.Join(term.CurrentDir(), "keep.txt")); err != nil {
			t.Error("keep.txt was removed by rm *.tmp")
		}
	})
}

func TestCpMv(t *testing.T) {
	term := newTestTerminal(t)
	root := term.CurrentDir()
	if err := os.WriteFile(filepath.Join(root, "src.txt"), []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("CopyFile", func(t *testing.T) {
		if output, exitCode := term.Execute("cp src.txt dst.txt"); exitCode != 0 {
			t.Fatalf("cp failed: %q", output)
		}
		data, err := os.ReadFile(filepath.Join(root, "dst.txt"))
		if err != nil || string(data) != "payload" {
			t.Errorf("cp produced wrong contents: %q, %v", data, err)
		}
	})

	t.Run("CopyIntoDirectory", func(t *testing.T) {
		term.Execute("mkdir backup")
		if output, exitCode := term.Execute("cp src.txt backup"); exitCode != 0 {
			t.Fatalf("cp into dir failed: %q", output)
		}
		if _, err := os.Stat(filepath.Join(root, "backup", "src.txt")); err != nil {
			t.Errorf("cp into directory missing target: %v", err)
		}
	})

	t.Run("MoveFile", func(t *testing.T) {
		if output, exitCode := term.Execute("mv dst.txt moved.txt"); exitCode != 0 {
			t.Fatalf("mv failed: %q", output)
		}
		if _, err := os.Stat(filepath.Join(root, "dst.txt")); !os.IsNotExist(err) {
			t.Error("mv left source behind")
		}
		if _, err := os.Stat(filepath.Join(root, "moved.txt")); err != nil {
			t.Errorf("mv target missing: %v", err)
		}
	})

	t.Run("MissingSource", func(t *testing.T) {
		output, exitCode := term.Execute("mv absent.txt x.txt")
		if exitCode != 1 || output == "" {
			t.Errorf("mv missing source = (%q, %d)", output, exitCode)
		}
	})
}

func TestEcho(t *testing.T) {
	term := newTestTerminal(t)

	output, exitCode := term.Execute("echo hello   world")
	if exitCode != 0 || output != "hello world" {
		t.Errorf("echo = (%q, %d)", output, exitCode)
	}
}

func TestGrep(t *testing.T) {
	term := newTestTerminal(t)
	content := "alpha\nbeta match\ngamma\nmatch again\n"
	if err := os.WriteFile(filepath.Join(term.CurrentDir(), "f.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("MatchesWithLineNumbers", func(t *testing.T) {
		output, exitCode := term.Execute("grep match f.txt")
		if exitCode != 0 {
			t.Fatalf("grep failed: %q", output)
		}
		want := "f.txt:2:beta match\nf.txt:4:match again"
		if output != want {
			t.Errorf("grep output = %q, want %q", output, want)
		}
	})

	t.Run("StdinUnsupported", func(t *testing.T) {
		output, exitCode := term.Execute("grep pattern")
		if exitCode != 1 || !strings.Contains(output, "stdin") {
			t.Errorf("grep without files = (%q, %d)", output, exitCode)
		}
	})

	t.Run("MissingFileDoesNotAbortOthers", func(t *testing.T) {
		output, exitCode := term.Execute("grep match nope.txt f.txt")
		if exitCode != 0 {
			t.Fatalf("grep returned %d", exitCode)
		}
		if !strings.Contains(output, "grep: nope.txt: No such file or directory") {
			t.Errorf("missing-file diagnostic absent: %q", output)
		}
		if !strings.Contains(output, "f.txt:2:beta match") {
			t.Errorf("remaining file was not searched: %q", output)
		}
	})
}

func TestFind(t *testing.T) {
	term := newTestTerminal(t)
	term.Execute("mkdir d")
	term.Execute("touch d/one.log two.log three.txt")

	t.Run("ListsEverything", func(t *testing.T) {
		output, exitCode := term.Execute("find .")
		if exitCode != 0 {
			t.Fatalf("find failed: %q", output)
		}
		for _, want := range []string{"one.log", "two.log", "three.txt"} {
			if !strings.Contains(output, want) {
				t.Errorf("find output missing %s: %q", want, output)
			}
		}
	})

	t.Run("NameFilter", func(t *testing.T) {
		output, _ := term.Execute("find . -name .log")
		if !strings.Contains(output, "one.log") || strings.Contains(output, "three.txt") {
			t.Errorf("find -name filter wrong: %q", output)
		}
	})

	t.Run("MissingNameArgument", func(t *testing.T) {
		output, exitCode := term.Execute("find . -name")
		if exitCode != 1 || output == "" {
			t.Errorf("find -name without argument = (%q, %d)", output, exitCode)
		}
	})
}

func TestHistoryOrdering(t *testing.T) {
	term := newTestTerminal(t)
	for i := 1; i <= 25; i++ {
		term.Execute(fmt.Sprintf("echo cmd-%d", i))
	}

	output, exitCode := term.Execute("history")
	if exitCode != 0 {
		t.Fatalf("history failed: %d", exitCode)
	}

	lines := strings.Split(output, "\n")
	if len(lines) != 20 {
		t.Fatalf("history shows %d lines, want 20", len(lines))
	}
	// The history command records itself before rendering, so the window
	// covers echo cmd-7 .. echo cmd-25 plus history.
	if !strings.HasSuffix(lines[0], "echo cmd-7") || !strings.HasPrefix(strings.TrimSpace(lines[0]), "1 ") {
		t.Errorf("first history line wrong: %q", lines[0])
	}
	if !strings.HasSuffix(lines[19], "history") || !strings.HasPrefix(strings.TrimSpace(lines[19]), "20 ") {
		t.Errorf("last history line wrong: %q", lines[19])
	}
}

func TestHistoryEmpty(t *testing.T) {
	term := newTestTerminal(t)
	output, exitCode := term.Execute("history")
	// The history invocation itself is the only entry at render time.
	if exitCode != 0 || !strings.Contains(output, "history") {
		t.Errorf("history on fresh session = (%q, %d)", output, exitCode)
	}
}

func TestMissingOperands(t *testing.T) {
	term := newTestTerminal(t)

	for _, cmd := range []string{"mkdir", "rm", "rmdir", "cp", "mv", "touch", "cat", "grep", "find", "kill", "cp one"} {
		output, exitCode := term.Execute(cmd)
		if exitCode != 1 {
			t.Errorf("%q returned exit code %d, want 1", cmd, exitCode)
		}
		if output == "" {
			t.Errorf("%q produced no diagnostic", cmd)
		}
	}
}

func TestHelp(t *testing.T) {
	t.Run("WithoutAI", func(t *testing.T) {
		term := newTestTerminal(t)
		output, exitCode := term.Execute("help")
		if exitCode != 0 {
			t.Fatalf("help failed: %d", exitCode)
		}
		if !strings.Contains(output, "AI functionality disabled") {
			t.Errorf("help without key should note disabled AI: %q", output)
		}
	})

	t.Run("WithAI", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.APIKey = "test-key"
		term := NewTerminal(cfg)
		output, exitCode := term.Execute("help")
		if exitCode != 0 {
			t.Fatalf("help failed: %d", exitCode)
		}
		if !strings.Contains(output, "ai <query>") {
			t.Errorf("help with key should document ai command: %q", output)
		}
	})
}

func TestExitSentinel(t *testing.T) {
	term := newTestTerminal(t)

	for _, cmd := range []string{"exit", "quit", "EXIT"} {
		output, exitCode := term.Execute(cmd)
		if exitCode != 0 || output != "Goodbye!" {
			t.Errorf("%q = (%q, %d)", cmd, output, exitCode)
		}
		if !isExitCommand(cmd) {
			t.Errorf("isExitCommand(%q) = false", cmd)
		}
	}

	// The q alias prints the farewell but the sentinel checks the raw
	// input, so the loop keeps running.
	if output, _ := term.Execute("q"); output != "Goodbye!" {
		t.Errorf("q alias output = %q", output)
	}
	if isExitCommand("q") {
		t.Error("isExitCommand(\"q\") should be false")
	}
}

func TestKillInvalidPid(t *testing.T) {
	term := newTestTerminal(t)
	output, exitCode := term.Execute("kill notanumber")
	if exitCode != 1 || !strings.Contains(output, "invalid process ID") {
		t.Errorf("kill notanumber = (%q, %d)", output, exitCode)
	}
}

func TestWhoamiDateNeverFail(t *testing.T) {
	term := newTestTerminal(t)
	for _, cmd := range []string{"whoami", "date"} {
		output, exitCode := term.Execute(cmd)
		if exitCode != 0 || output == "" {
			t.Errorf("%q = (%q, %d)", cmd, output, exitCode)
		}
	}
}
