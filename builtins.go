package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// builtinFunc is the uniform contract every builtin implements.
type builtinFunc func(t *Terminal, args []string) (string, int)

// builtins maps a lower-cased command name to its handler. Names not in
// this table fall through to the system-command fallback. The table is
// populated in init: the ai handler replays commands through Execute,
// which reads the table, so a composite literal at package level would
// form an initialization cycle.
var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"pwd":     (*Terminal).handlePwd,
		"cd":      (*Terminal).handleCd,
		"ls":      (*Terminal).handleLs,
		"mkdir":   (*Terminal).handleMkdir,
		"rm":      (*Terminal).handleRm,
		"rmdir":   (*Terminal).handleRmdir,
		"cp":      (*Terminal).handleCp,
		"mv":      (*Terminal).handleMv,
		"touch":   (*Terminal).handleTouch,
		"cat":     (*Terminal).handleCat,
		"echo":    (*Terminal).handleEcho,
		"grep":    (*Terminal).handleGrep,
		"find":    (*Terminal).handleFind,
		"ps":      (*Terminal).handlePs,
		"top":     (*Terminal).handleTop,
		"kill":    (*Terminal).handleKill,
		"df":      (*Terminal).handleDf,
		"du":      (*Terminal).handleDu,
		"free":    (*Terminal).handleFree,
		"uptime":  (*Terminal).handleUptime,
		"whoami":  (*Terminal).handleWhoami,
		"date":    (*Terminal).handleDate,
		"history": (*Terminal).handleHistory,
		"help":    (*Terminal).handleHelp,
		"clear":   (*Terminal).handleClear,
		"exit":    (*Terminal).handleExit,
		"quit":    (*Terminal).handleExit,
		"ai":      (*Terminal).handleAI,
		"smart":   (*Terminal).handleAI,
	}
}

func (t *Terminal) handlePwd(args []string) (string, int) {
	return t.currentDir, 0
}

func (t *Terminal) handleCd(args []string) (string, int) {
	var target string
	if len(args) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Sprintf("cd: %v", err), 1
		}
		target = home
	} else {
		target = t.resolve(args[0])
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("cd: %s: No such file or directory", target), 1
		}
		if os.IsPermission(err) {
			return fmt.Sprintf("cd: %s: Permission denied", target), 1
		}
		return fmt.Sprintf("cd: %s: %v", target, err), 1
	}
	if !info.IsDir() {
		return fmt.Sprintf("cd: %s: Not a directory", target), 1
	}

	t.currentDir = target
	return "", 0
}

func (t *Terminal) handleLs(args []string) (string, int) {
	path := t.currentDir
	showHidden := false
	longFormat := false

	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			if strings.Contains(arg, "a") {
				showHidden = true
			}
			if strings.Contains(arg, "l") {
				longFormat = true
			}
		} else {
			path = t.resolve(arg)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("ls: %s: Permission denied", path), 1
		}
		return fmt.Sprintf("ls: %s: No such file or directory", path), 1
	}
	if !info.IsDir() {
		return path, 0
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Sprintf("ls: %s: Permission denied", path), 1
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if !longFormat {
		return strings.Join(names, "  "), 0
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		full := filepath.Join(path, name)
		st, err := os.Stat(full)
		if err != nil {
			lines = append(lines, fmt.Sprintf("?rwx------ 1 user user        0 Jan 01 00:00 %s", name))
			continue
		}
		mtime := st.ModTime().Format("Jan 02 15:04")
		if st.IsDir() {
			lines = append(lines, fmt.Sprintf("drwxr-xr-x 1 user user %8d %s %s", st.Size(), mtime, name))
		} else {
			lines = append(lines, fmt.Sprintf("-rw-r--r-- 1 user user %8d %s %s", st.Size(), mtime, name))
		}
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleMkdir(args []string) (string, int) {
	if len(args) == 0 {
		return "mkdir: missing operand", 1
	}

	for _, pattern := range args {
		for _, name := range expandPattern(t.currentDir, pattern, true) {
			dir := t.resolve(name)
			if err := os.MkdirAll(dir, 0755); err != nil {
				if os.IsPermission(err) {
					return fmt.Sprintf("mkdir: %s: Permission denied", name), 1
				}
				return fmt.Sprintf("mkdir: %s: %v", name, err), 1
			}
		}
	}
	return "", 0
}

func (t *Terminal) handleRm(args []string) (string, int) {
	if len(args) == 0 {
		return "rm: missing operand", 1
	}

	recursive := false
	var targets []string
	for _, arg := range args {
		if arg == "-r" || arg == "-rf" {
			recursive = true
			continue
		}
		matches := expandPattern(t.currentDir, arg, false)
		if len(matches) == 0 {
			// A deletion pattern that matches nothing is an error; the
			// literal pattern is never used as the target.
			return fmt.Sprintf("rm: %s: no files matched", arg), 1
		}
		targets = append(targets, matches...)
	}

	if len(targets) == 0 {
		return "rm: missing operand", 1
	}

	for _, target := range targets {
		full := t.resolve(target)
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Sprintf("rm: %s: No such file or directory", target), 1
			}
			return fmt.Sprintf("rm: %s: %v", target, err), 1
		}
		if info.IsDir() && !recursive {
			return fmt.Sprintf("rm: %s: is a directory (use -r to remove)", target), 1
		}
		if info.IsDir() {
			err = os.RemoveAll(full)
		} else {
			err = os.Remove(full)
		}
		if err != nil {
			if os.IsPermission(err) {
				return fmt.Sprintf("rm: %s: Permission denied", target), 1
			}
			return fmt.Sprintf("rm: %s: %v", target, err), 1
		}
	}
	return "", 0
}

func (t *Terminal) handleRmdir(args []string) (string, int) {
	if len(args) == 0 {
		return "rmdir: missing operand", 1
	}

	for _, name := range args {
		full := t.resolve(name)
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Sprintf("rmdir: %s: No such file or directory", name), 1
		}
		if !info.IsDir() {
			return fmt.Sprintf("rmdir: %s: Not a directory", name), 1
		}
		// os.Remove refuses to delete a non-empty directory, which is
		// exactly rmdir's contract.
		if err := os.Remove(full); err != nil {
			if os.IsPermission(err) {
				return fmt.Sprintf("rmdir: %s: Permission denied", name), 1
			}
			return fmt.Sprintf("rmdir: %s: directory not empty", name), 1
		}
	}
	return "", 0
}

func (t *Terminal) handleCp(args []string) (string, int) {
	if len(args) < 2 {
		return "cp: missing file operand", 1
	}

	srcPattern := args[0]
	dst := t.resolve(args[1])

	sources := expandPattern(t.currentDir, srcPattern, false)
	if len(sources) == 0 {
		return fmt.Sprintf("cp: %s: No files matched", srcPattern), 1
	}

	dstInfo, dstErr := os.Stat(dst)
	dstIsDir := dstErr == nil && dstInfo.IsDir()

	for _, src := range sources {
		srcPath := t.resolve(src)
		final := dst
		if dstIsDir {
			final = filepath.Join(dst, filepath.Base(srcPath))
		}
		if err := copyFile(srcPath, final); err != nil {
			if os.IsNotExist(err) {
				return fmt.Sprintf("cp: %s: No such file or directory", src), 1
			}
			if os.IsPermission(err) {
				return fmt.Sprintf("cp: %s: Permission denied", src), 1
			}
			return fmt.Sprintf("cp: %s: %v", src, err), 1
		}
	}
	return "", 0
}

func (t *Terminal) handleMv(args []string) (string, int) {
	if len(args) < 2 {
		return "mv: missing file operand", 1
	}

	srcPattern := args[0]
	dst := t.resolve(args[1])

	sources := expandPattern(t.currentDir, srcPattern, false)
	if len(sources) == 0 {
		return fmt.Sprintf("mv: %s: No files matched", srcPattern), 1
	}

	dstInfo, dstErr := os.Stat(dst)
	dstIsDir := dstErr == nil && dstInfo.IsDir()

	for _, src := range sources {
		srcPath := t.resolve(src)
		final := dst
		if dstIsDir {
			final = filepath.Join(dst, filepath.Base(srcPath))
		}
		if err := os.Rename(srcPath, final); err != nil {
			if os.IsNotExist(err) {
				return fmt.Sprintf("mv: %s: No such file or directory", src), 1
			}
			if os.IsPermission(err) {
				return fmt.Sprintf("mv: %s: Permission denied", src), 1
			}
			return fmt.Sprintf("mv: %s: %v", src, err), 1
		}
	}
	return "", 0
}

func (t *Terminal) handleTouch(args []string) (string, int) {
	if len(args) == 0 {
		return "touch: missing operand", 1
	}

	now := time.Now()
	for _, pattern := range args {
		for _, name := range expandPattern(t.currentDir, pattern, true) {
			full := t.resolve(name)
			f, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				if os.IsPermission(err) {
					return fmt.Sprintf("touch: %s: Permission denied", name), 1
				}
				return fmt.Sprintf("touch: %s: %v", name, err), 1
			}
			f.Close()
			os.Chtimes(full, now, now)
		}
	}
	return "", 0
}

func (t *Terminal) handleCat(args []string) (string, int) {
	if len(args) == 0 {
		return "cat: missing operand", 1
	}

	var contents []string
	for _, name := range args {
		data, err := os.ReadFile(t.resolve(name))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Sprintf("cat: %s: No such file or directory", name), 1
			}
			if os.IsPermission(err) {
				return fmt.Sprintf("cat: %s: Permission denied", name), 1
			}
			return fmt.Sprintf("cat: %s: %v", name, err), 1
		}
		contents = append(contents, string(data))
	}
	return strings.Join(contents, "\n"), 0
}

func (t *Terminal) handleEcho(args []string) (string, int) {
	return strings.Join(args, " "), 0
}

func (t *Terminal) handleGrep(args []string) (string, int) {
	if len(args) < 1 {
		return "grep: missing pattern", 1
	}

	pattern := args[0]
	files := args[1:]
	if len(files) == 0 {
		return "grep: reading from stdin not implemented", 1
	}

	var lines []string
	for _, name := range files {
		f, err := os.Open(t.resolve(name))
		if err != nil {
			// Per-file errors are reported inline without aborting the
			// remaining files.
			if os.IsNotExist(err) {
				lines = append(lines, fmt.Sprintf("grep: %s: No such file or directory", name))
			} else if os.IsPermission(err) {
				lines = append(lines, fmt.Sprintf("grep: %s: Permission denied", name))
			} else {
				lines = append(lines, fmt.Sprintf("grep: %s: %v", name, err))
			}
			continue
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			if strings.Contains(scanner.Text(), pattern) {
				lines = append(lines, fmt.Sprintf("%s:%d:%s", name, lineNum, scanner.Text()))
			}
		}
		f.Close()
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleFind(args []string) (string, int) {
	if len(args) == 0 {
		return "find: missing path", 1
	}

	root := t.resolve(args[0])
	namePattern := ""
	if len(args) > 1 && args[1] == "-name" {
		if len(args) < 3 {
			return "find: missing argument to -name", 1
		}
		namePattern = args[2]
	}

	if _, err := os.Stat(root); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("find: %s: Permission denied", args[0]), 1
		}
		return fmt.Sprintf("find: %s: No such file or directory", args[0]), 1
	}

	var results []string
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, matching the permissive
			// walk of a plain find.
			return nil
		}
		if path == root {
			return nil
		}
		if namePattern == "" || strings.Contains(d.Name(), namePattern) {
			results = append(results, path)
		}
		return nil
	})
	return strings.Join(results, "\n"), 0
}

func (t *Terminal) handleWhoami(args []string) (string, int) {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, 0
	}
	if name := os.Getenv("USER"); name != "" {
		return name, 0
	}
	if name := os.Getenv("USERNAME"); name != "" {
		return name, 0
	}
	return "user", 0
}

func (t *Terminal) handleDate(args []string) (string, int) {
	return time.Now().Format("Mon Jan 02 15:04:05 MST 2006"), 0
}

func (t *Terminal) handleHistory(args []string) (string, int) {
	if len(t.history) == 0 {
		return "No commands in history", 0
	}

	start := 0
	if len(t.history) > 20 {
		start = len(t.history) - 20
	}

	var lines []string
	for i, cmd := range t.history[start:] {
		lines = append(lines, fmt.Sprintf("%4d  %s", i+1, cmd))
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleHelp(args []string) (string, int) {
	return helpText(t.AIEnabled()), 0
}

func (t *Terminal) handleClear(args []string) (string, int) {
	// ANSI clear-screen plus cursor-home; the caller prints it.
	return "\x1b[2J\x1b[H", 0
}

func (t *Terminal) handleExit(args []string) (string, int) {
	return "Goodbye!", 0
}

// copyFile duplicates a regular file's contents and permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
