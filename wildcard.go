package main

import (
	"path/filepath"
	"runtime"
	"strings"
)

// hasWildcard reports whether a token contains glob metacharacters.
func hasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// expandPattern expands a single builtin argument against dir. Tokens
// without metacharacters pass through untouched. In a creation context
// (mkdir, touch) a pattern matching nothing falls back to the literal
// name so that the target gets created; in deletion/copy/move contexts
// zero matches yield an empty slice and the caller reports an error.
// The original behavior of deleting a file literally named "*.tmp" when
// the glob missed is deliberately not reproduced.
func expandPattern(dir, pattern string, create bool) []string {
	if !hasWildcard(pattern) {
		return []string{pattern}
	}

	search := pattern
	if !filepath.IsAbs(search) {
		search = filepath.Join(dir, search)
	}

	matches, err := filepath.Glob(search)
	if err == nil && len(matches) > 0 {
		return matches
	}
	if create {
		return []string{pattern}
	}
	return nil
}

// expandWildcards expands glob tokens in a fallback command line on
// platforms whose native shell does not glob itself. On Unix-likes the
// line passes through unchanged; cmd.exe on Windows leaves globbing to
// the caller, so each matching token is replaced by its quoted matches
// and non-matching patterns are kept literally.
func expandWildcards(command, dir string) string {
	if runtime.GOOS != "windows" {
		return command
	}

	parts := strings.Fields(command)
	expanded := make([]string, 0, len(parts))
	for _, part := range parts {
		if !hasWildcard(part) {
			expanded = append(expanded, part)
			continue
		}
		search := part
		if !filepath.IsAbs(search) {
			search = filepath.Join(dir, search)
		}
		matches, err := filepath.Glob(search)
		if err != nil || len(matches) == 0 {
			expanded = append(expanded, part)
			continue
		}
		for _, m := range matches {
			expanded = append(expanded, quoteArg(m))
		}
	}
	return strings.Join(expanded, " ")
}

// quoteArg wraps a path in double quotes when it would not survive
// re-tokenization by the host shell.
func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t") {
		return "\"" + s + "\""
	}
	return s
}
