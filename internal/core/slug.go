package core

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLen is the longest name accepted for a project, app or package.
// npm rejects package names over 214 characters.
const MaxNameLen = 214

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidName reports whether name is usable as a directory name and as the
// unscoped part of an npm package name.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLen {
		return false
	}
	return namePattern.MatchString(name)
}

// ScopedName returns the workspace package name "@<project>/<name>".
func ScopedName(project, name string) string {
	return "@" + project + "/" + name
}

// Slugify converts free-form text (a directory name, a prompt answer) into a
// lowercase hyphen slug that satisfies ValidName.
// - allowed: [a-z0-9-]
// - whitespace/underscore => hyphen
// - drop all other chars
// - collapse multiple hyphens
// - trim leading/trailing hyphens
// - maxLen enforced (truncate after cleanup)
// if result empty or maxLen <= 0 => "workspace"
func Slugify(text string, maxLen int) string {
	if maxLen <= 0 {
		return "workspace"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-':
			b.WriteRune('-')
		}
	}

	result := strings.Trim(collapseHyphens(b.String()), "-")
	if len(result) > maxLen {
		result = result[:maxLen]
	}
	result = strings.Trim(collapseHyphens(result), "-")

	if result == "" {
		return "workspace"
	}
	return result
}

// collapseHyphens replaces multiple consecutive hyphens with a single hyphen.
func collapseHyphens(s string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if !prevHyphen {
				b.WriteRune(r)
				prevHyphen = true
			}
		} else {
			b.WriteRune(r)
			prevHyphen = false
		}
	}
	return b.String()
}
