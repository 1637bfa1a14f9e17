// Package langdetect identifies the language of repository files.
// It uses go-enry for filename, shebang and extension based detection and
// falls back to a few content patterns for extension-less files.
package langdetect

import (
	"bytes"
	"path"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned for pattern-detected content.
const (
	langGo     = "go"
	langPython = "python"
	langJSON   = "json"
	langYAML   = "yaml"
	langBash   = "bash"

	// Text is returned when no language could be determined.
	Text = "text"
)

// Detect returns the lowercase language name for a file, or Text.
func Detect(filePath string, content []byte) string {
	// Strategy 1: well-known file names such as Dockerfile or Makefile.
	if lang, safe := enry.GetLanguageByFilename(filePath); safe {
		return normalize(lang)
	}

	// Strategy 2: shebang.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 3: extension, disambiguated by content.
	if path.Ext(filePath) != "" {
		if lang := enry.GetLanguage(path.Base(filePath), content); lang != "" {
			return normalize(lang)
		}
	}

	// Strategy 4: content patterns.
	if lang := detectByPattern(bytes.TrimSpace(content)); lang != "" {
		return lang
	}

	return Text
}

// IsVendor reports whether the path belongs to vendored or third-party code.
func IsVendor(filePath string) bool {
	return enry.IsVendor(filePath)
}

// Skip reports whether a file should be ignored when extracting entities:
// vendored, generated or binary files.
func Skip(filePath string, content []byte) bool {
	return enry.IsVendor(filePath) ||
		enry.IsGenerated(filePath, content) ||
		enry.IsBinary(content)
}

// Matches reports whether lang is one of languages, ignoring case.
// An empty list matches everything.
func Matches(lang string, languages []string) bool {
	if len(languages) == 0 {
		return true
	}
	for _, l := range languages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

func detectByPattern(trimmed []byte) string {
	switch {
	case len(trimmed) == 0:
		return ""
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return langGo
	case bytes.Contains(trimmed, []byte("def ")) && bytes.Contains(trimmed, []byte("):")):
		return langPython
	case (trimmed[0] == '{' || trimmed[0] == '[') && bytes.Contains(trimmed, []byte(`"`)):
		return langJSON
	case looksLikeYAML(trimmed):
		return langYAML
	default:
		return ""
	}
}

// looksLikeYAML counts key: value pairs and root list items.
func looksLikeYAML(content []byte) bool {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") &&
			line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// normalize converts go-enry language names to lowercase identifiers.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
