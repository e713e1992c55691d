package transform

import (
	"regexp"
	"strings"
)

// Rule rewrites raw model output before it is parsed.
type Rule func(string) string

var (
	fencePattern     = regexp.MustCompile("(?s)^\\s*```[a-zA-Z0-9_+-]*\\s*\\n(.*?)\\n?\\s*```\\s*$")
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	preamblePattern  = regexp.MustCompile(`(?i)^(sure|certainly|of course|here is|here's|here are|below is)\b[^\n]*:\s*\n`)
	headingMarkerPat = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// StripCodeFences removes a single Markdown code fence wrapping the whole text.
func StripCodeFences(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// NormalizeNewlines converts CRLF and CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// CollapseBlankLines reduces runs of blank lines to a single blank line.
func CollapseBlankLines(s string) string {
	return blankRunPattern.ReplaceAllString(s, "\n\n")
}

// RemovePreamble drops a leading conversational line such as "Sure, here is the outline:".
func RemovePreamble(s string) string {
	trimmed := strings.TrimLeft(s, " \t\n")
	if loc := preamblePattern.FindStringIndex(trimmed); loc != nil {
		return trimmed[loc[1]:]
	}
	return s
}

// StripHeadingMarkers removes Markdown heading markers, keeping the text.
func StripHeadingMarkers(s string) string {
	return headingMarkerPat.ReplaceAllString(s, "")
}

func defaultRules() map[string]Rule {
	return map[string]Rule{
		"trim_whitespace":       strings.TrimSpace,
		"strip_code_fences":     StripCodeFences,
		"normalize_newlines":    NormalizeNewlines,
		"collapse_blank_lines":  CollapseBlankLines,
		"remove_preamble":       RemovePreamble,
		"strip_heading_markers": StripHeadingMarkers,
	}
}
