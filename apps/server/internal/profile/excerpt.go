package profile

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Placeholder previews used when neither a README excerpt nor a description is available.
const (
	PlaceholderNoContent   = "No README content available"
	PlaceholderMissing     = "No README available"
	PlaceholderUnavailable = "README unavailable"
)

const (
	primaryMinLineLen   = 15
	primaryMaxLines     = 4
	primaryMaxLen       = 280
	primaryMinResultLen = 30
	fallbackMinLineLen  = 20
	fallbackMaxLen      = 250
	usableExcerptLen    = 15
)

var (
	subheadingRe = regexp.MustCompile(`^##+ `)
	emphasisRe   = regexp.MustCompile("[*_`]")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Excerpt is a plain-text README preview.
// IsReal reports whether the text came from the README rather than a fallback.
type Excerpt struct {
	Preview string
	IsReal  bool
}

// ExtractExcerpt turns raw README text into a short plain-text preview.
// When no usable prose is found it falls back to description, then to
// PlaceholderNoContent. The returned preview is never empty.
func ExtractExcerpt(raw string, description *string) Excerpt {
	text := extractProse(raw)
	if runeLen(text) > usableExcerptLen {
		return Excerpt{Preview: text, IsReal: true}
	}
	return Excerpt{Preview: describeOr(description, PlaceholderNoContent)}
}

// extractProse runs the two heuristic passes and returns the best candidate,
// which may be empty or too short to use.
func extractProse(raw string) string {
	lines := strings.Split(raw, "\n")

	var primary []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i == 0 && strings.HasPrefix(trimmed, "# ") {
			continue
		}
		if keepPrimary(trimmed) {
			primary = append(primary, line)
			if len(primary) == primaryMaxLines {
				break
			}
		}
	}

	var text string
	if len(primary) > 0 {
		text = cleanMarkup(strings.Join(primary, " "), primaryMaxLen)
	}
	if runeLen(text) >= primaryMinResultLen {
		return text
	}

	for _, line := range lines {
		if keepFallback(strings.TrimSpace(line)) {
			return cleanMarkup(line, fallbackMaxLen)
		}
	}
	return text
}

func keepPrimary(trimmed string) bool {
	if runeLen(trimmed) <= primaryMinLineLen {
		return false
	}
	for _, prefix := range []string{"![", "[![", "```", "---", "|", "- ["} {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	if subheadingRe.MatchString(trimmed) {
		return false
	}
	lower := strings.ToLower(trimmed)
	return !strings.Contains(lower, "installation") && !strings.Contains(lower, "license")
}

func keepFallback(trimmed string) bool {
	if runeLen(trimmed) <= fallbackMinLineLen {
		return false
	}
	for _, prefix := range []string{"#", "!", "```", "---", "|"} {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return true
}

// cleanMarkup strips emphasis markers, collapses links to their label and
// normalises whitespace, then truncates to limit runes.
func cleanMarkup(s string, limit int) string {
	s = emphasisRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if runeLen(s) > limit {
		s = string([]rune(s)[:limit])
	}
	return s
}

// describeOr returns the repository description, or fallback when it is absent or empty.
func describeOr(description *string, fallback string) string {
	if description != nil && *description != "" {
		return *description
	}
	return fallback
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
