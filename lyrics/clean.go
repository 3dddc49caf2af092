package lyrics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLineLength is the shortest line, in runes, worth scoring.
const MinLineLength = 15

var (
	reParens   = regexp.MustCompile(`\(.*?\)`)
	reDash     = regexp.MustCompile(`-.*`)
	reBrackets = regexp.MustCompile(`\[.*?\]`)

	boilerplate = []string{
		"contributors",
		"translations",
		"romanization",
		"lyrics by",
		"embed",
	}
)

// CleanTitle strips "(feat. X)" style annotations, dash qualifiers and bracketed tags from a track title.
func CleanTitle(title string) string {
	title = reParens.ReplaceAllString(title, "")
	title = reDash.ReplaceAllString(title, "")
	title = reBrackets.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// CleanLyrics splits a raw lyric body into the lines worth scoring, in their original order.
func CleanLyrics(raw string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(reBrackets.ReplaceAllString(line, ""))
		if line == "" || isBoilerplate(line) {
			continue
		}
		if utf8.RuneCountInString(line) < MinLineLength || !hasWord(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, b := range boilerplate {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

func hasWord(line string) bool {
	return strings.IndexFunc(line, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
