package meta

import (
	"regexp"
	"strings"
	"unicode"
)

var keySeparators = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabeler turns a field key into a human-friendly label: separators
// become spaces, camelCase and letter/digit boundaries split words, and each
// word is title-cased. "project_status" becomes "Project Status".
func DefaultLabeler(key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	var words []string
	for _, part := range keySeparators.Split(key, -1) {
		if part == "" {
			continue
		}
		for _, word := range splitBoundaries(part) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func splitBoundaries(input string) []string {
	runes := []rune(input)
	var (
		words []string
		start int
	)
	for idx := 1; idx < len(runes); idx++ {
		prev, cur := runes[idx-1], runes[idx]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			words = append(words, string(runes[start:idx]))
			start = idx
		}
	}
	return append(words, string(runes[start:]))
}

func titleWord(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
