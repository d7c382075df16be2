package queryterms

import (
	"strings"
	"unicode"
)

// Stop words to filter out of token extraction and phrase-window starts
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "what": true, "which": true,
	"how": true, "when": true, "where": true, "who": true, "does": true,
}

// isStopWord reports whether the word (any case) is a stop word.
func isStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// splitWords splits text into words preserving case, trimming surrounding
// punctuation from each word. Empty words are dropped.
func splitWords(text string) []string {
	words := strings.Fields(text)
	cleaned := make([]string, 0, len(words))
	for _, word := range words {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// isCapitalized reports whether the word starts with an uppercase letter.
func isCapitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
