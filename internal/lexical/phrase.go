package lexical

import "strings"

// IsPhraseExplicitlyMentioned reports whether the phrase is evidenced by
// the text. Two checks, in order:
//
//  1. the normalized phrase is a literal substring of the normalized text;
//  2. every stemmed, stop-word-filtered token of the phrase appears among
//     the stemmed tokens of the text (order-independent superset check).
func IsPhraseExplicitlyMentioned(phrase, text string) bool {
	normPhrase := NormalizeText(phrase)
	normText := NormalizeText(text)
	if normPhrase == "" || normText == "" {
		return false
	}

	if strings.Contains(normText, normPhrase) {
		return true
	}

	textTokens := make(map[string]bool)
	for _, token := range strings.Fields(normText) {
		textTokens[Stem(token)] = true
	}

	matchedAny := false
	for _, token := range strings.Fields(normPhrase) {
		if stopWords[token] {
			continue
		}
		if !textTokens[Stem(token)] {
			return false
		}
		matchedAny = true
	}
	return matchedAny
}
