// Package lexical provides the deterministic text-matching heuristics used
// to resolve job requirements against resume text: normalization, years
// extraction, degree level comparison, and stemmed phrase matching.
package lexical

import (
	"strings"
	"unicode"
)

// abbreviations maps common domain shorthand to its expanded form.
// Expansion happens on whole tokens during normalization, before matching.
var abbreviations = map[string]string{
	"mgmt":  "management",
	"yrs":   "years",
	"yr":    "year",
	"genai": "generative ai",
	"ml":    "machine learning",
	"nlp":   "natural language processing",
	"k8s":   "kubernetes",
	"db":    "database",
	"eng":   "engineering",
	"dev":   "development",
	"exp":   "experience",
	"sr":    "senior",
	"jr":    "junior",
}

// stopWords are filtered out of phrase tokens before the bag-of-tokens
// superset check. Kept small on purpose: only glue words that carry no
// matching signal.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true,
	"using": true, "via": true,
}

// NormalizeText lowercases, expands abbreviations, strips punctuation, and
// collapses whitespace. All lexical matching runs over this form.
func NormalizeText(text string) string {
	lower := strings.ToLower(text)

	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '+' || r == '#':
			// Keep tech-name characters (c++, c#).
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}

	fields := strings.Fields(sb.String())
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if expanded, ok := abbreviations[f]; ok {
			out = append(out, strings.Fields(expanded)...)
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// Tokenize splits normalized text into tokens. Input is normalized first,
// so callers may pass raw text.
func Tokenize(text string) []string {
	return strings.Fields(NormalizeText(text))
}

// Stem applies the minimal suffix rules used for token comparison:
// "-ies" becomes "y" on words longer than four characters, and a trailing
// "s" is stripped from words longer than three characters.
func Stem(word string) string {
	if len(word) > 4 && strings.HasSuffix(word, "ies") {
		return word[:len(word)-3] + "y"
	}
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

// NormalizeValue normalizes an edit operation value for comparison and
// emission: CRLF folded to LF, every control character other than the
// newline stripped, and the result trimmed.
func NormalizeValue(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	var sb strings.Builder
	sb.Grow(len(value))
	for _, r := range value {
		if r == '\n' {
			sb.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String())
}
