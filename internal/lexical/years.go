package lexical

import (
	"regexp"
	"strconv"
	"strings"
)

// spelledNumbers maps spelled-out numbers one through twenty to digits.
// Conversion runs before the years patterns so "five years" matches.
var spelledNumbers = map[string]string{
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
	"eleven": "11", "twelve": "12", "thirteen": "13", "fourteen": "14",
	"fifteen": "15", "sixteen": "16", "seventeen": "17", "eighteen": "18",
	"nineteen": "19", "twenty": "20",
}

var (
	// Qualified minimums: "at least 5 years", "minimum 5 years",
	// "minimum of 5 years", "5+ years".
	minYearsPattern = regexp.MustCompile(`(?:at least|minimum(?: of)?|min\.?)\s+(\d+)\s*\+?\s*years?|(\d+)\s*\+\s*years?`)
	// Bare mentions: "5 years", "5 yrs" (normalization expands yrs).
	bareYearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)
)

// digitizeSpelledNumbers replaces spelled-out number tokens with digits.
func digitizeSpelledNumbers(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		if digit, ok := spelledNumbers[f]; ok {
			fields[i] = digit
		}
	}
	return strings.Join(fields, " ")
}

// ExtractMinimumYears scans text for a minimum-years requirement phrase
// ("at least N years", "minimum N years", "N+ years", or a bare "N years")
// and returns the maximum N found. ok is false when no years phrase is
// present.
func ExtractMinimumYears(text string) (years int, ok bool) {
	normalized := digitizeSpelledNumbers(NormalizeText(text))

	best := -1
	for _, m := range minYearsPattern.FindAllStringSubmatch(normalized, -1) {
		for _, group := range m[1:] {
			if group == "" {
				continue
			}
			if n, err := strconv.Atoi(group); err == nil && n > best {
				best = n
			}
		}
	}
	// A bare "N years" still expresses a minimum in requirement text.
	for _, m := range bareYearsPattern.FindAllStringSubmatch(normalized, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}

// ExtractMentionedYears scans text for bare "N years" mentions, no
// qualifier required, and returns the maximum found. ok is false when no
// mention exists.
func ExtractMentionedYears(text string) (years int, ok bool) {
	normalized := digitizeSpelledNumbers(NormalizeText(text))

	best := -1
	for _, m := range bareYearsPattern.FindAllStringSubmatch(normalized, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
