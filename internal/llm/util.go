// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock strips markdown code fences and conversational framing
// from a model response, leaving the bare JSON payload. LLMs often wrap
// JSON in ```json ... ``` blocks or add a preamble even when instructed
// not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Conversational preamble or trailing commentary around the payload:
	// extract the first balanced JSON object or array.
	if extracted := extractJSONPayload(text); extracted != "" {
		return extracted
	}

	return text
}

// extractJSONPayload returns the first balanced JSON object or array found
// in text, whichever starts earlier.
func extractJSONPayload(text string) string {
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')

	if objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx) {
		return extractBalanced(text, '{', '}')
	}
	if arrIdx >= 0 {
		return extractBalanced(text, '[', ']')
	}
	return ""
}

// extractBalanced scans for the first `open` byte and returns the substring
// through its matching `closing` byte, skipping brackets inside JSON strings.
func extractBalanced(text string, open, closing byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
