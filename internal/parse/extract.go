package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// simpleObjectRE matches flat, non-nested {...} spans.
var simpleObjectRE = regexp.MustCompile(`\{[^}]+\}`)

// ExtractJSON locates a syntactically valid JSON object inside noisy text.
// Strategies run in order, each only when every earlier one produced
// nothing: the whole text, balanced (possibly nested) brace spans, simple
// flat spans, and finally lazily-bounded spans ending at whitespace or end
// of text. Within a strategy, candidates are tried left to right and the
// first one that parses wins. Returns false when no candidate parses.
func ExtractJSON(text string) (string, bool) {
	if isJSONObject(text) {
		return strings.TrimSpace(text), true
	}
	for _, candidates := range [][]string{
		balancedSpans(text),
		simpleObjectRE.FindAllString(text, -1),
		boundedSpans(text),
	} {
		for _, c := range candidates {
			if isJSONObject(c) {
				return c, true
			}
		}
	}
	return "", false
}

// isJSONObject reports whether s parses as a single JSON object. Arrays
// and scalars are not grade candidates.
func isJSONObject(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var obj map[string]any
	return json.Unmarshal([]byte(trimmed), &obj) == nil
}

// balancedSpans returns every balanced {...} span, scanning start
// positions left to right. Braces inside JSON string literals do not
// count toward nesting, and escaped quotes do not close a string.
func balancedSpans(text string) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if end := matchBrace(text, i); end >= 0 {
			spans = append(spans, text[i:end+1])
		}
	}
	return spans
}

// matchBrace returns the index of the brace closing the one at start, or
// -1 if the span never balances.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return -1
}

// boundedSpans is the last-resort sweep: the shortest {...} span whose
// closing brace is followed by whitespace or end of text.
func boundedSpans(text string) []string {
	var spans []string
	i := 0
	for {
		start := strings.IndexByte(text[i:], '{')
		if start < 0 {
			return spans
		}
		start += i
		end := -1
		for j := start + 1; j < len(text); j++ {
			if text[j] == '}' && (j+1 == len(text) || isSpaceByte(text[j+1])) {
				end = j
				break
			}
		}
		if end < 0 {
			return spans
		}
		spans = append(spans, text[start:end+1])
		i = end + 1
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
