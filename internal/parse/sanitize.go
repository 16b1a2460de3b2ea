// Package parse turns raw LLM replies into normalized grade records.
// Models return anything from clean JSON to fenced markdown to loose prose;
// the pipeline here degrades instead of failing: sanitize the text, hunt
// for a parseable JSON object, then as a last resort recover fields with
// regexes.
package parse

import (
	"regexp"
	"strings"
)

var (
	// Fenced code blocks, with or without a language tag. The inner
	// content is kept.
	fenceRE = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)```")

	// Line and block comments that models sometimes emit inside "JSON".
	commentRE = regexp.MustCompile(`(?s)//.*?\n|/\*.*?\*/`)
)

// Sanitize strips markdown fences and comments from raw model text and
// trims surrounding whitespace. It never fails and is idempotent.
func Sanitize(text string) string {
	text = fenceRE.ReplaceAllString(text, "$1")
	text = commentRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
