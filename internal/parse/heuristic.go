package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gradekit/gradekit/internal/models"
)

var (
	scoreLabelRE = regexp.MustCompile(`(?i)(?:score|grade|marks?)[:\s]+(\d+(?:\.\d+)?)`)
	scoreOutOfRE = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:/|\s*out\s*of\s*)(?:20|twenty)`)

	feedbackRE = regexp.MustCompile(`(?i)(?:feedback|comments?)[:\s]+([^\n]+)`)

	improvementsRE     = regexp.MustCompile(`(?i)(?:improvements?|suggestions?)[:\s]+((?:[^\n]+\n?)+)`)
	improvementSplitRE = regexp.MustCompile(`(?:\d+\.|•|-|\n)+`)

	breakdownRE = regexp.MustCompile(`(?i)(?:question|part|section)\s*(\d+)[:\s]+(\d+(?:\.\d+)?)`)
)

// ExtractHeuristic recovers grade fields from text with no usable JSON.
// It scans the sanitized text but records the original input as
// RawOutput. Unmatched fields keep their zero defaults; the result is
// always a populated record.
func ExtractHeuristic(sanitized, original string) *models.GradeRecord {
	rec := models.NewGradeRecord()
	rec.RawOutput = original

	for _, re := range []*regexp.Regexp{scoreLabelRE, scoreOutOfRE} {
		if m := re.FindStringSubmatch(sanitized); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				rec.Score = models.ClampScore(v)
				break
			}
		}
	}

	if m := feedbackRE.FindStringSubmatch(sanitized); m != nil {
		rec.Feedback = strings.TrimSpace(m[1])
	}

	if m := improvementsRE.FindStringSubmatch(sanitized); m != nil {
		for _, part := range improvementSplitRE.Split(m[1], -1) {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				rec.Improvements = append(rec.Improvements, trimmed)
			}
		}
	}

	// Duplicate question labels keep the most recent value.
	for _, m := range breakdownRE.FindAllStringSubmatch(sanitized, -1) {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			rec.Breakdown[fmt.Sprintf("question%s", m[1])] = v
		}
	}

	return rec
}
