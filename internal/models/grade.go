package models

import "fmt"

// MaxScore is the upper bound for a submission score. Scores are always
// clamped into [0, MaxScore].
const MaxScore = 20.0

// PassThreshold is the minimum score considered a passing grade.
const PassThreshold = 10.0

// Status represents the pass/fail outcome of a graded submission.
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
)

// GradeRecord is the normalized result of evaluating one submission.
// RawOutput always holds the model's original reply, even when parsing
// fell back to heuristics or failed outright.
type GradeRecord struct {
	Score        float64        `json:"score"`
	Feedback     string         `json:"feedback"`
	Improvements []string       `json:"improvements"`
	Breakdown    map[string]any `json:"breakdown"`
	RawOutput    string         `json:"raw_output"`
}

// NewGradeRecord returns an empty record with non-nil collections so it
// always marshals as [] and {} rather than null.
func NewGradeRecord() *GradeRecord {
	return &GradeRecord{
		Improvements: []string{},
		Breakdown:    map[string]any{},
	}
}

// Status reports whether the record's score meets the pass threshold.
func (g *GradeRecord) Status() Status {
	if g.Score >= PassThreshold {
		return StatusPass
	}
	return StatusFail
}

// GradedSubmission pairs an assignment label with its grade, the unit a
// batch run produces and reports on.
type GradedSubmission struct {
	Assignment string       `json:"assignment"`
	Record     *GradeRecord `json:"grade"`
}

// ClampScore bounds a score into [0, MaxScore].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// NewParseFailureRecord is the designed worst case of response parsing:
// a zero score narrating the failure, with the original reply retained.
func NewParseFailureRecord(raw string, cause error) *GradeRecord {
	return &GradeRecord{
		Score:        0,
		Feedback:     "Error parsing model response",
		Improvements: []string{"Unable to parse model response"},
		Breakdown:    map[string]any{"error": errText(cause)},
		RawOutput:    raw,
	}
}

// NewAPIFailureRecord reports a failed provider call as a degraded grade
// rather than an error.
func NewAPIFailureRecord(cause error) *GradeRecord {
	return &GradeRecord{
		Score:        0,
		Feedback:     fmt.Sprintf("Error calling API: %s", errText(cause)),
		Improvements: []string{"API call failed"},
		Breakdown:    map[string]any{"error": errText(cause)},
		RawOutput:    errText(cause),
	}
}

// NewSystemFailureRecord reports a failure outside the provider call,
// such as a rejected credential override.
func NewSystemFailureRecord(cause error) *GradeRecord {
	return &GradeRecord{
		Score:        0,
		Feedback:     fmt.Sprintf("Error during grading: %s", errText(cause)),
		Improvements: []string{"System error occurred"},
		Breakdown:    map[string]any{"error": errText(cause)},
		RawOutput:    errText(cause),
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
