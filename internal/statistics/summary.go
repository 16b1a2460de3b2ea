package statistics

import (
	"math"

	"github.com/gradekit/gradekit/internal/models"
)

// Summary aggregates the scores of one grading run, the figures a results
// dashboard reports for a batch.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Highest  float64 `json:"highest"`
	Lowest   float64 `json:"lowest"`
	StdDev   float64 `json:"std_dev"`
	PassRate float64 `json:"pass_rate"`
}

// Scores extracts the numeric scores from a batch of graded submissions,
// in order. Entries without a record are skipped.
func Scores(results []models.GradedSubmission) []float64 {
	scores := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Record == nil {
			continue
		}
		scores = append(scores, r.Record.Score)
	}
	return scores
}

// Summarize computes descriptive statistics over grade scores. PassRate is
// the percentage of scores at or above models.PassThreshold. Empty input
// yields a zero Summary.
func Summarize(scores []float64) Summary {
	if len(scores) == 0 {
		return Summary{}
	}

	s := Summary{
		Count:   len(scores),
		Mean:    mean(scores),
		Highest: scores[0],
		Lowest:  scores[0],
	}
	passed := 0
	for _, v := range scores {
		if v > s.Highest {
			s.Highest = v
		}
		if v < s.Lowest {
			s.Lowest = v
		}
		if v >= models.PassThreshold {
			passed++
		}
	}
	s.StdDev = stdDev(scores, s.Mean)
	s.PassRate = float64(passed) / float64(len(scores)) * 100.0
	return s
}

// stdDev is the sample standard deviation, zero when fewer than 2 scores.
func stdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
