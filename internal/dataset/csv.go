package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Columns a submissions CSV must provide. Extra columns are ignored.
const (
	ColAssignment      = "assignment"
	ColStudentSolution = "student_solution"
)

// Submission is one student solution to grade, labeled by its assignment
// name. Rows with an empty assignment cell get a positional label so every
// graded record stays addressable in reports.
type Submission struct {
	Assignment      string
	StudentSolution string
}

// LoadSubmissions reads a submissions CSV and returns one Submission per
// data row, in file order. The first row is treated as headers and must
// include the assignment and student_solution columns.
func LoadSubmissions(path string) ([]Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	index := make(map[string]int, len(headers))
	for j, h := range headers {
		index[h] = j
	}
	for _, col := range []string{ColAssignment, ColStudentSolution} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: %s is missing required column %q", path, col)
		}
	}

	subs := make([]Submission, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		sub := Submission{
			Assignment:      record[index[ColAssignment]],
			StudentSolution: record[index[ColStudentSolution]],
		}
		if sub.Assignment == "" {
			sub.Assignment = fmt.Sprintf("assignment-%d", i+1)
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// LoadSubmissionsRange reads submissions in the given range [start, end]
// (1-based, inclusive). Row 1 is the first data row (after headers).
// Positional labels are assigned before slicing, so a row keeps the same
// label whether loaded whole or in a range.
func LoadSubmissionsRange(path string, start, end int) ([]Submission, error) {
	if start < 1 {
		return nil, fmt.Errorf("csv: range start must be >= 1, got %d", start)
	}
	if end < start {
		return nil, fmt.Errorf("csv: range end (%d) must be >= start (%d)", end, start)
	}

	all, err := LoadSubmissions(path)
	if err != nil {
		return nil, err
	}

	// Clamp end to available rows
	if end > len(all) {
		end = len(all)
	}

	// If start is beyond available rows, return empty
	if start > len(all) {
		return []Submission{}, nil
	}

	return all[start-1 : end], nil
}
