// Package export writes batch grading results to files: plain or
// gzip-compressed CSV, and a self-contained HTML report.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gradekit/gradekit/internal/models"
)

// csvHeader lists the exported columns in order.
var csvHeader = []string{"assignment", "score", "status", "feedback"}

// WriteCSV writes graded submissions to w as CSV, one row per submission
// in input order.
func WriteCSV(w io.Writer, subs []models.GradedSubmission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, s := range subs {
		row := []string{
			s.Assignment,
			strconv.FormatFloat(s.Record.Score, 'f', -1, 64),
			string(s.Record.Status()),
			s.Record.Feedback,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row %s: %w", s.Assignment, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes graded submissions as CSV to path. A path ending in
// .gz gets gzip-compressed output.
func WriteCSVFile(path string, subs []models.GradedSubmission) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, subs); err != nil {
		return err
	}

	data := buf.Bytes()
	if strings.HasSuffix(path, ".gz") {
		var zbuf bytes.Buffer
		zw := gzip.NewWriter(&zbuf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("export: compress %s: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("export: compress %s: %w", path, err)
		}
		data = zbuf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
