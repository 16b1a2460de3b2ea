package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/statistics"
)

var reportTmpl = template.Must(template.New("report").Parse(reportHTML))

type reportData struct {
	Title     string
	Generated string
	MaxScore  float64
	Summary   statistics.Summary
	Rows      []reportRow
}

type reportRow struct {
	Assignment   string
	Score        string
	Status       models.Status
	StatusClass  string
	FeedbackHTML template.HTML
	Improvements []string
	Breakdown    map[string]any
}

// WriteHTML renders graded submissions as a standalone HTML report.
// Feedback is treated as markdown and converted with goldmark.
func WriteHTML(w io.Writer, title string, subs []models.GradedSubmission, sum statistics.Summary) error {
	md := goldmark.New()

	data := reportData{
		Title:     title,
		Generated: time.Now().Format(time.RFC3339),
		MaxScore:  models.MaxScore,
		Summary:   sum,
		Rows:      make([]reportRow, 0, len(subs)),
	}

	for _, s := range subs {
		// goldmark leaves raw HTML out of its output by default, so
		// model-written feedback cannot inject markup into the report.
		var fb bytes.Buffer
		if err := md.Convert([]byte(s.Record.Feedback), &fb); err != nil {
			return fmt.Errorf("export: render feedback for %s: %w", s.Assignment, err)
		}

		status := s.Record.Status()
		data.Rows = append(data.Rows, reportRow{
			Assignment:   s.Assignment,
			Score:        strconv.FormatFloat(s.Record.Score, 'f', -1, 64),
			Status:       status,
			StatusClass:  strings.ToLower(string(status)),
			FeedbackHTML: template.HTML(fb.String()),
			Improvements: s.Record.Improvements,
			Breakdown:    s.Record.Breakdown,
		})
	}

	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("export: render report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the HTML report to path.
func WriteHTMLFile(path, title string, subs []models.GradedSubmission, sum statistics.Summary) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, title, subs, sum); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #1a1a2e; padding-bottom: 0.3rem; }
table.summary { border-collapse: collapse; margin: 1rem 0; }
table.summary td, table.summary th { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
section.record { border: 1px solid #ddd; border-radius: 6px; padding: 0.5rem 1rem; margin: 1rem 0; }
.status { font-size: 0.8em; padding: 0.1rem 0.5rem; border-radius: 4px; color: #fff; }
.status.pass { background: #2e7d32; }
.status.fail { background: #c62828; }
ul.breakdown { list-style: none; padding-left: 0; }
.generated { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Generated {{.Generated}}</p>
<table class="summary">
<tr><th>Submissions</th><th>Mean</th><th>Highest</th><th>Lowest</th><th>Std dev</th><th>Pass rate</th></tr>
<tr>
<td>{{.Summary.Count}}</td>
<td>{{printf "%.2f" .Summary.Mean}}</td>
<td>{{printf "%.2f" .Summary.Highest}}</td>
<td>{{printf "%.2f" .Summary.Lowest}}</td>
<td>{{printf "%.2f" .Summary.StdDev}}</td>
<td>{{printf "%.1f" .Summary.PassRate}}%</td>
</tr>
</table>
{{range .Rows}}
<section class="record">
<h2>{{.Assignment}} <span class="status {{.StatusClass}}">{{.Status}}</span></h2>
<p>Score: {{.Score}} / {{$.MaxScore}}</p>
<div class="feedback">{{.FeedbackHTML}}</div>
{{if .Improvements}}
<h3>Improvements</h3>
<ul>
{{range .Improvements}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
{{if .Breakdown}}
<h3>Breakdown</h3>
<ul class="breakdown">
{{range $part, $score := .Breakdown}}<li>{{$part}}: {{$score}}</li>
{{end}}</ul>
{{end}}
</section>
{{end}}
</body>
</html>
`
