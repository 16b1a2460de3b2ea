package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gradekit/gradekit/internal/batch"
	"github.com/gradekit/gradekit/internal/dataset"
	"github.com/gradekit/gradekit/internal/export"
	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/statistics"
	"github.com/gradekit/gradekit/internal/utils"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newBatchCommand() *cobra.Command {
	var (
		submissionsPath  string
		idealPath        string
		instructionsPath string
		model            string
		workers          int
		rows             string
		outputs          []string
		title            string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Grade a CSV of student submissions",
		Long: `Grade every submission in a CSV file against a shared ideal solution
and grading instructions.

The CSV needs an "assignment" and a "student_solution" column; extra
columns are ignored, and blank assignment names get positional labels.
Submissions are graded concurrently and results come back in row order.

Results can be written to CSV (.csv, or .csv.gz for compressed) and to a
standalone HTML report (.html).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if submissionsPath == "" || idealPath == "" || instructionsPath == "" {
				return &UsageError{Message: "--submissions, --ideal, and --instructions are required"}
			}

			start, end, err := parseRowRange(rows)
			if err != nil {
				return &UsageError{Message: err.Error()}
			}

			for _, out := range outputs {
				if outputKind(out) == "" {
					return &UsageError{Message: fmt.Sprintf("unsupported output format %q (use .csv, .csv.gz, or .html)", out)}
				}
			}

			ideal, err := os.ReadFile(idealPath)
			if err != nil {
				return fmt.Errorf("reading ideal solution: %w", err)
			}

			instructions, err := os.ReadFile(instructionsPath)
			if err != nil {
				return fmt.Errorf("reading grading instructions: %w", err)
			}

			var subs []dataset.Submission
			if start > 0 {
				subs, err = dataset.LoadSubmissionsRange(submissionsPath, start, end)
			} else {
				subs, err = dataset.LoadSubmissions(submissionsPath)
			}
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("No submissions to grade.")
				return nil
			}

			ctx := context.Background()

			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}

			w := workers
			if w <= 0 {
				w = app.cfg.Defaults.Workers
			}

			runner := batch.NewRunner(app.eval, batch.WithWorkers(w))
			runner.OnProgress(batchProgressListener)
			runner.OnProgress(utils.EventToSlog)

			results := runner.Run(ctx, subs, batch.Assignment{
				IdealSolution:       string(ideal),
				GradingInstructions: string(instructions),
				Model:               model,
			})

			printResultsTable(os.Stdout, results)

			scores := statistics.Scores(results)
			sum := statistics.Summarize(scores)
			printBatchSummary(sum, scores)

			for _, out := range outputs {
				if err := writeOutput(out, title, results, sum); err != nil {
					return err
				}
				fmt.Printf("Results saved to: %s\n", out)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&submissionsPath, "submissions", "", "Path to the submissions CSV (assignment, student_solution columns)")
	cmd.Flags().StringVar(&idealPath, "ideal", "", "Path to the ideal solution file")
	cmd.Flags().StringVar(&instructionsPath, "instructions", "", "Path to the grading instructions file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to grade with (default from configuration)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent grading workers (default from configuration)")
	cmd.Flags().StringVar(&rows, "rows", "", "Grade only rows N-M of the CSV (1-based, inclusive)")
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "Write results to a file (.csv, .csv.gz, or .html; repeatable)")
	cmd.Flags().StringVar(&title, "title", "Grading Report", "Title for the HTML report")

	return cmd
}

// parseRowRange parses a 1-based inclusive "N-M" row selection. The empty
// string selects all rows and returns (0, 0).
func parseRowRange(s string) (start, end int, err error) {
	if s == "" {
		return 0, 0, nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --rows %q, expected N-M", s)
	}
	start, err = strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --rows start %q", lo)
	}
	end, err = strconv.Atoi(hi)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --rows end %q", hi)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid --rows %q, start must be >= 1 and end >= start", s)
	}
	return start, end, nil
}

// outputKind classifies a results path by extension.
func outputKind(path string) string {
	switch {
	case strings.HasSuffix(path, ".csv"), strings.HasSuffix(path, ".csv.gz"):
		return "csv"
	case strings.HasSuffix(path, ".html"), strings.HasSuffix(path, ".htm"):
		return "html"
	default:
		return ""
	}
}

// writeOutput writes batch results to path in the format its extension names.
func writeOutput(path, title string, results []models.GradedSubmission, sum statistics.Summary) error {
	switch outputKind(path) {
	case "csv":
		return export.WriteCSVFile(path, results)
	case "html":
		return export.WriteHTMLFile(path, title, results, sum)
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
}

// batchProgressListener prints one line per graded submission.
func batchProgressListener(event batch.ProgressEvent) {
	switch event.EventType {
	case batch.EventBatchStart:
		fmt.Printf("Grading %d submission(s)...\n\n", event.Total)
	case batch.EventGradeComplete:
		icon := "✓"
		if event.Status != models.StatusPass {
			icon = "✗"
		}
		fmt.Printf("%s [%d/%d] %s (%s)\n", icon, event.Num, event.Total, event.Assignment, formatScore(event.Score))
	case batch.EventBatchComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("\nBatch completed in %v\n", duration)
	}
}

func printResultsTable(w io.Writer, results []models.GradedSubmission) {
	const maxNameWidth = 25
	const minNameWidth = 10

	// Compute dynamic column width from the longest assignment name.
	nameWidth := len("Assignment")
	for _, r := range results {
		if runeLen := utf8.RuneCountInString(r.Assignment); runeLen > nameWidth {
			nameWidth = runeLen
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}

	const colScore = 7
	const colStatus = 6
	const maxFeedback = 40
	totalWidth := nameWidth + colScore + colStatus + maxFeedback + 6 // 6 = 3 gaps × 2 spaces

	fmt.Fprintf(w, "\n")                                    //nolint:errcheck
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck
	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight("Assignment", nameWidth),
		padRight("Score", colScore),
		padRight("Status", colStatus),
		"Feedback")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for _, r := range results {
		if r.Record == nil {
			continue
		}
		name := truncateName(r.Assignment, nameWidth)
		fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
			padRight(name, nameWidth),
			padRight(formatScore(r.Record.Score), colScore),
			padRight(string(r.Record.Status()), colStatus),
			truncate(oneLine(r.Record.Feedback), maxFeedback))
	}
	fmt.Fprintf(w, "\n") //nolint:errcheck
}

func printBatchSummary(sum statistics.Summary, scores []float64) {
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println(" BATCH RESULTS")
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println()

	fmt.Printf("Submissions:  %d\n", sum.Count)
	fmt.Printf("Mean Score:   %.2f / %.0f\n", sum.Mean, models.MaxScore)
	fmt.Printf("Highest:      %s\n", formatScore(sum.Highest))
	fmt.Printf("Lowest:       %s\n", formatScore(sum.Lowest))
	fmt.Printf("Std Dev:      %.4f\n", sum.StdDev)
	fmt.Printf("Pass Rate:    %.1f%%\n", sum.PassRate)

	// A confidence interval over a single sample says nothing.
	if len(scores) >= 2 {
		ci := statistics.BootstrapCI(scores, 0.95)
		fmt.Printf("95%% CI:       [%.2f, %.2f]\n", ci.Lower, ci.Upper)
	}
	fmt.Println()
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncate shortens s to maxLen characters, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// oneLine collapses whitespace runs so multi-line feedback fits a table cell.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
